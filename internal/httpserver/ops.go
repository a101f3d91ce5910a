// internal/httpserver/ops.go
//
// The bridge operations shared by the HTTP routes and the WebSocket channel.
// Each operation runs against the caller's session and returns the payload
// the UI renders: the operation's own result merged with a fresh snapshot.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexhawkins/GameSoftware/internal/game"
	"github.com/lexhawkins/GameSoftware/internal/history"
	"github.com/lexhawkins/GameSoftware/internal/store"
)

const (
	opState  = "state"
	opNew    = "new"
	opReset  = "reset"
	opPlace  = "place"
	opStart  = "start"
	opFire   = "fire"
	opReveal = "reveal"
)

var (
	errBadRequest = errors.New("bad_request")
	errUnknownOp  = errors.New("unknown_op")
	errNoSession  = errors.New("no_session")
)

// opRequest carries the arguments of place and fire.
// Row and Col are pointers so a missing coordinate is not read as 0.
type opRequest struct {
	Row        *int `json:"row"`
	Col        *int `json:"col"`
	Horizontal bool `json:"horizontal"`
}

func (r opRequest) coords() (int, int, error) {
	if r.Row == nil || r.Col == nil {
		return 0, 0, fmt.Errorf("%w: row and col are required", errBadRequest)
	}
	return *r.Row, *r.Col, nil
}

// placeRes is a placement result merged with the snapshot.
type placeRes struct {
	game.Snapshot
	game.PlaceResult
}

// startRes is a start-battle result merged with the snapshot.
type startRes struct {
	game.Snapshot
	game.StartResult
}

// fireRes is a fire result merged with the snapshot.
type fireRes struct {
	game.Snapshot
	game.FireResult
}

// dispatch runs op for sess. Engine rejections are part of the returned
// payload; only malformed requests and unknown ops produce an error.
func (s *Server) dispatch(ctx context.Context, sess *store.Session, op string, req opRequest) (any, error) {
	if sess == nil {
		return nil, errNoSession
	}
	var (
		out      any
		finished *history.Match
		err      error
	)
	sess.Do(func(g *game.Game) {
		switch op {
		case opState:
			out = g.State()
		case opNew, opReset:
			g.Reset()
			out = g.State()
		case opPlace:
			row, col, cerr := req.coords()
			if cerr != nil {
				err = cerr
				return
			}
			res := g.PlacePlayerShip(row, col, req.Horizontal)
			out = placeRes{Snapshot: g.State(), PlaceResult: res}
		case opStart:
			res := g.StartBattle()
			out = startRes{Snapshot: g.State(), StartResult: res}
		case opFire:
			row, col, cerr := req.coords()
			if cerr != nil {
				err = cerr
				return
			}
			res := g.PlayerFire(row, col)
			out = fireRes{Snapshot: g.State(), FireResult: res}
			if res.Done || res.BotDone {
				finished = matchFor(sess.ID, g)
			}
		case opReveal:
			out = g.Reveal()
		default:
			err = fmt.Errorf("%w: %q", errUnknownOp, op)
		}
	})
	if err != nil {
		return nil, err
	}
	if finished != nil {
		s.recordMatch(ctx, *finished)
	}
	return out, nil
}

// matchFor captures a finished game for the match log.
func matchFor(sessionID string, g *game.Game) *history.Match {
	st := g.Stats()
	return &history.Match{
		GameID:      g.ID(),
		SessionID:   sessionID,
		Outcome:     string(g.Outcome()),
		PlayerShots: st.PlayerShots,
		BotShots:    st.BotShots,
		StartedAt:   st.StartedAt,
		FinishedAt:  time.Now().UTC(),
	}
}

// recordMatch stores a finished match. Failures are logged, not returned:
// the game result has already been delivered.
func (s *Server) recordMatch(ctx context.Context, m history.Match) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, m); err != nil {
		log.Warn().Err(err).Str("game", m.GameID).Msg("record match")
		return
	}
	log.Info().Str("game", m.GameID).Str("outcome", m.Outcome).
		Int("player_shots", m.PlayerShots).Int("bot_shots", m.BotShots).Msg("match finished")
}
