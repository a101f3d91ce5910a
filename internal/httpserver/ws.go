// internal/httpserver/ws.go
//
// WebSocket flavour of the bridge. The UI can keep one connection open and
// send one frame per action instead of issuing HTTP requests:
//
//	→ {"id": 7, "op": "fire", "row": 2, "col": 3}
//	← {"id": 7, "op": "fire", "result": {...same payload as POST /game/fire...}}
//
// Frames are handled strictly one at a time per connection.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

const maxFrameBytes = 4096

// wsRequest is one inbound frame.
type wsRequest struct {
	ID int    `json:"id"`
	Op string `json:"op"`
	opRequest
}

// wsResponse is one outbound frame. Exactly one of Result/Error is set.
type wsResponse struct {
	ID     int    `json:"id"`
	Op     string `json:"op"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.cfg.ClientOrigin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// handleWS upgrades the connection and serves frames until the client
// disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := hlog.FromRequest(r)

	// the upgrade response bypasses w, so carry over a fresh session cookie
	hdr := http.Header{}
	if c := w.Header().Values("Set-Cookie"); len(c) > 0 {
		hdr["Set-Cookie"] = c
	}
	conn, err := s.upgrader().Upgrade(w, r, hdr)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)
	logger.Info().Str("session", sess.ID).Msg("websocket connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req wsRequest
		var resp wsResponse
		if err := json.Unmarshal(data, &req); err != nil {
			resp.Error = "bad_json"
		} else {
			resp.ID, resp.Op = req.ID, req.Op
			res, err := s.dispatch(r.Context(), sess, req.Op, req.opRequest)
			switch {
			case errors.Is(err, errBadRequest), errors.Is(err, errUnknownOp):
				resp.Error = err.Error()
			case err != nil:
				logger.Error().Err(err).Str("op", req.Op).Msg("websocket dispatch")
				resp.Error = "internal_error"
			default:
				resp.Result = res
			}
		}
		if err := conn.WriteJSON(resp); err != nil {
			logger.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}
