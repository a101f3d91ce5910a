// internal/game/engine.go
//
// Game engine for a single human-vs-bot Battleship session.
// Responsibilities:
//   - Create new games on a 6x6 grid with a randomly placed bot fleet.
//   - Place the player's fleet in the fixed length order 3, 2, 4.
//   - Resolve player shots and answer each accepted one with a bot shot.
//   - Track phase transitions: placement → playing → over.
//
// Notes:
//   - A Game is not safe for concurrent use; callers serialize access
//     (see store.Session).
//   - Randomness comes from an injected Rand so tests can script it.
//   - Rejections never panic; they come back as results with OK=false.
package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Size is the side length of both boards.
const Size = 6

// shipSizes is the order in which the player places ships.
// The bot's fleet uses the same lengths.
var shipSizes = []int{3, 2, 4}

// ShipSizes returns a copy of the fleet's ship lengths in placement order.
func ShipSizes() []int { return append([]int(nil), shipSizes...) }

// Rand is the random source the engine draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Option configures a Game at construction.
type Option func(*Game)

// WithRand sets the random source used for bot placement and targeting.
func WithRand(r Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithAutoStart makes placing the last ship start the battle immediately
// instead of waiting for StartBattle.
func WithAutoStart(on bool) Option {
	return func(g *Game) { g.autoStart = on }
}

// Stats are simple counters kept for the match log.
type Stats struct {
	PlayerShots int       `json:"player_shots"`
	BotShots    int       `json:"bot_shots"`
	StartedAt   time.Time `json:"started_at"`
}

// Game holds both boards and the orchestration state of one match.
type Game struct {
	id        string
	player    *Board
	bot       *Board
	phase     Phase
	outcome   Outcome
	nextShip  int
	autoStart bool

	rng         Rand
	botTargeted map[Coord]bool // every coordinate the bot has fired at
	botBacklog  []Coord        // shuffled untried coordinates, popped from the end
	botRestarts int            // full bot placement restarts in this game

	stats Stats
}

// New constructs a game in the placement phase with the bot fleet already
// laid out.
func New(opts ...Option) *Game {
	g := &Game{}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.init()
	return g
}

// Reset discards all state and starts a fresh game, keeping the random
// source and options.
func (g *Game) Reset() { g.init() }

func (g *Game) init() {
	g.id = uuid.NewString()
	g.player = NewBoard(Size)
	g.bot = NewBoard(Size)
	g.phase = PhasePlacement
	g.outcome = OutcomeNone
	g.nextShip = 0
	g.botRestarts = 0
	g.stats = Stats{StartedAt: time.Now().UTC()}
	g.placeBotFleet()
	g.initTargeting()
}

// ID is a unique identifier for this match. Reset assigns a new one.
func (g *Game) ID() string { return g.id }

// Phase reports the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Outcome reports who won, or OutcomeNone while the game is running.
func (g *Game) Outcome() Outcome { return g.outcome }

// Stats returns the shot counters.
func (g *Game) Stats() Stats { return g.stats }

// BotRestarts reports how many times bot placement started over.
func (g *Game) BotRestarts() int { return g.botRestarts }

// PlacePlayerShip places the next ship of the player's fleet at (row, col).
func (g *Game) PlacePlayerShip(row, col int, horizontal bool) PlaceResult {
	if g.phase != PhasePlacement {
		return PlaceResult{Message: "Not in placement phase.", Next: g.nextShip, Err: ErrWrongPhase}
	}
	if g.nextShip >= len(shipSizes) {
		return PlaceResult{Message: "All ships already placed.", Next: g.nextShip, Err: ErrFleetComplete}
	}
	if !g.player.PlaceShip(row, col, shipSizes[g.nextShip], horizontal) {
		return PlaceResult{Message: "Cannot place a ship there.", Next: g.nextShip, Err: ErrInvalidPlacement}
	}
	g.nextShip++

	msg := "Ship placed."
	if g.nextShip >= len(shipSizes) {
		if g.autoStart {
			g.phase = PhasePlaying
			msg = "All ships placed. The battle begins."
		} else {
			msg = "All ships placed. Press Start to play."
		}
	}
	return PlaceResult{OK: true, Message: msg, Next: g.nextShip}
}

// StartBattle moves from placement to playing once the fleet is down.
func (g *Game) StartBattle() StartResult {
	if g.phase != PhasePlacement {
		return StartResult{Message: "Already started or finished.", Err: ErrWrongPhase}
	}
	if g.nextShip < len(shipSizes) {
		return StartResult{Message: "Place all your ships before starting.", Err: ErrFleetIncomplete}
	}
	g.phase = PhasePlaying
	return StartResult{OK: true, Message: "The battle begins. Fire at the bot."}
}

// PlayerFire resolves the player's shot at the bot board and, if the game
// is still running, the bot's answer at the player board.
// A rejected shot does not give the bot a turn.
func (g *Game) PlayerFire(row, col int) FireResult {
	if g.phase != PhasePlaying {
		return FireResult{Message: "Not in playing phase.", Err: ErrWrongPhase}
	}
	shot := g.bot.ReceiveShot(row, col)
	res := FireResult{OK: shot.OK, Hit: shot.Hit, Message: shot.Message, Err: shot.Err}
	if !shot.OK {
		return res
	}
	g.stats.PlayerShots++

	if g.bot.AllSunk() {
		g.finish(OutcomePlayer)
		res.Done = true
		res.Message = "You win. You sank every bot ship."
		return res
	}

	target, ok := g.nextBotTarget()
	if !ok {
		return res
	}
	answer := g.player.ReceiveShot(target.Row, target.Col)
	g.stats.BotShots++
	res.BotShot = &BotShot{
		Row:     target.Row,
		Col:     target.Col,
		OK:      answer.OK,
		Hit:     answer.Hit,
		Message: answer.Message,
	}
	if g.player.AllSunk() {
		g.finish(OutcomeBot)
		res.BotDone = true
		res.Message = "The bot sank all your ships. You lose."
	}
	return res
}

func (g *Game) finish(o Outcome) {
	g.phase = PhaseOver
	g.outcome = o
}

// State returns the UI snapshot: the player's own board is revealed, the
// bot's is not.
func (g *Game) State() Snapshot {
	return Snapshot{
		Phase:           g.phase,
		PlayerBoard:     g.player.View(true),
		BotBoard:        g.bot.View(false),
		NextShipIndex:   g.nextShip,
		ShipSizes:       ShipSizes(),
		PlayerShipsLeft: g.player.ShipsRemaining(),
		BotShipsLeft:    g.bot.ShipsRemaining(),
		Outcome:         g.outcome,
	}
}

// Reveal shows both fleets. It does not change the game.
func (g *Game) Reveal() Reveal {
	return Reveal{
		PlayerBoard: g.player.View(true),
		BotBoard:    g.bot.View(true),
		Message:     "Boards revealed.",
	}
}
