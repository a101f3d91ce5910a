// internal/game/types.go
//
// Core type definitions for the Battleship engine.
// Defines:
//   - Cell: state of one grid square, doubling as its display symbol.
//   - Phase / Outcome: coarse game progress.
//   - Per-operation result types returned by Board and Game.
//   - Sentinel errors attached to rejected results.

package game

import "errors"

// Cell represents the state of a single grid square.
// The underlying string is the symbol sent to the UI:
//   - ".": empty water (or an unrevealed ship)
//   - "S": ship, only visible in revealed views
//   - "X": ship cell that has been hit
//   - "o": water that has been fired at
type Cell string

const (
	CellEmpty Cell = "."
	CellShip  Cell = "S"
	CellHit   Cell = "X"
	CellMiss  Cell = "o"
)

// Resolved reports whether the cell has already been fired at.
func (c Cell) Resolved() bool { return c == CellHit || c == CellMiss }

// Phase is the stage of a game. It only moves forward.
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhasePlaying   Phase = "playing"
	PhaseOver      Phase = "over"
)

// Outcome records who won once the phase is over.
type Outcome string

const (
	OutcomeNone   Outcome = "none"
	OutcomePlayer Outcome = "player"
	OutcomeBot    Outcome = "bot"
)

// Coord is a (row, col) grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var (
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrAlreadyTargeted  = errors.New("already targeted")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrWrongPhase       = errors.New("wrong phase")
	ErrFleetComplete    = errors.New("all ships already placed")
	ErrFleetIncomplete  = errors.New("ships left to place")
)

// ShotResult is the outcome of Board.ReceiveShot.
// Callers must check OK before trusting Hit.
type ShotResult struct {
	OK      bool   `json:"ok"`
	Hit     bool   `json:"hit"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// PlaceResult is returned by Game.PlacePlayerShip.
// Next is the index of the next ship to place (3 once the fleet is down).
type PlaceResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Next    int    `json:"next"`
	Err     error  `json:"-"`
}

// StartResult is returned by Game.StartBattle.
type StartResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// BotShot describes the bot's counter-shot after a successful player shot.
type BotShot struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	OK      bool   `json:"ok"`
	Hit     bool   `json:"hit"`
	Message string `json:"message"`
}

// FireResult is returned by Game.PlayerFire.
//   - Done:    the player sank the bot's fleet with this shot.
//   - BotDone: the bot's counter-shot sank the player's fleet.
//
// At most one of Done/BotDone is set. BotShot is nil when the shot was
// rejected or ended the game before the bot could answer.
type FireResult struct {
	OK      bool     `json:"ok"`
	Hit     bool     `json:"hit"`
	Done    bool     `json:"done,omitempty"`
	BotDone bool     `json:"bot_done,omitempty"`
	Message string   `json:"message"`
	BotShot *BotShot `json:"bot_shot,omitempty"`
	Err     error    `json:"-"`
}

// Snapshot is the UI-facing view of a game.
// The player's board is revealed; the bot's is not.
type Snapshot struct {
	Phase           Phase    `json:"phase"`
	PlayerBoard     [][]Cell `json:"player_board"`
	BotBoard        [][]Cell `json:"bot_board"`
	NextShipIndex   int      `json:"next_ship_idx"`
	ShipSizes       []int    `json:"ship_sizes"`
	PlayerShipsLeft int      `json:"player_ships_left"`
	BotShipsLeft    int      `json:"bot_ships_left"`
	Outcome         Outcome  `json:"outcome"`
}

// Reveal shows both boards with every ship visible.
type Reveal struct {
	PlayerBoard [][]Cell `json:"player_board"`
	BotBoard    [][]Cell `json:"bot_board"`
	Message     string   `json:"message"`
}
