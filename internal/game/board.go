// internal/game/board.go
//
// Board owns one player's grid and the ships placed on it.
// Invariants:
//   - every SHIP cell belongs to exactly one ship
//   - ships never overlap and lie fully inside the grid
//   - HIT and MISS cells are never fired at again

package game

// Board is a square grid of cells plus the coordinates of each placed ship.
type Board struct {
	size  int
	grid  [][]Cell
	ships [][]Coord
}

// NewBoard returns an empty size x size board.
func NewBoard(size int) *Board {
	grid := make([][]Cell, size)
	for r := range grid {
		grid[r] = make([]Cell, size)
		for c := range grid[r] {
			grid[r][c] = CellEmpty
		}
	}
	return &Board{size: size, grid: grid}
}

// Size returns the side length of the grid.
func (b *Board) Size() int { return b.size }

// InBounds reports whether (row, col) lies on the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// CanPlace reports whether a ship of the given length fits at (row, col)
// extending right (horizontal) or down, without leaving the grid or
// crossing another ship.
func (b *Board) CanPlace(row, col, length int, horizontal bool) bool {
	if length <= 0 {
		return false
	}
	for i := 0; i < length; i++ {
		r, c := step(row, col, i, horizontal)
		if !b.InBounds(r, c) || b.grid[r][c] == CellShip {
			return false
		}
	}
	return true
}

// PlaceShip marks the ship's cells and records it. It returns false and
// leaves the board untouched when CanPlace would.
func (b *Board) PlaceShip(row, col, length int, horizontal bool) bool {
	if !b.CanPlace(row, col, length, horizontal) {
		return false
	}
	ship := make([]Coord, 0, length)
	for i := 0; i < length; i++ {
		r, c := step(row, col, i, horizontal)
		b.grid[r][c] = CellShip
		ship = append(ship, Coord{Row: r, Col: c})
	}
	b.ships = append(b.ships, ship)
	return true
}

// ReceiveShot resolves a shot at (row, col).
func (b *Board) ReceiveShot(row, col int) ShotResult {
	if !b.InBounds(row, col) {
		return ShotResult{Message: "Out of bounds.", Err: ErrOutOfBounds}
	}
	switch cur := b.grid[row][col]; {
	case cur.Resolved():
		return ShotResult{Message: "Already fired there.", Err: ErrAlreadyTargeted}
	case cur == CellShip:
		b.grid[row][col] = CellHit
		return ShotResult{OK: true, Hit: true, Message: "Hit."}
	default:
		b.grid[row][col] = CellMiss
		return ShotResult{OK: true, Message: "Miss."}
	}
}

// AllSunk reports whether no unhit ship cell remains.
func (b *Board) AllSunk() bool {
	for _, row := range b.grid {
		for _, cell := range row {
			if cell == CellShip {
				return false
			}
		}
	}
	return true
}

// ShipsRemaining counts ships with at least one cell not yet hit.
func (b *Board) ShipsRemaining() int {
	n := 0
	for _, ship := range b.ships {
		for _, p := range ship {
			if b.grid[p.Row][p.Col] == CellShip {
				n++
				break
			}
		}
	}
	return n
}

// Ships returns a copy of the placed ships' coordinates.
func (b *Board) Ships() [][]Coord {
	out := make([][]Coord, len(b.ships))
	for i, s := range b.ships {
		out[i] = append([]Coord(nil), s...)
	}
	return out
}

// View returns a copy of the grid. Unhit ships are shown as empty water
// unless reveal is set.
func (b *Board) View(reveal bool) [][]Cell {
	out := make([][]Cell, b.size)
	for r, row := range b.grid {
		out[r] = make([]Cell, b.size)
		for c, cell := range row {
			if cell == CellShip && !reveal {
				cell = CellEmpty
			}
			out[r][c] = cell
		}
	}
	return out
}

// step returns the i-th cell of a run starting at (row, col).
func step(row, col, i int, horizontal bool) (int, int) {
	if horizontal {
		return row, col + i
	}
	return row + i, col
}
