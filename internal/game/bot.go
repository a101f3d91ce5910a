// internal/game/bot.go
//
// The bot's side of the game.
//   - Fleet placement: random cells and orientation, 200 tries per ship,
//     and a full restart of the layout when any ship runs out of tries.
//   - Targeting: a shuffled backlog of every cell popped from the end,
//     with a row-major scan once the backlog is empty.

package game

// maxPlacementAttempts bounds the random tries for a single bot ship before
// the whole layout is thrown away.
const maxPlacementAttempts = 200

// placeBotFleet lays out the bot's ships at random. If any ship runs out of
// attempts, the board is discarded and the whole fleet is placed again.
func (g *Game) placeBotFleet() {
	for !g.tryBotFleet() {
		g.bot = NewBoard(Size)
		g.botRestarts++
	}
}

func (g *Game) tryBotFleet() bool {
	for _, length := range shipSizes {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts && !placed; attempt++ {
			horizontal := g.rng.Intn(2) == 0
			row := g.rng.Intn(Size)
			col := g.rng.Intn(Size)
			placed = g.bot.PlaceShip(row, col, length, horizontal)
		}
		if !placed {
			return false
		}
	}
	return true
}

// initTargeting builds the bot's backlog: every coordinate, row-major,
// then shuffled.
func (g *Game) initTargeting() {
	g.botTargeted = make(map[Coord]bool, Size*Size)
	g.botBacklog = make([]Coord, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			g.botBacklog = append(g.botBacklog, Coord{Row: r, Col: c})
		}
	}
	g.rng.Shuffle(len(g.botBacklog), func(i, j int) {
		g.botBacklog[i], g.botBacklog[j] = g.botBacklog[j], g.botBacklog[i]
	})
}

// nextBotTarget pops the backlog until it finds a coordinate the bot has
// not fired at. If the backlog runs dry it falls back to a row-major scan.
// It reports false only when every coordinate has been targeted.
func (g *Game) nextBotTarget() (Coord, bool) {
	for len(g.botBacklog) > 0 {
		last := len(g.botBacklog) - 1
		p := g.botBacklog[last]
		g.botBacklog = g.botBacklog[:last]
		if g.botTargeted[p] {
			continue
		}
		g.botTargeted[p] = true
		return p, true
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := Coord{Row: r, Col: c}
			if !g.botTargeted[p] {
				g.botTargeted[p] = true
				return p, true
			}
		}
	}
	return Coord{}, false
}
