package game

import "github.com/trytobebee/snake_classic/pkg/config"

// Rand is the randomness Food draws from; *math/rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
}

// Food is the single edible cell on the board
type Food struct {
	Pos   Point
	board Board
	rng   Rand
}

// NewFood creates food for board; call Spawn to place it
func NewFood(board Board, rng Rand) *Food {
	return &Food{board: board, rng: rng}
}

// Spawn moves the food to a random cell not in exclude.
// After config.FoodSpawnAttempts collisions the next draw is taken as is,
// since the board may be close to full. The result reports whether the
// chosen cell is known to be free.
func (f *Food) Spawn(exclude map[Point]struct{}) bool {
	for attempts := 0; attempts < config.FoodSpawnAttempts; attempts++ {
		pos := f.randomPosition()
		if _, taken := exclude[pos]; taken {
			continue
		}
		f.Pos = pos
		return true
	}
	f.Pos = f.randomPosition()
	return false
}

// Position returns the current food cell
func (f *Food) Position() Point {
	return f.Pos
}

func (f *Food) randomPosition() Point {
	return Point{
		X: f.rng.Intn(f.board.Width()),
		Y: f.rng.Intn(f.board.Height()),
	}
}
