package game

import (
	"math/rand"
	"testing"
)

// scriptedRand replays fixed draws, then repeats the last one
type scriptedRand struct {
	values []int
	calls  int
}

func (r *scriptedRand) Intn(n int) int {
	i := r.calls
	if i >= len(r.values) {
		i = len(r.values) - 1
	}
	r.calls++
	return r.values[i] % n
}

// TestFoodSpawnSkipsExcluded draws (1,1) first, which is taken, then (2,2)
func TestFoodSpawnSkipsExcluded(t *testing.T) {
	board, _ := NewBoard(20, 20)
	food := NewFood(board, &scriptedRand{values: []int{1, 1, 2, 2}})

	clean := food.Spawn(map[Point]struct{}{{X: 1, Y: 1}: {}})
	if food.Position() != (Point{2, 2}) {
		t.Errorf("food at %v, want (2,2)", food.Position())
	}
	if !clean {
		t.Error("placement on a free cell should report clean")
	}
}

// TestFoodSpawnGivesUpAfterAttempts accepts an occupied cell on a full board
func TestFoodSpawnGivesUpAfterAttempts(t *testing.T) {
	board, _ := NewBoard(2, 1)
	rng := &scriptedRand{values: []int{0}}
	food := NewFood(board, rng)

	exclude := map[Point]struct{}{{0, 0}: {}, {1, 0}: {}}
	if food.Spawn(exclude) {
		t.Error("full board cannot give a clean placement")
	}
	if food.Position() != (Point{0, 0}) {
		t.Errorf("fallback position = %v, want (0,0)", food.Position())
	}
	// 100 rejected draws plus the unconditional one, two Intn calls each
	if rng.calls != 2*101 {
		t.Errorf("Intn called %d times, want %d", rng.calls, 2*101)
	}
}

// TestFoodSpawnAvoidsBody places food many times beside a half-full board
func TestFoodSpawnAvoidsBody(t *testing.T) {
	board, _ := NewBoard(10, 10)
	food := NewFood(board, rand.New(rand.NewSource(1)))

	exclude := make(map[Point]struct{})
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			exclude[Point{x, y}] = struct{}{}
		}
	}

	for i := 0; i < 500; i++ {
		if !food.Spawn(exclude) {
			t.Fatalf("spawn %d fell back with half the board free", i)
		}
		pos := food.Position()
		if _, taken := exclude[pos]; taken {
			t.Fatalf("spawn %d landed on excluded cell %v", i, pos)
		}
		if !board.InBounds(pos) {
			t.Fatalf("spawn %d landed off the board at %v", i, pos)
		}
	}
}
