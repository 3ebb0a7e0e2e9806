package game

import "time"

// ScoreTracker holds the score and the move interval of one game.
// The interval only ever shrinks until Reset.
type ScoreTracker struct {
	score     int
	foodEaten int
	interval  time.Duration
	initial   time.Duration
	step      time.Duration
	min       time.Duration
}

// NewScoreTracker creates a tracker starting at initial and speeding up by
// step per food, never going below min
func NewScoreTracker(initial, step, min time.Duration) *ScoreTracker {
	t := &ScoreTracker{initial: initial, step: step, min: min}
	t.Reset()
	return t
}

// Eat registers one food: +1 point and a faster, floored interval
func (t *ScoreTracker) Eat() {
	t.score++
	t.foodEaten++
	next := t.interval - t.step
	if next < t.min {
		next = t.min
	}
	t.interval = next
}

// Reset restores the starting score and speed for a new game
func (t *ScoreTracker) Reset() {
	t.score = 0
	t.foodEaten = 0
	t.interval = t.initial
}

// Score returns the current score
func (t *ScoreTracker) Score() int { return t.score }

// FoodEaten returns the number of foods eaten this game
func (t *ScoreTracker) FoodEaten() int { return t.foodEaten }

// Interval returns the current time between moves
func (t *ScoreTracker) Interval() time.Duration { return t.interval }
