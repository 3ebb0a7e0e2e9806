package game

import "fmt"

// Board is the fixed-size arena; its dimensions never change after NewBoard
type Board struct {
	width  int
	height int
}

// NewBoard creates a board of width x height cells
func NewBoard(width, height int) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, fmt.Errorf("%w: got %dx%d", ErrInvalidBoard, width, height)
	}
	return Board{width: width, height: height}, nil
}

// Width returns the number of columns
func (b Board) Width() int { return b.width }

// Height returns the number of rows
func (b Board) Height() int { return b.height }

// Center returns the middle cell, rounding down
func (b Board) Center() Point {
	return Point{X: b.width / 2, Y: b.height / 2}
}

// InBounds reports whether p lies on the board
func (b Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// CheckWallCollision reports whether p is off the board
func (b Board) CheckWallCollision(p Point) bool {
	return !b.InBounds(p)
}

// Wrap maps p onto the board as if opposite edges were joined
func (b Board) Wrap(p Point) Point {
	return Point{X: mod(p.X, b.width), Y: mod(p.Y, b.height)}
}

// mod is the Euclidean remainder, so -1 wraps to n-1
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
