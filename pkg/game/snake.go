package game

// Snake is an ordered body of cells; index 0 is the head
type Snake struct {
	body      []Point
	direction Direction
}

// NewSnake creates a snake whose body trails downward from head.
// A length below 1 is treated as 1.
func NewSnake(head Point, length int) *Snake {
	if length < 1 {
		length = 1
	}
	body := make([]Point, length)
	for i := range body {
		body[i] = Point{X: head.X, Y: head.Y + i}
	}
	return &Snake{body: body, direction: Up}
}

// Move shifts the snake one cell in d without growing.
// No bounds checking is done here.
func (s *Snake) Move(d Direction) {
	s.direction = d
	newHead := s.body[0].Add(d.Delta())
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = newHead
}

// Grow appends a copy of the tail; it separates on the next moves
func (s *Snake) Grow() {
	s.body = append(s.body, s.tail())
}

// CheckSelfCollision reports whether the head overlaps any other segment
func (s *Snake) CheckSelfCollision() bool {
	head := s.body[0]
	for _, p := range s.body[1:] {
		if p == head {
			return true
		}
	}
	return false
}

// SetHead replaces the head cell in place
func (s *Snake) SetHead(p Point) {
	s.body[0] = p
}

// Head returns the head cell
func (s *Snake) Head() Point {
	return s.body[0]
}

func (s *Snake) tail() Point {
	return s.body[len(s.body)-1]
}

// Body returns a copy of the body, head first
func (s *Snake) Body() []Point {
	out := make([]Point, len(s.body))
	copy(out, s.body)
	return out
}

// Len returns the number of segments
func (s *Snake) Len() int {
	return len(s.body)
}

// Direction returns the direction of the last move
func (s *Snake) Direction() Direction {
	return s.direction
}

// Occupied returns the body as a lookup set
func (s *Snake) Occupied() map[Point]struct{} {
	set := make(map[Point]struct{}, len(s.body))
	for _, p := range s.body {
		set[p] = struct{}{}
	}
	return set
}
