package input

// KeyState tracks which keys are down this tick and which were down the
// previous tick, so callers can tell presses, holds and releases apart.
// A press and release arriving within one tick is reported as a press on
// that tick and a release on the next.
type KeyState struct {
	current  map[int]struct{}
	previous map[int]struct{}
	tapped   map[int]struct{}
}

func NewKeyState() *KeyState {
	return &KeyState{
		current:  make(map[int]struct{}),
		previous: make(map[int]struct{}),
		tapped:   make(map[int]struct{}),
	}
}

func (s *KeyState) Apply(ev Event) {
	switch ev.Type {
	case Pressed:
		s.current[ev.Key] = struct{}{}
		s.tapped[ev.Key] = struct{}{}
	case Held:
		s.current[ev.Key] = struct{}{}
	case Released:
		delete(s.current, ev.Key)
	}
}

// Edge reports the transition of key between the previous tick and now.
func (s *KeyState) Edge(key int) (pressed, released, held bool) {
	_, cur := s.current[key]
	_, prev := s.previous[key]
	_, tap := s.tapped[key]
	pressed = !prev && (cur || tap)
	released = prev && !cur
	held = prev && cur
	return pressed, released, held
}

func (s *KeyState) Down(key int) bool {
	_, ok := s.current[key]
	return ok
}

// Advance closes the tick.
func (s *KeyState) Advance() {
	clear(s.previous)
	for k := range s.current {
		s.previous[k] = struct{}{}
	}
	for k := range s.tapped {
		s.previous[k] = struct{}{}
	}
	clear(s.tapped)
}

func (s *KeyState) Reset() {
	clear(s.current)
	clear(s.previous)
	clear(s.tapped)
}
