package interview

import "fmt"

// slots is a fixed-capacity sequence of optional strings addressed by index.
type slots struct {
	values []string
	filled []bool
}

func newSlots(capacity int) slots {
	return slots{
		values: make([]string, capacity),
		filled: make([]bool, capacity),
	}
}

func (s *slots) get(i int) (string, bool) {
	if i < 0 || i >= len(s.values) {
		return "", false
	}
	return s.values[i], s.filled[i]
}

// set writes v at i. Writes past ceiling or outside capacity are rejected.
func (s *slots) set(i, ceiling int, v string) error {
	if i < 0 || i >= len(s.values) || i > ceiling {
		return fmt.Errorf("%w: index %d, ceiling %d, capacity %d", ErrSlotOutOfRange, i, ceiling, len(s.values))
	}
	s.values[i] = v
	s.filled[i] = true
	return nil
}

// list returns the values up to the last filled slot. Unfilled holes are empty strings.
func (s *slots) list() []string {
	n := 0
	for i, ok := range s.filled {
		if ok {
			n = i + 1
		}
	}
	out := make([]string, n)
	copy(out, s.values[:n])
	return out
}

func (s *slots) clone() slots {
	c := slots{
		values: make([]string, len(s.values)),
		filled: make([]bool, len(s.filled)),
	}
	copy(c.values, s.values)
	copy(c.filled, s.filled)
	return c
}
