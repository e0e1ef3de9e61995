package library

// orderedSet is a string set that remembers insertion order, so set-valued
// state can round-trip through list-shaped persistence without reshuffling.
type orderedSet struct {
	members map[string]struct{}
	order   []string
}

func newOrderedSet(values ...string) *orderedSet {
	s := &orderedSet{members: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *orderedSet) Add(v string) {
	if _, ok := s.members[v]; ok {
		return
	}
	s.members[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) Remove(v string) {
	if _, ok := s.members[v]; !ok {
		return
	}
	delete(s.members, v)
	for i, existing := range s.order {
		if existing == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) Has(v string) bool {
	_, ok := s.members[v]
	return ok
}

// Toggle flips membership and reports the new state.
func (s *orderedSet) Toggle(v string) bool {
	if s.Has(v) {
		s.Remove(v)
		return false
	}
	s.Add(v)
	return true
}

func (s *orderedSet) Clear() {
	s.members = make(map[string]struct{})
	s.order = nil
}

func (s *orderedSet) Len() int {
	return len(s.order)
}

// Values returns the members in insertion order. The slice is a copy.
func (s *orderedSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
