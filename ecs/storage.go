package ecs

// store is sparse-set storage for one component type. Values are kept as
// `any` behind the typed accessors in generics.go.
type store struct {
	denseIDs  []entityID
	denseVals []any
	sparse    []int32
}

func (s *store) has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && int(idx) < len(s.denseIDs) && s.denseIDs[idx] == id
}

func (s *store) get(id entityID) any {
	if !s.has(id) {
		return nil
	}
	return s.denseVals[s.sparse[id-1]]
}

func (s *store) set(id entityID, v any) {
	if s == nil || id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.denseVals[s.sparse[id-1]] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseVals = append(s.denseVals, v)
	s.sparse[id-1] = int32(len(s.denseIDs) - 1)
}

func (s *store) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := int32(len(s.denseIDs) - 1)
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = s.denseIDs[last]
	s.denseVals[idx] = s.denseVals[last]
	s.sparse[lastID-1] = idx

	s.denseIDs = s.denseIDs[:last]
	s.denseVals = s.denseVals[:last]
	s.sparse[id-1] = -1
	return true
}

// ids returns a snapshot of the dense id list, safe to iterate while the
// store is mutated.
func (s *store) ids() []entityID {
	if s == nil {
		return nil
	}
	return append([]entityID(nil), s.denseIDs...)
}

func (s *store) len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}
