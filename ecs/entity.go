package ecs

import "strconv"

// Entity is a generational handle: the low 32 bits are the id, the high 32
// bits the generation. A stale handle (destroyed entity) never matches the
// live generation, so lookups with it simply miss.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() != 0
}

// entityStore tracks generations and recycles freed ids.
type entityStore struct {
	gens []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		id = entityID(len(s.gens))
	}
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.gens[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.gens[id-1] == e.generation()
}

// handle rebuilds the live Entity for a raw id, if the id is in use.
func (s *entityStore) handle(id entityID) (Entity, bool) {
	if id == 0 || int(id) > len(s.gens) {
		return 0, false
	}
	e := makeEntity(id, s.gens[id-1])
	for _, f := range s.free {
		if f == id {
			return 0, false
		}
	}
	return e, true
}

func (s *entityStore) alive() []Entity {
	out := make([]Entity, 0, len(s.gens))
	for i := range s.gens {
		if e, ok := s.handle(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}
