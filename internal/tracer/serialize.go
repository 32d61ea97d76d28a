package tracer

import (
	"reflect"
	"sync"
)

// Serialize wraps an Intersector that is not reentrant so that calls for the
// same surface never overlap. Calls for different surfaces still run in
// parallel. Handles that cannot be map keys share a single lock.
func Serialize(ix Intersector) Intersector {
	return &serialized{ix: ix, locks: make(map[SurfaceHandle]*sync.Mutex)}
}

type serialized struct {
	ix     Intersector
	mu     sync.Mutex
	locks  map[SurfaceHandle]*sync.Mutex
	shared sync.Mutex
}

func (s *serialized) lockFor(h SurfaceHandle) *sync.Mutex {
	if h != nil && !reflect.TypeOf(h).Comparable() {
		return &s.shared
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[h]
	if !ok {
		l = &sync.Mutex{}
		s.locks[h] = l
	}
	return l
}

func (s *serialized) Intersect(r Ray, h SurfaceHandle) []Hit {
	l := s.lockFor(h)
	l.Lock()
	defer l.Unlock()
	return s.ix.Intersect(r, h)
}
