package adapter

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrFrozen is returned by Add once the table is frozen.
var ErrFrozen = errors.New("adapter: table frozen")

// Match is one resolved registration.
type Match[F any] struct {
	Name    string
	Keys    [3]TypeKey
	Factory F
}

type entry[F any] struct {
	keys    [3]TypeKey
	name    string
	seq     int
	factory F
}

// Table is a specificity-ordered registration table. Add is serialized and
// publishes a new snapshot; lookups read the current snapshot without locks.
type Table[F any] struct {
	mu     sync.Mutex
	seq    int
	snap   atomic.Pointer[map[string][]entry[F]] // region -> registrations in order
	frozen atomic.Bool
}

func (t *Table[F]) load() map[string][]entry[F] {
	if p := t.snap.Load(); p != nil {
		return *p
	}
	return nil
}

// Add registers f for keys under (region, name). Registering the same
// (keys, region, name) twice is an error.
func (t *Table[F]) Add(keys [3]TypeKey, region, name string, f F) error {
	for i := range keys {
		keys[i] = normalize(keys[i])
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen.Load() {
		return ErrFrozen
	}
	cur := t.load()
	for _, e := range cur[region] {
		if e.name == name && e.keys == keys {
			return fmt.Errorf("adapter: duplicate registration %s/%q for %v", region, name, keys)
		}
	}
	next := make(map[string][]entry[F], len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	t.seq++
	list := make([]entry[F], len(cur[region]), len(cur[region])+1)
	copy(list, cur[region])
	next[region] = append(list, entry[F]{keys: keys, name: name, seq: t.seq, factory: f})
	t.snap.Store(&next)
	return nil
}

// Freeze ends the registration phase.
func (t *Table[F]) Freeze() { t.frozen.Store(true) }

// Lookup returns the most specific registration for (region, name).
func (t *Table[F]) Lookup(d Discriminators, region, name string) (Match[F], bool) {
	var (
		best  *entry[F]
		score [3]int
	)
	list := t.load()[region]
	for i := range list {
		e := &list[i]
		if e.name != name {
			continue
		}
		s, ok := specificity(d, e.keys)
		if !ok {
			continue
		}
		if best == nil || less(s, score) {
			best, score = e, s
		}
	}
	if best == nil {
		return Match[F]{}, false
	}
	return Match[F]{Name: best.name, Keys: best.keys, Factory: best.factory}, true
}

// LookupAll returns, for every name registered under region, its most
// specific matching registration. Results are in registration order of the
// winning entries, so the order is total and deterministic for a snapshot.
func (t *Table[F]) LookupAll(d Discriminators, region string) []Match[F] {
	type pick struct {
		e     *entry[F]
		score [3]int
	}
	list := t.load()[region]
	best := map[string]pick{}
	for i := range list {
		e := &list[i]
		s, ok := specificity(d, e.keys)
		if !ok {
			continue
		}
		if p, seen := best[e.name]; !seen || less(s, p.score) {
			best[e.name] = pick{e: e, score: s}
		}
	}
	out := make([]Match[F], 0, len(best))
	for i := range list {
		e := &list[i]
		if p, ok := best[e.name]; ok && p.e == e {
			out = append(out, Match[F]{Name: e.name, Keys: e.keys, Factory: e.factory})
		}
	}
	return out
}

// Len reports the number of registrations under region.
func (t *Table[F]) Len(region string) int { return len(t.load()[region]) }

// specificity scores how closely keys match d: per dimension, the position of
// the registered key in the object's key chain. Lower is more specific.
func specificity(d Discriminators, keys [3]TypeKey) ([3]int, bool) {
	var s [3]int
	for i := 0; i < 3; i++ {
		pos := -1
		for j, k := range d[i] {
			if k == keys[i] {
				pos = j
				break
			}
		}
		if pos < 0 {
			if keys[i] != Any {
				return s, false
			}
			pos = len(d[i])
		}
		s[i] = pos
	}
	return s, true
}

// less compares scores lexicographically; context dominates request, request
// dominates view.
func less(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
