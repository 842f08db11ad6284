package assignment

import (
	"hash/fnv"
	"sort"
	"sync"
)

const indexShards = 32

// Index is the inverted index disciplineID -> users per role. It is the
// shared mutable state between the assignment store and the matching engine:
// every replace-set mutation updates it while holding the shard locks of the
// buckets it touches, so concurrent writers only contend when they share a
// discipline, and readers always see whole buckets.
type Index struct {
	shards [indexShards]indexShard
}

type indexShard struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

type bucket struct {
	seekers map[string]struct{}
	helpers map[string]struct{}
}

func NewIndex() *Index {
	idx := &Index{}
	for i := range idx.shards {
		idx.shards[i].buckets = make(map[string]*bucket)
	}
	return idx
}

func shardFor(disciplineID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(disciplineID))
	return int(h.Sum32() % indexShards)
}

// Lock acquires the shard locks covering disciplineIDs in ascending shard
// order and returns the release func. Mutators hold the lock across their
// database transaction so the index and the store change as one unit.
func (idx *Index) Lock(disciplineIDs []string) (unlock func()) {
	seen := make(map[int]struct{})
	var shards []int
	for _, id := range disciplineIDs {
		s := shardFor(id)
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			shards = append(shards, s)
		}
	}
	sort.Ints(shards)
	for _, s := range shards {
		idx.shards[s].mu.Lock()
	}
	return func() {
		for i := len(shards) - 1; i >= 0; i-- {
			idx.shards[shards[i]].mu.Unlock()
		}
	}
}

func (b *bucket) set(role Role) map[string]struct{} {
	if role == RoleSeekHelp {
		return b.seekers
	}
	return b.helpers
}

// add records userID under (disciplineID, role). Caller must hold the Lock
// covering disciplineID.
func (idx *Index) add(disciplineID string, role Role, userID string) {
	sh := &idx.shards[shardFor(disciplineID)]
	b, ok := sh.buckets[disciplineID]
	if !ok {
		b = &bucket{seekers: map[string]struct{}{}, helpers: map[string]struct{}{}}
		sh.buckets[disciplineID] = b
	}
	b.set(role)[userID] = struct{}{}
}

// remove drops userID from (disciplineID, role). Caller must hold the Lock.
func (idx *Index) remove(disciplineID string, role Role, userID string) {
	sh := &idx.shards[shardFor(disciplineID)]
	if b, ok := sh.buckets[disciplineID]; ok {
		delete(b.set(role), userID)
	}
}

// dropBuckets removes whole buckets after a catalog cascade. Caller must
// hold the Lock covering every id.
func (idx *Index) dropBuckets(disciplineIDs []string) {
	for _, id := range disciplineIDs {
		delete(idx.shards[shardFor(id)].buckets, id)
	}
}

// Users returns a copy of the user set for (disciplineID, role). Readers
// take only the shard read lock, so unrelated writes proceed concurrently.
func (idx *Index) Users(disciplineID string, role Role) []string {
	sh := &idx.shards[shardFor(disciplineID)]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	b, ok := sh.buckets[disciplineID]
	if !ok {
		return nil
	}
	set := b.set(role)
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out
}

// Rebuild resets the index from a full assignment scan. Called once at boot
// before the index is shared.
func (idx *Index) Rebuild(entries []Assignment) {
	for i := range idx.shards {
		idx.shards[i].mu.Lock()
		idx.shards[i].buckets = make(map[string]*bucket)
		idx.shards[i].mu.Unlock()
	}
	for _, a := range entries {
		unlock := idx.Lock([]string{a.DisciplineID})
		idx.add(a.DisciplineID, a.Role, a.UserID)
		unlock()
	}
}
