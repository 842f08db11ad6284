package assignment

import (
	"fmt"
	"sync"
	"testing"
)

func TestIndex_AddRemove(t *testing.T) {
	idx := NewIndex()

	unlock := idx.Lock([]string{"d1"})
	idx.add("d1", RoleOfferHelp, "u1")
	idx.add("d1", RoleSeekHelp, "u1")
	unlock()

	if got := idx.Users("d1", RoleOfferHelp); len(got) != 1 || got[0] != "u1" {
		t.Fatalf("offer set wrong: %v", got)
	}
	if got := idx.Users("d1", RoleSeekHelp); len(got) != 1 {
		t.Fatalf("roles must be independent: %v", got)
	}

	unlock = idx.Lock([]string{"d1"})
	idx.remove("d1", RoleOfferHelp, "u1")
	unlock()

	if got := idx.Users("d1", RoleOfferHelp); len(got) != 0 {
		t.Fatalf("offer set should be empty: %v", got)
	}
	if got := idx.Users("d1", RoleSeekHelp); len(got) != 1 {
		t.Fatalf("seek set should survive offer removal: %v", got)
	}
}

func TestIndex_DropBuckets(t *testing.T) {
	idx := NewIndex()
	unlock := idx.Lock([]string{"d1", "d2"})
	idx.add("d1", RoleOfferHelp, "u1")
	idx.add("d2", RoleOfferHelp, "u1")
	idx.dropBuckets([]string{"d1"})
	unlock()

	if got := idx.Users("d1", RoleOfferHelp); len(got) != 0 {
		t.Fatalf("dropped bucket still answers: %v", got)
	}
	if got := idx.Users("d2", RoleOfferHelp); len(got) != 1 {
		t.Fatalf("sibling bucket lost: %v", got)
	}
}

func TestIndex_ConcurrentDisjointWrites(t *testing.T) {
	idx := NewIndex()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := fmt.Sprintf("d%d", i)
			u := fmt.Sprintf("u%d", i)
			unlock := idx.Lock([]string{d})
			idx.add(d, RoleOfferHelp, u)
			unlock()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 64; i++ {
		d := fmt.Sprintf("d%d", i)
		if got := idx.Users(d, RoleOfferHelp); len(got) != 1 {
			t.Fatalf("bucket %s wrong: %v", d, got)
		}
	}
}

func TestIndex_LockDedupesShards(t *testing.T) {
	idx := NewIndex()
	// same id twice must not deadlock on its own shard
	unlock := idx.Lock([]string{"d1", "d1"})
	idx.add("d1", RoleSeekHelp, "u1")
	unlock()

	if got := idx.Users("d1", RoleSeekHelp); len(got) != 1 {
		t.Fatalf("bucket wrong: %v", got)
	}
}
