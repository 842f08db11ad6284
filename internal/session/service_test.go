package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/identity"
)

type recordingPublisher struct {
	events []MessagePosted
}

func (p *recordingPublisher) PublishMessagePosted(ctx context.Context, ev MessagePosted) error {
	_ = ctx
	p.events = append(p.events, ev)
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&identity.User{}, &Session{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	identities := identity.NewRepo(db)
	for _, u := range []identity.User{
		{ID: "A", Name: "Alice"},
		{ID: "B", Name: "Bruna"},
		{ID: "C", Name: "Carla"},
	} {
		u := u
		if err := identities.Upsert(context.Background(), &u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	pub := &recordingPublisher{}
	return NewService(db, NewRepo(db), identities, pub), pub
}

func TestOpenSession_IdempotentUnorderedPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	s1, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s2, err := svc.OpenSession(ctx, "B", "A")
	if err != nil {
		t.Fatalf("open reversed: %v", err)
	}
	if s1.ID != s2.ID {
		t.Fatalf("pair should map to one session: %s vs %s", s1.ID, s2.ID)
	}

	if _, err := svc.OpenSession(ctx, "A", "A"); common.KindOf(err) != common.KindInvalidArgument {
		t.Fatalf("self session should be rejected, got %v", err)
	}
	if _, err := svc.OpenSession(ctx, "A", "ghost"); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("unknown peer should be not found, got %v", err)
	}
}

func TestPostMessage_SequenceAndOrdering(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	sess, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	m1, err := svc.PostMessage(ctx, sess.ID, "A", "oi, posso ajudar com Calc")
	if err != nil {
		t.Fatalf("post 1: %v", err)
	}
	m2, err := svc.PostMessage(ctx, sess.ID, "B", "obrigada!")
	if err != nil {
		t.Fatalf("post 2: %v", err)
	}
	if m1.Seq != 1 || m2.Seq != 2 {
		t.Fatalf("expected seq 1,2 got %d,%d", m1.Seq, m2.Seq)
	}

	msgs, err := svc.ListMessages(ctx, sess.ID, "A", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Seq != 1 || msgs[1].Seq != 2 {
		t.Fatalf("list order wrong: %+v", msgs)
	}
	if msgs[0].SenderID != "A" || msgs[1].SenderID != "B" {
		t.Fatalf("senders wrong: %+v", msgs)
	}

	// incremental polling picks up only the new tail
	tail, err := svc.ListMessages(ctx, sess.ID, "B", 1, 0)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(tail) != 1 || tail[0].Seq != 2 {
		t.Fatalf("after_seq wrong: %+v", tail)
	}

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", pub.events)
	}
	if pub.events[0].RecipientID != "B" || pub.events[1].RecipientID != "A" {
		t.Fatalf("event recipients wrong: %+v", pub.events)
	}
}

func TestPostMessage_SequenceNeverReused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	senders := []string{"A", "B"}
	seen := map[uint64]bool{}
	var last uint64
	for i := 0; i < 10; i++ {
		m, err := svc.PostMessage(ctx, sess.ID, senders[i%2], fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
		if seen[m.Seq] {
			t.Fatalf("seq %d reused", m.Seq)
		}
		if m.Seq <= last {
			t.Fatalf("seq not increasing: %d after %d", m.Seq, last)
		}
		seen[m.Seq] = true
		last = m.Seq
	}

	// sessions count independently
	other, err := svc.OpenSession(ctx, "A", "C")
	if err != nil {
		t.Fatalf("open other: %v", err)
	}
	m, err := svc.PostMessage(ctx, other.ID, "A", "hello")
	if err != nil {
		t.Fatalf("post other: %v", err)
	}
	if m.Seq != 1 {
		t.Fatalf("other session should start at 1, got %d", m.Seq)
	}
}

func TestPostMessage_ConcurrentPosters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	const perSender = 10
	var mu sync.Mutex
	seqs := make(map[uint64]int)

	var wg sync.WaitGroup
	for _, sender := range []string{"A", "B"} {
		wg.Add(1)
		go func(sender string) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				var m *Message
				var err error
				// sqlite serializes writers; retry the occasional
				// busy rejection
				for attempt := 0; attempt < 5; attempt++ {
					m, err = svc.PostMessage(ctx, sess.ID, sender, fmt.Sprintf("%s %d", sender, i))
					if err == nil {
						break
					}
					time.Sleep(time.Millisecond)
				}
				if err != nil {
					t.Errorf("post %s %d: %v", sender, i, err)
					return
				}
				mu.Lock()
				seqs[m.Seq]++
				mu.Unlock()
			}
		}(sender)
	}
	wg.Wait()

	if len(seqs) != 2*perSender {
		t.Fatalf("expected %d distinct seqs, got %d", 2*perSender, len(seqs))
	}
	for seq, n := range seqs {
		if n != 1 {
			t.Fatalf("seq %d assigned %d times", seq, n)
		}
		if seq < 1 || seq > 2*perSender {
			t.Fatalf("seq %d out of range", seq)
		}
	}
}

func TestListSessions_RecentActivityFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.OpenSession(ctx, "A", "C"); err != nil {
		t.Fatalf("open: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.PostMessage(ctx, first.ID, "A", "ping"); err != nil {
		t.Fatalf("post: %v", err)
	}

	mine, err := svc.ListSessions(ctx, "A")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != first.ID {
		t.Fatalf("posting should move the session to the front: %+v", mine)
	}
}

func TestPostMessage_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.OpenSession(ctx, "A", "B")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := svc.PostMessage(ctx, sess.ID, "C", "let me in"); common.KindOf(err) != common.KindForbidden {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}
	if _, err := svc.PostMessage(ctx, sess.ID, "A", "   "); common.KindOf(err) != common.KindInvalidArgument {
		t.Fatalf("blank body should be invalid, got %v", err)
	}
	if _, err := svc.PostMessage(ctx, "missing", "A", "hi"); common.KindOf(err) != common.KindNotFound {
		t.Fatalf("missing session should be not found, got %v", err)
	}
	if _, err := svc.ListMessages(ctx, sess.ID, "C", 0, 0); common.KindOf(err) != common.KindForbidden {
		t.Fatalf("outsider list should be forbidden, got %v", err)
	}
}

func TestListSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, "A", "B"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.OpenSession(ctx, "A", "C"); err != nil {
		t.Fatalf("open: %v", err)
	}

	mine, err := svc.ListSessions(ctx, "A")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 sessions for A, got %d", len(mine))
	}

	theirs, err := svc.ListSessions(ctx, "B")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(theirs) != 1 {
		t.Fatalf("expected 1 session for B, got %d", len(theirs))
	}
}
