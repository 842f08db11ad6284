package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/db"
	"github.com/sarafernandess/ifocus-app/internal/identity"
)

// MessagePosted is emitted after a message commits. Downstream consumers
// (the unread-counter worker) are advisory; the message log in the database
// is the source of truth.
type MessagePosted struct {
	SessionID   string `json:"session_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Seq         uint64 `json:"seq"`
}

type EventPublisher interface {
	PublishMessagePosted(ctx context.Context, ev MessagePosted) error
}

type Service struct {
	db         *gorm.DB
	repo       *Repo
	identities *identity.Repo
	events     EventPublisher // may be nil
}

func NewService(gdb *gorm.DB, repo *Repo, identities *identity.Repo, events EventPublisher) *Service {
	return &Service{db: gdb, repo: repo, identities: identities, events: events}
}

// OpenSession returns the session for the unordered pair, creating it on
// first use. Two racing opens converge on one row via the pair's unique
// index.
func (s *Service) OpenSession(ctx context.Context, userID, peerID string) (*Session, error) {
	if peerID == "" || peerID == userID {
		return nil, common.InvalidArgument("peer must be another user")
	}
	if _, err := s.identities.Get(ctx, peerID); err != nil {
		return nil, err
	}

	low, high := normalizePair(userID, peerID)
	existing, err := s.repo.GetByPair(ctx, low, high)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &Session{ID: NewSessionID(), UserLow: low, UserHigh: high}
	if err := s.repo.Create(ctx, created); err != nil {
		// lost the race: the other open created the row
		if existing, getErr := s.repo.GetByPair(ctx, low, high); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

// PostMessage appends a message with the next sequence number for the
// session. The counter bump and the insert share one transaction, so
// sequence numbers are strictly increasing and never reused even when both
// participants post concurrently.
func (s *Service) PostMessage(ctx context.Context, sessionID, senderID, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, common.InvalidArgument("message body must not be empty")
	}

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Has(senderID) {
		return nil, common.Forbidden("sender is not a participant of this session")
	}

	var msg *Message
	err = db.Transact(s.db, func(tx *gorm.DB) error {
		// UpdateColumns skips gorm's hooks, so the activity timestamp
		// that ListForUser sorts by is bumped by hand
		if err := tx.WithContext(ctx).Model(&Session{}).
			Where("id = ?", sessionID).
			UpdateColumns(map[string]any{
				"last_seq":   gorm.Expr("last_seq + 1"),
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		var cur Session
		if err := tx.WithContext(ctx).First(&cur, "id = ?", sessionID).Error; err != nil {
			return err
		}
		m := Message{
			SessionID: sessionID,
			Seq:       cur.LastSeq,
			SenderID:  senderID,
			Body:      body,
			SentAt:    time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
		msg = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		ev := MessagePosted{
			SessionID:   sessionID,
			SenderID:    senderID,
			RecipientID: sess.Peer(senderID),
			Seq:         msg.Seq,
		}
		if err := s.events.PublishMessagePosted(ctx, ev); err != nil {
			log.Printf("session: publish message.posted failed: %v", err)
		}
	}
	return msg, nil
}

// ListMessages returns messages after afterSeq in ascending seq order, for
// incremental polling.
func (s *Service) ListMessages(ctx context.Context, sessionID, callerID string, afterSeq uint64, limit int) ([]Message, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Has(callerID) {
		return nil, common.Forbidden("caller is not a participant of this session")
	}
	return s.repo.ListMessages(ctx, sessionID, afterSeq, limit)
}

func (s *Service) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListForUser(ctx, userID)
}

// GetForParticipant loads a session and enforces membership.
func (s *Service) GetForParticipant(ctx context.Context, sessionID, callerID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Has(callerID) {
		return nil, common.Forbidden("caller is not a participant of this session")
	}
	return sess, nil
}
