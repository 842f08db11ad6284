package session

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is a lazily-created chat between an unordered pair of users. The
// pair is stored sorted (UserLow < UserHigh) so one unique index makes
// OpenSession idempotent. LastSeq is the per-session message counter;
// sequence numbers are server-assigned and never reused.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserLow   string    `gorm:"type:varchar(64);not null;index;index:uniq_pair,unique,priority:1" json:"userA"`
	UserHigh  string    `gorm:"type:varchar(64);not null;index;index:uniq_pair,unique,priority:2" json:"userB"`
	LastSeq   uint64    `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "chat_sessions" }

// Has reports whether userID is one of the session's two participants.
func (s *Session) Has(userID string) bool {
	return s.UserLow == userID || s.UserHigh == userID
}

// Peer returns the other participant.
func (s *Session) Peer(userID string) string {
	if s.UserLow == userID {
		return s.UserHigh
	}
	return s.UserLow
}

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index:uniq_session_seq,unique,priority:1" json:"sessionId"`
	Seq       uint64    `gorm:"not null;index:uniq_session_seq,unique,priority:2" json:"seq"`
	SenderID  string    `gorm:"type:varchar(64);not null" json:"senderId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	SentAt    time.Time `gorm:"not null" json:"sentAt"`
}

func (Message) TableName() string { return "chat_messages" }

func NewSessionID() string {
	return ulid.Make().String()
}

// normalizePair orders an unordered user pair for storage.
func normalizePair(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}
