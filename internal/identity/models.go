package identity

import "time"

// User is a profile reference for an externally-issued identity. The
// provider owns the account; the engine only keeps what it must render
// (names in match results) and never creates or deletes identities on its
// own initiative.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	Phone     *string   `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Role      string    `gorm:"type:varchar(16);not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
