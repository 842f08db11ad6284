package assignment

import (
	"time"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

// Role is the capacity a user declares for a discipline. Both roles may
// coexist for the same (user, discipline); they are independent facts.
type Role string

const (
	RoleSeekHelp  Role = "seek_help"
	RoleOfferHelp Role = "offer_help"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSeekHelp, RoleOfferHelp:
		return Role(s), nil
	}
	return "", common.InvalidArgument("role must be seek_help or offer_help")
}

// Opposite returns the counterpart role used when matching.
func (r Role) Opposite() Role {
	if r == RoleSeekHelp {
		return RoleOfferHelp
	}
	return RoleSeekHelp
}

// Assignment links a user to a discipline under a role. CourseID is
// denormalized from the discipline so replace-set can scope deletes to one
// (user, course, role) without a join.
type Assignment struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID       string    `gorm:"type:varchar(64);not null;index;index:uniq_user_disc_role,unique,priority:1" json:"userId"`
	DisciplineID string    `gorm:"type:varchar(36);not null;index;index:uniq_user_disc_role,unique,priority:2" json:"disciplineId"`
	Role         Role      `gorm:"type:varchar(16);not null;index:uniq_user_disc_role,unique,priority:3" json:"role"`
	CourseID     string    `gorm:"type:varchar(36);not null;index" json:"courseId"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Assignment) TableName() string { return "assignments" }
