package assignment

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ListByUserRole returns a user's assignments for one role in insertion order.
func (r *Repo) ListByUserRole(ctx context.Context, userID string, role Role) ([]Assignment, error) {
	var out []Assignment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) listScope(ctx context.Context, tx *gorm.DB, userID, courseID string, role Role) ([]Assignment, error) {
	if tx == nil {
		tx = r.db
	}
	var out []Assignment
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND role = ?", userID, courseID, role).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll feeds the boot-time index rebuild.
func (r *Repo) ListAll(ctx context.Context) ([]Assignment, error) {
	var out []Assignment
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
