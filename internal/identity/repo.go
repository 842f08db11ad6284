package identity

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("user %s not found", id)
		}
		return nil, err
	}
	return &u, nil
}

// Upsert writes the profile reference for a verified user id. The provider's
// role claim wins over whatever was stored; profile fields come from the
// client's sync.
func (r *Repo) Upsert(ctx context.Context, u *User) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.ID == "" {
		return common.InvalidArgument("user id is required")
	}
	if u.Name == "" {
		return common.InvalidArgument("name is required")
	}
	if u.Role == "" {
		u.Role = "student"
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "role", "updated_at"}),
	}).Create(u).Error
}

// Names resolves display names for a batch of user ids. Ids without a
// profile row are simply absent from the result.
func (r *Repo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []User
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Name
	}
	return out, nil
}
