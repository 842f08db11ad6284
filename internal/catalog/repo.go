package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetCourse(ctx context.Context, id string) (*Course, error) {
	var c Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("course %s not found", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetDiscipline(ctx context.Context, id string) (*Discipline, error) {
	var d Discipline
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("discipline %s not found", id)
		}
		return nil, err
	}
	return &d, nil
}

// ListCourses returns courses in stable insertion order.
func (r *Repo) ListCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListDisciplines returns a course's disciplines in insertion order, or in
// semester order when orderBySemester is set.
func (r *Repo) ListDisciplines(ctx context.Context, courseID string, orderBySemester bool) ([]Discipline, error) {
	order := "created_at ASC, id ASC"
	if orderBySemester {
		order = "semester ASC, code ASC"
	}
	var out []Discipline
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(order).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListDisciplinesByIDs loads discipline records preserving no particular order.
func (r *Repo) ListDisciplinesByIDs(ctx context.Context, ids []string) ([]Discipline, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Discipline
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CountCourseByCode(ctx context.Context, tx *gorm.DB, code, excludeID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	q := tx.WithContext(ctx).Model(&Course{}).Where("code = ?", code)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) CountDisciplineByCode(ctx context.Context, tx *gorm.DB, courseID, code, excludeID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	q := tx.WithContext(ctx).Model(&Discipline{}).
		Where("course_id = ? AND code = ?", courseID, code)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountDisciplinesInCourse counts how many of ids exist under courseID.
// Tx-aware so replace-set can re-verify its references inside the
// transaction that applies them.
func (r *Repo) CountDisciplinesInCourse(ctx context.Context, tx *gorm.DB, courseID string, ids []string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	if err := tx.WithContext(ctx).Model(&Discipline{}).
		Where("course_id = ? AND id IN ?", courseID, ids).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DisciplineIDsOfCourse returns every discipline id under the course. Used by
// cascade deletes and by replace-set validation.
func (r *Repo) DisciplineIDsOfCourse(ctx context.Context, courseID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&Discipline{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
