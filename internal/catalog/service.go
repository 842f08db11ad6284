package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/db"
)

// AssignmentCascader removes every assignment referencing the given
// disciplines together with the caller's own row deletions, as one atomic
// unit. The assignment store implements it; the catalog only knows the
// contract so the two packages stay acyclic.
type AssignmentCascader interface {
	CascadeRemoveDisciplines(ctx context.Context, disciplineIDs []string, del func(tx *gorm.DB) error) error
}

type Service struct {
	db       *gorm.DB
	repo     *Repo
	cascader AssignmentCascader
}

func NewService(gdb *gorm.DB, repo *Repo, cascader AssignmentCascader) *Service {
	return &Service{db: gdb, repo: repo, cascader: cascader}
}

func (s *Service) CreateCourse(ctx context.Context, name, code string) (*Course, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return nil, common.InvalidArgument("course name and code are required")
	}

	course := &Course{ID: uuid.NewString(), Name: name, Code: code}
	err := db.Transact(s.db, func(tx *gorm.DB) error {
		n, err := s.repo.CountCourseByCode(ctx, tx, code, "")
		if err != nil {
			return err
		}
		if n > 0 {
			return common.Conflict("course code %q already exists", code)
		}
		return tx.WithContext(ctx).Create(course).Error
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id string, upd CourseUpdate) (*Course, error) {
	var course *Course
	err := db.Transact(s.db, func(tx *gorm.DB) error {
		var c Course
		if err := tx.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NotFound("course %s not found", id)
			}
			return err
		}
		if upd.Name != nil {
			c.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Code != nil {
			code := strings.TrimSpace(*upd.Code)
			n, err := s.repo.CountCourseByCode(ctx, tx, code, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return common.Conflict("course code %q already exists", code)
			}
			c.Code = code
		}
		if c.Name == "" || c.Code == "" {
			return common.InvalidArgument("course name and code are required")
		}
		if err := tx.WithContext(ctx).Save(&c).Error; err != nil {
			return err
		}
		course = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course, its disciplines, and every assignment
// referencing them. The whole cascade is one transaction under the index
// locks, so no matching query observes a half-deleted course.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.repo.GetCourse(ctx, id); err != nil {
		return err
	}
	ids, err := s.repo.DisciplineIDsOfCourse(ctx, id)
	if err != nil {
		return err
	}
	return s.cascader.CascadeRemoveDisciplines(ctx, ids, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("course_id = ?", id).Delete(&Discipline{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Delete(&Course{}, "id = ?", id).Error
	})
}

func (s *Service) CreateDiscipline(ctx context.Context, courseID, name, code string, semester int) (*Discipline, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return nil, common.InvalidArgument("discipline name and code are required")
	}
	if semester <= 0 {
		return nil, common.InvalidArgument("semester must be positive")
	}
	if _, err := s.repo.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	d := &Discipline{
		ID:       uuid.NewString(),
		CourseID: courseID,
		Name:     name,
		Code:     code,
		Semester: semester,
	}
	err := db.Transact(s.db, func(tx *gorm.DB) error {
		n, err := s.repo.CountDisciplineByCode(ctx, tx, courseID, code, "")
		if err != nil {
			return err
		}
		if n > 0 {
			return common.Conflict("discipline code %q already exists in course", code)
		}
		return tx.WithContext(ctx).Create(d).Error
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) UpdateDiscipline(ctx context.Context, id string, upd DisciplineUpdate) (*Discipline, error) {
	var disc *Discipline
	err := db.Transact(s.db, func(tx *gorm.DB) error {
		var d Discipline
		if err := tx.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return common.NotFound("discipline %s not found", id)
			}
			return err
		}
		if upd.Name != nil {
			d.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Code != nil {
			code := strings.TrimSpace(*upd.Code)
			n, err := s.repo.CountDisciplineByCode(ctx, tx, d.CourseID, code, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return common.Conflict("discipline code %q already exists in course", code)
			}
			d.Code = code
		}
		if upd.Semester != nil {
			if *upd.Semester <= 0 {
				return common.InvalidArgument("semester must be positive")
			}
			d.Semester = *upd.Semester
		}
		if d.Name == "" || d.Code == "" {
			return common.InvalidArgument("discipline name and code are required")
		}
		if err := tx.WithContext(ctx).Save(&d).Error; err != nil {
			return err
		}
		disc = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disc, nil
}

func (s *Service) DeleteDiscipline(ctx context.Context, id string) error {
	if _, err := s.repo.GetDiscipline(ctx, id); err != nil {
		return err
	}
	return s.cascader.CascadeRemoveDisciplines(ctx, []string{id}, func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Delete(&Discipline{}, "id = ?", id).Error
	})
}

func (s *Service) GetCourse(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetCourse(ctx, id)
}

func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	return s.repo.ListCourses(ctx)
}

func (s *Service) ListDisciplines(ctx context.Context, courseID string, orderBySemester bool) ([]Discipline, error) {
	if _, err := s.repo.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.ListDisciplines(ctx, courseID, orderBySemester)
}
