package assignment

import (
	"context"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/catalog"
	"github.com/sarafernandess/ifocus-app/internal/common"
	"github.com/sarafernandess/ifocus-app/internal/db"
)

type Service struct {
	db      *gorm.DB
	repo    *Repo
	catalog *catalog.Repo
	index   *Index

	// scopes serializes replace-sets of the same (user, course, role) so
	// two concurrent calls cannot interleave their delete/insert deltas.
	// Different scopes only contend on the index shards they share.
	scopes sync.Map // scope key -> *sync.Mutex
}

func NewService(gdb *gorm.DB, repo *Repo, catalogRepo *catalog.Repo, index *Index) *Service {
	return &Service{db: gdb, repo: repo, catalog: catalogRepo, index: index}
}

// Index exposes the inverted index to the matching engine.
func (s *Service) Index() *Index { return s.index }

// LoadIndex rebuilds the inverted index from the store. Called once at boot.
func (s *Service) LoadIndex(ctx context.Context) error {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	s.index.Rebuild(all)
	return nil
}

func (s *Service) lockScope(userID, courseID string, role Role) func() {
	key := strings.Join([]string{userID, courseID, string(role)}, "|")
	v, _ := s.scopes.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// SetAssignments replaces the user's discipline set for one (course, role)
// scope. Assignments under other courses or the other role are untouched.
// The database rows and the inverted index change under the same shard
// locks, so a matching query never sees one without the other. Re-applying
// the same set is a no-op.
func (s *Service) SetAssignments(ctx context.Context, userID, courseID string, role Role, disciplineIDs []string) error {
	if userID == "" {
		return common.InvalidArgument("user id is required")
	}
	if _, err := s.catalog.GetCourse(ctx, courseID); err != nil {
		return err
	}

	want := dedupe(disciplineIDs)
	if err := s.validateOwnership(ctx, courseID, want); err != nil {
		return err
	}

	release := s.lockScope(userID, courseID, role)
	defer release()

	current, err := s.repo.listScope(ctx, nil, userID, courseID, role)
	if err != nil {
		return err
	}

	wantSet := make(map[string]struct{}, len(want))
	for _, id := range want {
		wantSet[id] = struct{}{}
	}
	have := make(map[string]struct{}, len(current))
	var removed []string
	for _, a := range current {
		have[a.DisciplineID] = struct{}{}
		if _, keep := wantSet[a.DisciplineID]; !keep {
			removed = append(removed, a.DisciplineID)
		}
	}
	var added []string
	for _, id := range want {
		if _, ok := have[id]; !ok {
			added = append(added, id)
		}
	}
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	unlock := s.index.Lock(unionIDs(want, current))
	defer unlock()

	err = db.Transact(s.db, func(tx *gorm.DB) error {
		// a catalog cascade may have deleted a discipline between the
		// ownership check and here; re-verify now that the shard locks
		// serialize us against it
		if len(added) > 0 {
			n, err := s.catalog.CountDisciplinesInCourse(ctx, tx, courseID, added)
			if err != nil {
				return err
			}
			if n != int64(len(added)) {
				return common.InvalidReference("discipline set changed during update")
			}
		}
		if len(removed) > 0 {
			if err := tx.WithContext(ctx).
				Where("user_id = ? AND course_id = ? AND role = ? AND discipline_id IN ?",
					userID, courseID, role, removed).
				Delete(&Assignment{}).Error; err != nil {
				return err
			}
		}
		for _, id := range added {
			a := Assignment{
				UserID:       userID,
				DisciplineID: id,
				Role:         role,
				CourseID:     courseID,
			}
			if err := tx.WithContext(ctx).Create(&a).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range removed {
		s.index.remove(id, role, userID)
	}
	for _, id := range added {
		s.index.add(id, role, userID)
	}
	return nil
}

// GetAssignments returns the user's disciplines for the role, as full
// records, in the order the assignments were declared.
func (s *Service) GetAssignments(ctx context.Context, userID string, role Role) ([]catalog.Discipline, error) {
	rows, err := s.repo.ListByUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.DisciplineID)
	}
	discs, err := s.catalog.ListDisciplinesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Discipline, len(discs))
	for _, d := range discs {
		byID[d.ID] = d
	}
	out := make([]catalog.Discipline, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// CascadeRemoveDisciplines implements catalog.AssignmentCascader. It deletes
// every assignment referencing the disciplines plus whatever catalog rows
// del removes, all in one transaction under the affected index buckets'
// locks; the buckets are dropped only after commit.
func (s *Service) CascadeRemoveDisciplines(ctx context.Context, disciplineIDs []string, del func(tx *gorm.DB) error) error {
	unlock := s.index.Lock(disciplineIDs)
	defer unlock()

	err := db.Transact(s.db, func(tx *gorm.DB) error {
		if len(disciplineIDs) > 0 {
			if err := tx.WithContext(ctx).
				Where("discipline_id IN ?", disciplineIDs).
				Delete(&Assignment{}).Error; err != nil {
				return err
			}
		}
		return del(tx)
	})
	if err != nil {
		return err
	}
	s.index.dropBuckets(disciplineIDs)
	return nil
}

func (s *Service) validateOwnership(ctx context.Context, courseID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	discs, err := s.catalog.ListDisciplinesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]string, len(discs))
	for _, d := range discs {
		found[d.ID] = d.CourseID
	}
	for _, id := range ids {
		owner, ok := found[id]
		if !ok {
			return common.InvalidReference("discipline %s does not exist", id)
		}
		if owner != courseID {
			return common.InvalidReference("discipline %s does not belong to course %s", id, courseID)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func unionIDs(want []string, current []Assignment) []string {
	seen := make(map[string]struct{}, len(want)+len(current))
	out := make([]string, 0, len(want)+len(current))
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, a := range current {
		if _, ok := seen[a.DisciplineID]; !ok {
			seen[a.DisciplineID] = struct{}{}
			out = append(out, a.DisciplineID)
		}
	}
	return out
}
