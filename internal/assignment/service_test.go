package assignment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sarafernandess/ifocus-app/internal/catalog"
	"github.com/sarafernandess/ifocus-app/internal/common"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&catalog.Course{}, &catalog.Discipline{}, &Assignment{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, code string, disciplineCodes ...string) (string, []string) {
	t.Helper()
	course := catalog.Course{ID: uuid.NewString(), Name: code, Code: code}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	var ids []string
	for i, dc := range disciplineCodes {
		d := catalog.Discipline{
			ID:       uuid.NewString(),
			CourseID: course.ID,
			Name:     dc,
			Code:     dc,
			Semester: i + 1,
		}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("seed discipline: %v", err)
		}
		ids = append(ids, d.ID)
	}
	return course.ID, ids
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewService(db, NewRepo(db), catalog.NewRepo(db), NewIndex()), db
}

func disciplineIDs(discs []catalog.Discipline) []string {
	out := make([]string, 0, len(discs))
	for _, d := range discs {
		out = append(out, d.ID)
	}
	sort.Strings(out)
	return out
}

func TestSetAssignments_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	courseID, ids := seedCourse(t, svc.db, "CS101", "CALC", "ALG")

	for i := 0; i < 2; i++ {
		if err := svc.SetAssignments(ctx, "u1", courseID, RoleSeekHelp, ids); err != nil {
			t.Fatalf("set assignments (pass %d): %v", i, err)
		}
	}

	got, err := svc.GetAssignments(ctx, "u1", RoleSeekHelp)
	if err != nil {
		t.Fatalf("get assignments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}

	var rows int64
	if err := svc.db.Model(&Assignment{}).Where("user_id = ?", "u1").Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows after reapply, got %d", rows)
	}
}

func TestSetAssignments_ReplacesOnlyScope(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cs, csIDs := seedCourse(t, svc.db, "CS101", "CALC", "ALG")
	math, mathIDs := seedCourse(t, svc.db, "MATH", "GEO")

	if err := svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, csIDs); err != nil {
		t.Fatalf("set cs seek: %v", err)
	}
	if err := svc.SetAssignments(ctx, "u1", cs, RoleOfferHelp, csIDs[:1]); err != nil {
		t.Fatalf("set cs offer: %v", err)
	}
	if err := svc.SetAssignments(ctx, "u1", math, RoleSeekHelp, mathIDs); err != nil {
		t.Fatalf("set math seek: %v", err)
	}

	// shrink the CS seek scope; other course and other role stay put
	if err := svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, csIDs[1:]); err != nil {
		t.Fatalf("replace cs seek: %v", err)
	}

	seek, err := svc.GetAssignments(ctx, "u1", RoleSeekHelp)
	if err != nil {
		t.Fatalf("get seek: %v", err)
	}
	want := append([]string{}, csIDs[1], mathIDs[0])
	sort.Strings(want)
	if got := disciplineIDs(seek); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("seek scope wrong: got %v want %v", got, want)
	}

	offer, err := svc.GetAssignments(ctx, "u1", RoleOfferHelp)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if len(offer) != 1 || offer[0].ID != csIDs[0] {
		t.Fatalf("offer scope should be untouched: %+v", offer)
	}
}

func TestSetAssignments_InvalidReference(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cs, _ := seedCourse(t, svc.db, "CS101", "CALC")
	_, mathIDs := seedCourse(t, svc.db, "MATH", "GEO")

	err := svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, mathIDs)
	if common.KindOf(err) != common.KindInvalidReference {
		t.Fatalf("expected invalid reference for foreign discipline, got %v", err)
	}

	err = svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, []string{"nope"})
	if common.KindOf(err) != common.KindInvalidReference {
		t.Fatalf("expected invalid reference for unknown discipline, got %v", err)
	}

	err = svc.SetAssignments(ctx, "u1", "missing-course", RoleSeekHelp, nil)
	if common.KindOf(err) != common.KindNotFound {
		t.Fatalf("expected not found for missing course, got %v", err)
	}
}

func TestSetAssignments_MaintainsIndex(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cs, ids := seedCourse(t, svc.db, "CS101", "CALC", "ALG")

	if err := svc.SetAssignments(ctx, "helper", cs, RoleOfferHelp, ids); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := svc.Index().Users(ids[0], RoleOfferHelp); len(got) != 1 || got[0] != "helper" {
		t.Fatalf("index should list helper for CALC, got %v", got)
	}

	// shrink the set: ALG bucket must drop the helper, CALC keeps it
	if err := svc.SetAssignments(ctx, "helper", cs, RoleOfferHelp, ids[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := svc.Index().Users(ids[1], RoleOfferHelp); len(got) != 0 {
		t.Fatalf("index should drop helper for ALG, got %v", got)
	}
	if got := svc.Index().Users(ids[0], RoleOfferHelp); len(got) != 1 {
		t.Fatalf("index lost CALC helper: %v", got)
	}
}

func TestCascadeRemoveDisciplines(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	cs, ids := seedCourse(t, svc.db, "CS101", "CALC", "ALG")

	if err := svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, ids); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.SetAssignments(ctx, "u2", cs, RoleOfferHelp, ids[:1]); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := svc.CascadeRemoveDisciplines(ctx, ids[:1], func(tx *gorm.DB) error {
		return tx.Delete(&catalog.Discipline{}, "id = ?", ids[0]).Error
	})
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}

	var rows int64
	if err := db.Model(&Assignment{}).Where("discipline_id = ?", ids[0]).Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 0 {
		t.Fatalf("assignments referencing deleted discipline remain: %d", rows)
	}
	if got := svc.Index().Users(ids[0], RoleOfferHelp); len(got) != 0 {
		t.Fatalf("index bucket should be gone, got %v", got)
	}
	// untouched discipline keeps its assignment
	if got := svc.Index().Users(ids[1], RoleSeekHelp); len(got) != 1 {
		t.Fatalf("unrelated bucket lost entries: %v", got)
	}
}

func TestSetAssignments_RacesCatalogCascade(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	cs, _ := seedCourse(t, db, "CS101")

	// whatever the interleaving, a deleted discipline must leave no
	// assignment rows and no index bucket behind
	for i := 0; i < 100; i++ {
		d := catalog.Discipline{
			ID:       uuid.NewString(),
			CourseID: cs,
			Name:     "Calculus",
			Code:     fmt.Sprintf("CALC%d", i),
			Semester: 1,
		}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("seed discipline: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			// losing the race to the cascade is a legal outcome
			_ = svc.SetAssignments(ctx, "u1", cs, RoleSeekHelp, []string{d.ID})
		}()
		go func() {
			defer wg.Done()
			_ = svc.CascadeRemoveDisciplines(ctx, []string{d.ID}, func(tx *gorm.DB) error {
				return tx.Delete(&catalog.Discipline{}, "id = ?", d.ID).Error
			})
		}()
		wg.Wait()

		var rows int64
		if err := db.Model(&Assignment{}).Where("discipline_id = ?", d.ID).Count(&rows).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if rows != 0 {
			t.Fatalf("iteration %d: discipline deleted but assignment rows survived", i)
		}
		if got := svc.Index().Users(d.ID, RoleSeekHelp); len(got) != 0 {
			t.Fatalf("iteration %d: index bucket survived the cascade: %v", i, got)
		}
	}
}

func TestLoadIndex(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	cs, ids := seedCourse(t, db, "CS101", "CALC")

	if err := svc.SetAssignments(ctx, "u1", cs, RoleOfferHelp, ids); err != nil {
		t.Fatalf("set: %v", err)
	}

	// fresh service over the same store, before LoadIndex the index is cold
	fresh := NewService(db, NewRepo(db), catalog.NewRepo(db), NewIndex())
	if got := fresh.Index().Users(ids[0], RoleOfferHelp); len(got) != 0 {
		t.Fatalf("cold index should be empty, got %v", got)
	}
	if err := fresh.LoadIndex(ctx); err != nil {
		t.Fatalf("load index: %v", err)
	}
	if got := fresh.Index().Users(ids[0], RoleOfferHelp); len(got) != 1 || got[0] != "u1" {
		t.Fatalf("rebuilt index wrong: %v", got)
	}
}
