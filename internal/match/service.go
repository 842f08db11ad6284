package match

import (
	"context"
	"sort"

	"github.com/sarafernandess/ifocus-app/internal/assignment"
	"github.com/sarafernandess/ifocus-app/internal/identity"
)

// PeerSummary is one compatible peer with the disciplines both sides share.
type PeerSummary struct {
	UserID              string   `json:"userId"`
	Name                string   `json:"name"`
	SharedDisciplineIDs []string `json:"sharedDisciplineIds"`
}

// Service computes seeker/helper matches as a set-intersection join over
// the assignment store's inverted index. Matches are derived on demand and
// never persisted. Because a discipline belongs to exactly one course,
// candidates reached through a shared discipline are in the same course by
// construction; same-named disciplines in other courses never match.
type Service struct {
	assignments *assignment.Service
	identities  *identity.Repo
}

func NewService(assignments *assignment.Service, identities *identity.Repo) *Service {
	return &Service{assignments: assignments, identities: identities}
}

// FindHelpers returns users offering help in at least one discipline the
// seeker wants help with, ordered by shared-discipline count descending,
// then user id ascending.
func (s *Service) FindHelpers(ctx context.Context, seekerID string) ([]PeerSummary, error) {
	return s.find(ctx, seekerID, assignment.RoleSeekHelp)
}

// FindSeekers is the symmetric query for a helper.
func (s *Service) FindSeekers(ctx context.Context, helperID string) ([]PeerSummary, error) {
	return s.find(ctx, helperID, assignment.RoleOfferHelp)
}

func (s *Service) find(ctx context.Context, userID string, role assignment.Role) ([]PeerSummary, error) {
	own, err := s.assignments.GetAssignments(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	idx := s.assignments.Index()
	shared := make(map[string][]string) // candidate -> shared discipline ids
	for _, d := range own {
		for _, candidate := range idx.Users(d.ID, role.Opposite()) {
			if candidate == userID {
				continue
			}
			shared[candidate] = append(shared[candidate], d.ID)
		}
	}
	if len(shared) == 0 {
		return []PeerSummary{}, nil
	}

	ids := make([]string, 0, len(shared))
	for id := range shared {
		ids = append(ids, id)
	}
	names, err := s.identities.Names(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PeerSummary, 0, len(shared))
	for id, discs := range shared {
		out = append(out, PeerSummary{
			UserID:              id,
			Name:                names[id],
			SharedDisciplineIDs: discs,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].SharedDisciplineIDs) != len(out[j].SharedDisciplineIDs) {
			return len(out[i].SharedDisciplineIDs) > len(out[j].SharedDisciplineIDs)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
