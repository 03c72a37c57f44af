package booking

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

// Overlaps reports whether two requests claim the same room on at least one
// common day. Bounds are inclusive, so a check-out on the day another stay
// checks in is an overlap.
func Overlaps(a, b *domain.Request) bool {
	if a.RoomID != b.RoomID {
		return false
	}
	return a.Range().Overlaps(b.Range())
}

// FindConflicts lists the other requests in a blocking status that overlap req
// on the same room.
func (s *Service) FindConflicts(ctx context.Context, tx *gorm.DB, req *domain.Request) ([]domain.Request, error) {
	r := req.Range()
	return s.repo.WithTx(s.txOrDB(tx)).BlockingOverlaps(ctx, req.RoomID, req.ID, r.From, r.To)
}

func (s *Service) HasConflict(ctx context.Context, tx *gorm.DB, req *domain.Request) (bool, error) {
	found, err := s.FindConflicts(ctx, tx, req)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// conflictingRooms runs the detector for each request and also reports
// requests of the same set that overlap each other. The result is the sorted
// list of room ids involved.
func (s *Service) conflictingRooms(ctx context.Context, tx *gorm.DB, reqs []domain.Request) ([]int64, error) {
	rooms := map[int64]struct{}{}
	for i := range reqs {
		found, err := s.FindConflicts(ctx, tx, &reqs[i])
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			rooms[reqs[i].RoomID] = struct{}{}
		}
		for j := i + 1; j < len(reqs); j++ {
			if Overlaps(&reqs[i], &reqs[j]) {
				rooms[reqs[i].RoomID] = struct{}{}
			}
		}
	}

	out := make([]int64, 0, len(rooms))
	for id := range rooms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Service) txOrDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}
