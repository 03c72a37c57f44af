package booking

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/apperror"
)

// applyStatusTransition is the single place a request changes status. Inside
// tx it checks the transition table and the entity, persists the new status,
// re-links the occupancy set to the cells that currently exist in the stay and
// re-derives the availability of every cell the request touched before or
// after. It never diffs: availability is recomputed on every call.
func (s *Service) applyStatusTransition(ctx context.Context, tx *gorm.DB, req *domain.Request, to domain.RequestStatus) error {
	if !req.Status.CanTransitionTo(to) {
		return apperror.InvalidTransition("request", string(req.Status), string(to))
	}
	return s.setRequestStatus(ctx, tx, req, to)
}

// forceRequestStatus is applyStatusTransition without the transition table.
// Guest cancellation of a whole booking uses it to cancel every line.
func (s *Service) forceRequestStatus(ctx context.Context, tx *gorm.DB, req *domain.Request, to domain.RequestStatus) error {
	if !to.IsValid() {
		return apperror.Validation("status", "unknown request status")
	}
	return s.setRequestStatus(ctx, tx, req, to)
}

func (s *Service) setRequestStatus(ctx context.Context, tx *gorm.DB, req *domain.Request, to domain.RequestStatus) error {
	if err := req.Validate(); err != nil {
		return err
	}

	repo := s.repo.WithTx(tx)
	if err := repo.UpdateRequestStatus(ctx, req.ID, to); err != nil {
		return fmt.Errorf("update request %d status: %w", req.ID, err)
	}
	req.Status = to

	if err := s.syncOccupancy(ctx, tx, req); err != nil {
		return fmt.Errorf("sync occupancy of request %d: %w", req.ID, err)
	}
	return nil
}

// syncOccupancy points the request's occupancy set at the cells of its stay
// and re-derives availability for the union of old and new cells.
func (s *Service) syncOccupancy(ctx context.Context, tx *gorm.DB, req *domain.Request) error {
	repo := s.repo.WithTx(tx)

	previous, err := repo.LinkedCellIDs(ctx, req.ID)
	if err != nil {
		return err
	}
	cells, err := s.calendar.CellsInRange(ctx, tx, req.RoomID, req.Range())
	if err != nil {
		return err
	}
	current := make([]int64, len(cells))
	for i, c := range cells {
		current[i] = c.ID
	}

	if err := repo.ReplaceLinks(ctx, req.ID, current); err != nil {
		return err
	}
	return s.calendar.RecomputeAvailability(ctx, tx, uniqueSorted(append(previous, current...)))
}

// releaseCells re-derives availability after the links in cellIDs are gone.
func (s *Service) releaseCells(ctx context.Context, tx *gorm.DB, cellIDs []int64) error {
	return s.calendar.RecomputeAvailability(ctx, tx, uniqueSorted(cellIDs))
}
