package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
)

// Store owns the calendar_cells table. Every write to a cell's availability
// goes through RecomputeAvailability, except the explicit admin override.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// conn returns tx when the caller runs inside a transaction, otherwise the
// store's own handle.
func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func (s *Store) today() time.Time {
	return daterange.Day(s.now())
}

// GetCell returns nil, nil when the room has no cell for that day.
func (s *Store) GetCell(ctx context.Context, roomID int64, date time.Time) (*domain.CalendarCell, error) {
	var cell domain.CalendarCell
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND date = ?", roomID, daterange.Day(date)).
		First(&cell).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

// CellsInRange lists the existing cells of the room inside r, ordered by date.
func (s *Store) CellsInRange(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range) ([]domain.CalendarCell, error) {
	var cells []domain.CalendarCell
	err := s.conn(ctx, tx).
		Where("room_id = ? AND date BETWEEN ? AND ?", roomID, r.From, r.To).
		Order("date ASC").
		Find(&cells).Error
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// SetAvailability flips the flag on every existing cell of the room in r.
// Days without a cell are skipped; no rows are created. The caller owns the
// transaction.
func (s *Store) SetAvailability(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range, available bool) (int64, error) {
	res := s.conn(ctx, tx).
		Model(&domain.CalendarCell{}).
		Where("room_id = ? AND date BETWEEN ? AND ?", roomID, r.From, r.To).
		Updates(map[string]any{
			"available":  available,
			"updated_at": s.now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// RecomputeAvailability re-derives the available flag of the given cells from
// the requests linked to them: a cell is available unless a request in a
// blocking status occupies it.
func (s *Store) RecomputeAvailability(ctx context.Context, tx *gorm.DB, cellIDs []int64) error {
	if len(cellIDs) == 0 {
		return nil
	}
	return s.conn(ctx, tx).
		Model(&domain.CalendarCell{}).
		Where("id IN ?", cellIDs).
		Updates(map[string]any{
			"available": gorm.Expr(
				"NOT EXISTS (SELECT 1 FROM request_cells rc JOIN requests r ON r.id = rc.request_id "+
					"WHERE rc.calendar_cell_id = calendar_cells.id AND r.status IN ?)",
				domain.BlockingStatusValues(),
			),
			"updated_at": s.now().UTC(),
		}).Error
}

// OverrideAvailability is the administrative manual override. It writes the
// flag directly and is the only path that bypasses RecomputeAvailability.
func (s *Store) OverrideAvailability(ctx context.Context, actorID, roomID int64, r daterange.Range, available bool) (int64, error) {
	if !r.Valid() {
		return 0, apperror.Validation("to", "to must not be before from")
	}

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRoom(tx, roomID); err != nil {
			return err
		}
		n, err := s.SetAvailability(ctx, tx, roomID, r, available)
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("calendar_override actor_id=%d room_id=%d range=%s available=%t cells=%d",
		actorID, roomID, r, available, affected)
	return affected, nil
}

// ListRange is the read side of the admin calendar view.
func (s *Store) ListRange(ctx context.Context, roomID int64, r daterange.Range) ([]domain.CalendarCell, error) {
	if !r.Valid() {
		return nil, apperror.Validation("to", "to must not be before from")
	}
	if err := ensureRoom(s.db.WithContext(ctx), roomID); err != nil {
		return nil, err
	}
	return s.CellsInRange(ctx, nil, roomID, r)
}

// DefaultWindow is today through the following week.
func (s *Store) DefaultWindow() daterange.Range {
	today := s.today()
	return daterange.New(today, today.AddDate(0, 0, 7))
}

// RoomPrice sums the cell prices of the room inside r. Days without a cell
// contribute nothing.
func (s *Store) RoomPrice(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range) (float64, error) {
	var total float64
	err := s.conn(ctx, tx).
		Model(&domain.CalendarCell{}).
		Select("COALESCE(SUM(price), 0)").
		Where("room_id = ? AND date BETWEEN ? AND ?", roomID, r.From, r.To).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum room price: %w", err)
	}
	return total, nil
}

func ensureRoom(db *gorm.DB, roomID int64) error {
	var count int64
	if err := db.Model(&domain.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("room")
	}
	return nil
}

// PrunePast deletes cells dated before today that no request links to.
func (s *Store) PrunePast(ctx context.Context) (int64, error) {
	linked := s.db.Model(&domain.RequestCell{}).Select("calendar_cell_id")
	res := s.db.WithContext(ctx).
		Where("date < ? AND id NOT IN (?)", s.today(), linked).
		Delete(&domain.CalendarCell{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune calendar: %w", res.Error)
	}
	return res.RowsAffected, nil
}
