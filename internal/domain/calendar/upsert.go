package calendar

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
)

// UpsertResult counts what a range upsert did to the calendar.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	// Kept is the number of reserved cells whose price was left untouched.
	Kept int `json:"kept"`
}

// MaxUpsertDays bounds a single range upsert so the bulk insert stays one
// statement on every driver.
const MaxUpsertDays = 366

func (s *Store) validateUpsert(r daterange.Range, price float64) error {
	fields := map[string]string{}
	if price <= 0 {
		fields["price"] = "price must be greater than zero"
	}
	if !r.Valid() {
		fields["to"] = "to must not be before from"
	} else if r.Len() > MaxUpsertDays {
		fields["to"] = fmt.Sprintf("range must not exceed %d days", MaxUpsertDays)
	}
	today := s.today()
	if r.From.Before(today) {
		fields["from"] = "from must not be in the past"
	}
	if r.To.Before(today) {
		fields["to"] = "to must not be in the past"
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}
	return nil
}

// UpsertRange makes sure every day of r has a cell for the room. Available
// cells get the new price, reserved cells keep theirs and missing days are
// inserted in one statement. Running it twice with the same arguments only
// rewrites prices.
func (s *Store) UpsertRange(ctx context.Context, roomID int64, r daterange.Range, price float64) (*UpsertResult, error) {
	var out *UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.UpsertRangeTx(ctx, tx, roomID, r, price)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("calendar_upsert room_id=%d range=%s price=%.2f inserted=%d updated=%d kept=%d",
		roomID, r, price, out.Inserted, out.Updated, out.Kept)
	return out, nil
}

// UpsertRangeTx is UpsertRange inside a transaction owned by the caller.
func (s *Store) UpsertRangeTx(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range, price float64) (*UpsertResult, error) {
	r = daterange.New(r.From, r.To)
	if err := s.validateUpsert(r, price); err != nil {
		return nil, err
	}
	tx = tx.WithContext(ctx)
	if err := ensureRoom(tx, roomID); err != nil {
		return nil, err
	}

	existing, err := s.CellsInRange(ctx, tx, roomID, r)
	if err != nil {
		return nil, fmt.Errorf("load calendar cells: %w", err)
	}

	present := make(map[string]struct{}, len(existing))
	var updateIDs []int64
	res := &UpsertResult{}
	for _, c := range existing {
		present[c.Date.Format(daterange.Layout)] = struct{}{}
		if c.Available {
			updateIDs = append(updateIDs, c.ID)
		} else {
			res.Kept++
		}
	}

	now := s.now().UTC()
	if len(updateIDs) > 0 {
		err := tx.Model(&domain.CalendarCell{}).
			Where("id IN ?", updateIDs).
			Updates(map[string]any{"price": price, "updated_at": now}).Error
		if err != nil {
			return nil, upsertFailed(err)
		}
		res.Updated = len(updateIDs)
	}

	var missing []domain.CalendarCell
	for _, day := range r.Days() {
		if _, ok := present[day.Format(daterange.Layout)]; ok {
			continue
		}
		missing = append(missing, domain.CalendarCell{
			RoomID:    roomID,
			Date:      day,
			Price:     price,
			Available: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(missing) == 0 {
		return res, nil
	}

	if err := tx.Omit("Room").Create(&missing).Error; err != nil {
		return nil, upsertFailed(err)
	}
	res.Inserted = len(missing)

	ids := make([]int64, len(missing))
	for i := range missing {
		ids[i] = missing[i].ID
	}
	if err := s.attachActiveRequests(ctx, tx, ids); err != nil {
		return nil, upsertFailed(err)
	}
	return res, nil
}

// attachActiveRequests links freshly inserted cells to the blocking requests
// whose stay already covers them, then re-derives their availability.
func (s *Store) attachActiveRequests(ctx context.Context, tx *gorm.DB, cellIDs []int64) error {
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO request_cells (request_id, calendar_cell_id, created_at)
SELECT r.id, c.id, ?
FROM calendar_cells c
JOIN requests r ON r.room_id = c.room_id
WHERE c.id IN ?
  AND r.status IN ?
  AND c.date BETWEEN r.check_in AND r.check_out`,
		s.now().UTC(), cellIDs, domain.BlockingStatusValues(),
	).Error
	if err != nil {
		return err
	}
	return s.RecomputeAvailability(ctx, tx, cellIDs)
}

func upsertFailed(err error) error {
	if database.IsRetryable(err) {
		return apperror.Concurrency("failed to update pricing", err)
	}
	return fmt.Errorf("failed to update pricing: %w", err)
}
