package booking

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// fakeRow отдаёт заранее заданные значения в порядке колонок
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func bookingRow(subSlotID sql.NullInt64, checkIn *time.Time) fakeRow {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return fakeRow{values: []interface{}{
		int64(5),
		"Anna",
		"+79001234567",
		"Rex",
		"Pug",
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		subSlotID,
		int64(1),
		domain.StatusCheckedIn,
		checkIn,
		domain.SourceCustomer,
		(*string)(nil),
		sql.NullTime{Time: created, Valid: true},
		sql.NullTime{Time: created, Valid: true},
	}}
}

func TestScanBooking(t *testing.T) {
	checkIn := time.Date(2024, 6, 10, 9, 58, 0, 0, time.UTC)

	b, err := scanBooking(bookingRow(sql.NullInt64{Int64: 42, Valid: true}, &checkIn))
	require.NoError(t, err)

	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, int64(42), b.SubSlotID)
	assert.Equal(t, domain.StatusCheckedIn, b.Status)
	assert.Equal(t, domain.SourceCustomer, b.Source)
	require.NotNil(t, b.CheckInTime)
	assert.True(t, checkIn.Equal(*b.CheckInTime))
	assert.Nil(t, b.Notes)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestScanBooking_OrphanedSubSlot(t *testing.T) {
	b, err := scanBooking(bookingRow(sql.NullInt64{}, nil))
	require.NoError(t, err)

	assert.Zero(t, b.SubSlotID)
	assert.True(t, b.IsOrphaned())
}

func TestScanBooking_Error(t *testing.T) {
	_, err := scanBooking(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"reserved", "cancelled"},
		statusStrings([]domain.BookingStatus{domain.StatusReserved, domain.StatusCancelled}))
	assert.Empty(t, statusStrings(nil))
}
