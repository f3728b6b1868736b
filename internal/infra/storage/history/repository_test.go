package history

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

type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func recordRow(services []byte, rating sql.NullInt64, comment sql.NullString) fakeRow {
	return fakeRow{values: []interface{}{
		int64(1),
		int64(5),
		domain.StatusCompleted,
		"Anna",
		"+79001234567",
		"Rex",
		"Pug",
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		int64(1),
		"Central",
		"10:00",
		"Table A",
		(*time.Time)(nil),
		services,
		float64(35),
		rating,
		comment,
		(*string)(nil),
		time.Date(2024, 6, 10, 11, 0, 0, 0, time.UTC),
	}}
}

func TestScanRecord(t *testing.T) {
	services := []byte(`[{"serviceId":10,"serviceName":"Bath","price":25},{"serviceId":11,"serviceName":"Nails","price":10,"careNote":"gentle"}]`)

	record, err := scanRecord(recordRow(services, sql.NullInt64{Int64: 5, Valid: true}, sql.NullString{String: "great", Valid: true}))
	require.NoError(t, err)

	assert.Equal(t, int64(5), record.OriginalBookingID)
	assert.Equal(t, "Central", record.LocationName)
	require.Len(t, record.Services, 2)
	assert.Equal(t, "Nails", record.Services[1].ServiceName)
	require.NotNil(t, record.Services[1].CareNote)
	assert.Equal(t, "gentle", *record.Services[1].CareNote)
	require.NotNil(t, record.Feedback)
	assert.Equal(t, 5, record.Feedback.Rating)
	assert.Equal(t, "great", record.Feedback.Comment)
}

func TestScanRecord_NoServicesNoFeedback(t *testing.T) {
	record, err := scanRecord(recordRow(nil, sql.NullInt64{}, sql.NullString{}))
	require.NoError(t, err)

	assert.NotNil(t, record.Services)
	assert.Empty(t, record.Services)
	assert.Nil(t, record.Feedback)
}

func TestScanRecord_BadServicesJSON(t *testing.T) {
	_, err := scanRecord(recordRow([]byte(`{`), sql.NullInt64{}, sql.NullString{}))
	assert.Error(t, err)
}

func TestServicesOrEmpty(t *testing.T) {
	assert.Equal(t, []domain.ArchivedService{}, servicesOrEmpty(nil))

	in := []domain.ArchivedService{{ServiceID: 1}}
	assert.Equal(t, in, servicesOrEmpty(in))
}
