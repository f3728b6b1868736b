package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeString
		wantErr bool
	}{
		{name: "short format", in: "10:00", want: "10:00:00"},
		{name: "full format", in: "09:30:15", want: "09:30:15"},
		{name: "garbage", in: "ten o'clock", wantErr: true},
		{name: "out of range", in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	nine := MustTimeString("09:00")
	ten := MustTimeString("10:00")

	assert.True(t, nine.IsBefore(ten))
	assert.True(t, ten.IsAfter(nine))
	assert.False(t, ten.IsBefore(ten))
	assert.Equal(t, "09:00", nine.Short())
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := MustTimeString("23:30").AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:50:00"), got)

	_, err = MustTimeString("23:50").AddMinutes(20)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("10:15:00.000000")))
	assert.Equal(t, TimeString("10:15:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:05:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}

func TestTimeString_OnDate(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("10:30").OnDate(day)
	assert.Equal(t, time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC), got)
}
