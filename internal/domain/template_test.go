package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
)

func TestTimeTemplate_AppliesOn(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	specific := TimeTemplate{SpecificWeekdays: []string{"Monday", "Wednesday"}}
	assert.True(t, specific.AppliesOn(monday))
	assert.False(t, specific.AppliesOn(tuesday))
	assert.True(t, specific.AppliesOn(wednesday))

	everyDay := TimeTemplate{AppliesEveryDay: true, SpecificWeekdays: []string{"Friday"}}
	for i := 0; i < 7; i++ {
		assert.True(t, everyDay.AppliesOn(monday.AddDate(0, 0, i)))
	}
}

func TestNormalizeWeekdays(t *testing.T) {
	got, err := NormalizeWeekdays([]string{"sun", "WEDNESDAY", "Monday", "wed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Wednesday", "Sunday"}, got)

	_, err = NormalizeWeekdays([]string{"Funday"})
	assert.Error(t, err)
}

func TestNumberSubSlots(t *testing.T) {
	slots := NumberSubSlots(7, []*string{ptr.Ptr("Chair A"), nil, ptr.Ptr("Tub")})

	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.Equal(t, i+1, s.Ordinal)
		assert.Equal(t, int64(7), s.TemplateID)
	}
	assert.Equal(t, "Chair A", slots[0].LabelOrDefault())
	assert.Equal(t, "Slot 2", slots[1].LabelOrDefault())
}
