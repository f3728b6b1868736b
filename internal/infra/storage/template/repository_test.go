package template

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

func TestWeekdaysValue(t *testing.T) {
	assert.Nil(t, weekdaysValue(&domain.TimeTemplate{AppliesEveryDay: true, SpecificWeekdays: []string{"Monday"}}))
	assert.Nil(t, weekdaysValue(&domain.TimeTemplate{}))

	v := weekdaysValue(&domain.TimeTemplate{SpecificWeekdays: []string{"Monday", "Wednesday"}})
	arr, ok := v.(*pq.StringArray)
	if assert.True(t, ok) {
		assert.Equal(t, pq.StringArray{"Monday", "Wednesday"}, *arr)
	}
}

func TestSortSubSlots(t *testing.T) {
	slots := []domain.SubSlot{{ID: 3, Ordinal: 3}, {ID: 1, Ordinal: 1}, {ID: 2, Ordinal: 2}}
	sortSubSlots(slots)

	assert.Equal(t, []int{1, 2, 3}, []int{slots[0].Ordinal, slots[1].Ordinal, slots[2].Ordinal})
}
