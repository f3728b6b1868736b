package get_available_slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

func TestUseCase_Execute(t *testing.T) {
	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	ctx := context.Background()

	tmpl, err := store.Templates().Create(ctx, &domain.TimeTemplate{
		StartTime:       types.MustTimeString("10:00"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
		SubSlots:        domain.NumberSubSlots(0, []*string{nil, nil}),
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Templates(), store.Bookings(), store.Catalog(), testutil.Logger())
	date := testutil.Date(2024, 6, 10)

	resp, err := uc.Execute(ctx, &Request{LocationID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	booking, err := store.Bookings().Create(ctx, &domain.Booking{
		CustomerName: "Anna", ContactNumber: "123", PetName: "Rex", PetBreed: "Pug",
		BookingDate: date,
		SubSlotID:   tmpl.SubSlots[0].ID,
		LocationID:  1,
		Status:      domain.StatusReserved,
		Source:      domain.SourceCustomer,
	})
	require.NoError(t, err)

	resp, err = uc.Execute(ctx, &Request{LocationID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, tmpl.SubSlots[1].ID, resp.Slots[0].SubSlotID)

	// На другую дату бронирование не влияет
	resp, err = uc.Execute(ctx, &Request{LocationID: 1, Date: testutil.Date(2024, 6, 11)})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)

	require.NoError(t, store.Bookings().UpdateStatus(ctx, booking.ID, domain.StatusCancelled))

	resp, err = uc.Execute(ctx, &Request{LocationID: 1, Date: date})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	uc := NewUseCase(store.Templates(), store.Bookings(), store.Catalog(), testutil.Logger())
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{LocationID: 0, Date: testutil.Date(2024, 6, 10)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{LocationID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{LocationID: 7, Date: testutil.Date(2024, 6, 10)})
	assert.ErrorIs(t, err, ErrLocationNotFound)

	store.FailNext(assert.AnError)
	_, err = uc.Execute(ctx, &Request{LocationID: 1, Date: testutil.Date(2024, 6, 10)})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_SharedTemplateAcrossLocations(t *testing.T) {
	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	store.AddLocation(2, "North")
	ctx := context.Background()

	tmpl, err := store.Templates().Create(ctx, &domain.TimeTemplate{
		StartTime:       types.MustTimeString("10:00"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1, 2},
		SubSlots:        domain.NumberSubSlots(0, []*string{nil, nil}),
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Templates(), store.Bookings(), store.Catalog(), testutil.Logger())
	date := testutil.Date(2024, 6, 10)

	_, err = store.Bookings().Create(ctx, &domain.Booking{
		CustomerName: "Anna", ContactNumber: "123", PetName: "Rex", PetBreed: "Pug",
		BookingDate: date,
		SubSlotID:   tmpl.SubSlots[0].ID,
		LocationID:  1,
		Status:      domain.StatusReserved,
		Source:      domain.SourceCustomer,
	})
	require.NoError(t, err)

	// Под-слот, занятый на точке 1, не предлагается и на точке 2
	for _, locationID := range []int64{1, 2} {
		resp, err := uc.Execute(ctx, &Request{LocationID: locationID, Date: date})
		require.NoError(t, err)
		require.Len(t, resp.Slots, 1, "location %d", locationID)
		assert.Equal(t, tmpl.SubSlots[1].ID, resp.Slots[0].SubSlotID)
	}
}

func TestUseCase_Execute_NoTemplates(t *testing.T) {
	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	uc := NewUseCase(store.Templates(), store.Bookings(), store.Catalog(), testutil.Logger())

	resp, err := uc.Execute(context.Background(), &Request{LocationID: 1, Date: testutil.Date(2024, 6, 10)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
