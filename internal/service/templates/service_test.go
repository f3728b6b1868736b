package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates/models"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
)

func newTestService(t *testing.T) (*Service, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	store.AddLocation(2, "Riverside")

	svc := NewService(store.Templates(), store.Bookings(), store.Catalog(), store.TxManager(), testutil.Logger())
	return svc, store
}

func everyDayRequest(start string, subSlots int) *models.TemplateRequest {
	req := &models.TemplateRequest{
		StartTime:       start,
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
	}
	for i := 0; i < subSlots; i++ {
		req.SubSlots = append(req.SubSlots, models.SubSlotRequest{})
	}
	return req
}

func TestService_Create(t *testing.T) {
	svc, _ := newTestService(t)

	req := everyDayRequest("10:00", 2)
	req.SubSlots[0].Label = ptr.Ptr("Table A")

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.True(t, resp.AppliesEveryDay)
	assert.Empty(t, resp.SpecificWeekdays)
	assert.Equal(t, []int64{1}, resp.LocationIDs)
	require.Len(t, resp.SubSlots, 2)
	assert.Equal(t, 1, resp.SubSlots[0].Ordinal)
	assert.Equal(t, "Table A", resp.SubSlots[0].Label)
	assert.Equal(t, 2, resp.SubSlots[1].Ordinal)
	assert.Equal(t, "Slot 2", resp.SubSlots[1].Label)
}

func TestService_Create_NormalizesWeekdays(t *testing.T) {
	svc, _ := newTestService(t)

	req := everyDayRequest("09:30:00", 1)
	req.AppliesEveryDay = false
	req.SpecificWeekdays = []string{"wed", "Monday", "mon"}

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Wednesday"}, resp.SpecificWeekdays)
	assert.Equal(t, "09:30", resp.StartTime)
}

func TestService_Create_EveryDayIgnoresWeekdays(t *testing.T) {
	svc, _ := newTestService(t)

	req := everyDayRequest("10:00", 1)
	req.SpecificWeekdays = []string{"Monday", "Funday"}

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.AppliesEveryDay)
	assert.Empty(t, resp.SpecificWeekdays)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SpecificWeekdays)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.TemplateRequest)
	}{
		{"bad start time", func(r *models.TemplateRequest) { r.StartTime = "25:00" }},
		{"empty start time", func(r *models.TemplateRequest) { r.StartTime = "" }},
		{"no recurrence", func(r *models.TemplateRequest) { r.AppliesEveryDay = false }},
		{"unknown weekday", func(r *models.TemplateRequest) {
			r.AppliesEveryDay = false
			r.SpecificWeekdays = []string{"Funday"}
		}},
		{"no locations", func(r *models.TemplateRequest) { r.LocationIDs = nil }},
		{"unknown location", func(r *models.TemplateRequest) { r.LocationIDs = []int64{99} }},
		{"no sub-slots", func(r *models.TemplateRequest) { r.SubSlots = nil }},
		{"too many sub-slots", func(r *models.TemplateRequest) {
			r.SubSlots = make([]models.SubSlotRequest, domain.MaxSubSlotsPerTemplate+1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			req := everyDayRequest("10:00", 1)
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update_ReplacesSubSlots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, everyDayRequest("10:00", 3))
	require.NoError(t, err)

	req := everyDayRequest("11:00", 2)
	req.LocationIDs = []int64{1, 2}
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "11:00", updated.StartTime)
	assert.Equal(t, []int64{1, 2}, updated.LocationIDs)
	require.Len(t, updated.SubSlots, 2)
	assert.Equal(t, 1, updated.SubSlots[0].Ordinal)
	assert.Equal(t, 2, updated.SubSlots[1].Ordinal)
	for _, s := range updated.SubSlots {
		for _, old := range created.SubSlots {
			assert.NotEqual(t, old.ID, s.ID, "sub-slots are re-created on update")
		}
	}
}

func TestService_UpdateAndDelete_BlockedByActiveBooking(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, everyDayRequest("10:00", 1))
	require.NoError(t, err)

	booking, err := store.Bookings().Create(ctx, &domain.Booking{
		CustomerName: "Anna", ContactNumber: "123", PetName: "Rex", PetBreed: "Pug",
		BookingDate: testutil.Date(2024, 6, 10),
		SubSlotID:   created.SubSlots[0].ID,
		LocationID:  1,
		Status:      domain.StatusReserved,
		Source:      domain.SourceStaff,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, everyDayRequest("12:00", 1))
	assert.ErrorIs(t, err, ErrTemplateInUse)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTemplateInUse)

	// Отменённое бронирование шаблон не держит
	require.NoError(t, store.Bookings().UpdateStatus(ctx, booking.ID, domain.StatusCancelled))
	require.NoError(t, svc.Delete(ctx, created.ID))

	stored, err := store.Bookings().GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOrphaned())

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), 42), ErrTemplateNotFound)
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, everyDayRequest("14:00", 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, everyDayRequest("09:00", 1))
	require.NoError(t, err)

	other := everyDayRequest("08:00", 1)
	other.LocationIDs = []int64{2}
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all.Templates, 3)
	assert.Equal(t, "08:00", all.Templates[0].StartTime)

	atCentral, err := svc.List(ctx, ptr.Ptr(int64(1)))
	require.NoError(t, err)
	require.Len(t, atCentral.Templates, 2)
	assert.Equal(t, "09:00", atCentral.Templates[0].StartTime)
	assert.Equal(t, "14:00", atCentral.Templates[1].StartTime)
}
