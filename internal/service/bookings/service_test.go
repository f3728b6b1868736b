package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var (
	admin = domain.Actor{UserID: "admin", Role: domain.RoleAdmin}
	staff = domain.Actor{UserID: "staff", Role: domain.RoleStaff, LocationIDs: []int64{1}}
	other = domain.Actor{UserID: "other", Role: domain.RoleStaff, LocationIDs: []int64{2}}
)

type fixture struct {
	store     *testutil.Store
	publisher *testutil.RecordingPublisher
	template  *domain.TimeTemplate
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	store.AddCatalogService(10, "Bath", 25)

	tmpl, err := store.Templates().Create(ctx, &domain.TimeTemplate{
		StartTime:       types.MustTimeString("09:30"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
		SubSlots:        domain.NumberSubSlots(0, []*string{ptr.Ptr("Table A"), nil}),
	})
	require.NoError(t, err)

	publisher := &testutil.RecordingPublisher{}
	return &fixture{
		store:     store,
		publisher: publisher,
		template:  tmpl,
		svc:       NewService(store.Bookings(), store.Templates(), store.TxManager(), publisher, testutil.Logger()),
	}
}

func (f *fixture) book(t *testing.T, subSlot int, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	ctx := context.Background()

	b, err := f.store.Bookings().Create(ctx, &domain.Booking{
		CustomerName:  "Anna",
		ContactNumber: "+79001234567",
		PetName:       "Rex",
		PetBreed:      "Pug",
		BookingDate:   testutil.Date(2024, 6, 10),
		SubSlotID:     f.template.SubSlots[subSlot].ID,
		LocationID:    1,
		Status:        domain.StatusReserved,
		Source:        domain.SourceStaff,
	})
	require.NoError(t, err)

	if status != domain.StatusReserved {
		require.NoError(t, f.store.Bookings().UpdateStatus(ctx, b.ID, status))
		b.Status = status
	}
	return b
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, 0, domain.StatusReserved)

	_, err := f.store.Bookings().ReplaceServices(ctx, b.ID, []domain.ServiceSelection{
		{ServiceID: 10, ServiceName: "Bath", Price: 25},
	})
	require.NoError(t, err)

	resp, err := f.svc.GetByID(ctx, b.ID, staff)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", resp.BookingDate)
	require.NotNil(t, resp.StartTime)
	assert.Equal(t, "09:30", *resp.StartTime)
	assert.Equal(t, "Table A", *resp.SubSlotLabel)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, 25.0, *resp.TotalPrice)

	_, err = f.svc.GetByID(ctx, b.ID, other)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, 999, admin)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListByLocationDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second := f.book(t, 1, domain.StatusReserved)
	first := f.book(t, 0, domain.StatusCancelled)

	resp, err := f.svc.ListByLocationDate(ctx, 1, testutil.Date(2024, 6, 10), false, staff)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, second.ID, resp.Bookings[0].ID)
	assert.Equal(t, "Slot 2", *resp.Bookings[0].SubSlotLabel)

	resp, err = f.svc.ListByLocationDate(ctx, 1, testutil.Date(2024, 6, 10), true, staff)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, first.ID, resp.Bookings[0].ID)
	assert.Equal(t, second.ID, resp.Bookings[1].ID)

	_, err = f.svc.ListByLocationDate(ctx, 1, testutil.Date(2024, 6, 10), false, other)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_ListByLocationDate_TemplateMovedAway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddLocation(2, "North")

	done := f.book(t, 0, domain.StatusCompleted)

	moved := *f.template
	moved.LocationIDs = []int64{2}
	_, err := f.store.Templates().Update(ctx, &moved)
	require.NoError(t, err)

	resp, err := f.svc.ListByLocationDate(ctx, 1, testutil.Date(2024, 6, 10), false, staff)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, done.ID, resp.Bookings[0].ID)
	require.NotNil(t, resp.Bookings[0].StartTime)
	assert.Equal(t, "09:30", *resp.Bookings[0].StartTime)
	require.NotNil(t, resp.Bookings[0].SubSlotLabel)
	assert.Equal(t, "Table A", *resp.Bookings[0].SubSlotLabel)
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, 0, domain.StatusCheckedIn)

	resp, err := f.svc.Update(ctx, b.ID, &models.UpdateBookingRequest{
		CustomerName:  " Maria ",
		ContactNumber: "+7 900 000-00-00",
		PetName:       "Bella",
		PetBreed:      "Corgi",
		Notes:         ptr.Ptr("sensitive ears"),
	}, staff)
	require.NoError(t, err)
	assert.Equal(t, "Maria", resp.CustomerName)
	assert.Equal(t, string(domain.StatusCheckedIn), resp.Status)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bella", stored.PetName)
	assert.Equal(t, "sensitive ears", *stored.Notes)

	assert.Equal(t, []testutil.PublishedEvent{
		{Type: feed.EventUpdated, BookingID: b.ID, Status: domain.StatusCheckedIn},
	}, f.publisher.Events())
}

func TestService_Update_TerminalBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, 0, domain.StatusCompleted)

	_, err := f.svc.Update(ctx, b.ID, &models.UpdateBookingRequest{
		CustomerName: "Maria", ContactNumber: "12345", PetName: "Bella", PetBreed: "Corgi",
	}, admin)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCompleted, transitionErr.From)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.CustomerName)
	assert.Empty(t, f.publisher.Events())
}

func TestService_Update_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, 0, domain.StatusReserved)

	_, err := f.svc.Update(context.Background(), b.ID, &models.UpdateBookingRequest{
		CustomerName: "", ContactNumber: "12345", PetName: "Bella", PetBreed: "Corgi",
	}, staff)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddCatalogService(11, "Nails", 10.5)
	b := f.book(t, 0, domain.StatusProgressing)

	_, err := f.store.Bookings().ReplaceServices(ctx, b.ID, []domain.ServiceSelection{
		{ServiceID: 10, ServiceName: "Bath", Price: 25},
		{ServiceID: 11, ServiceName: "Nails", Price: 10.5, InputValue: ptr.Ptr("front only")},
	})
	require.NoError(t, err)

	resp, err := f.svc.ListServices(ctx, b.ID, staff)
	require.NoError(t, err)
	assert.Len(t, resp.Services, 2)
	assert.Equal(t, 35.5, resp.TotalPrice)
}
