package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	"github.com/m04kA/SMC-GroomingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var (
	admin = domain.Actor{UserID: "admin", Role: domain.RoleAdmin}
	staff = domain.Actor{UserID: "staff", Role: domain.RoleStaff, LocationIDs: []int64{1}}
	other = domain.Actor{UserID: "other", Role: domain.RoleStaff, LocationIDs: []int64{2}}

	bookingDate = testutil.Date(2024, 6, 10)
)

type fixture struct {
	store     *testutil.Store
	publisher *testutil.RecordingPublisher
	template  *domain.TimeTemplate
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	store.AddLocation(1, "Central")
	store.AddCatalogService(10, "Bath", 25)
	store.AddCatalogService(11, "Nails", 10)

	tmpl, err := store.Templates().Create(context.Background(), &domain.TimeTemplate{
		StartTime:       types.MustTimeString("10:00"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
		SubSlots:        domain.NumberSubSlots(0, []*string{ptr.Ptr("Table A")}),
	})
	require.NoError(t, err)

	publisher := &testutil.RecordingPublisher{}
	svc := NewService(store.Bookings(), store.History(), store.Templates(), store.Catalog(),
		store.TxManager(), publisher, testutil.Metrics(), testutil.Logger())
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 9, 55, 0, 0, time.UTC) }

	return &fixture{store: store, publisher: publisher, template: tmpl, svc: svc}
}

func (f *fixture) reserve(t *testing.T) *domain.Booking {
	t.Helper()

	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		CustomerName:  "Anna",
		ContactNumber: "+79001234567",
		PetName:       "Rex",
		PetBreed:      "Pug",
		BookingDate:   bookingDate,
		SubSlotID:     f.template.SubSlots[0].ID,
		LocationID:    1,
		Status:        domain.StatusReserved,
		Source:        domain.SourceCustomer,
	})
	require.NoError(t, err)
	return b
}

func assignBathAndNails() *models.AssignServicesRequest {
	return &models.AssignServicesRequest{Services: []models.ServiceSelectionRequest{
		{ServiceID: 10, InputValue: ptr.Ptr("short coat")},
		{ServiceID: 11},
	}}
}

func TestService_FullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	resp, err := f.svc.CheckIn(ctx, b.ID, staff)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCheckedIn), resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, 9, resp.CheckInTime.Hour())

	resp, err = f.svc.AssignServices(ctx, b.ID, assignBathAndNails(), staff)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusProgressing), resp.Status)
	assert.Equal(t, 35.0, *resp.TotalPrice)

	// Повторная отправка заменяет набор
	resp, err = f.svc.AssignServices(ctx, b.ID, &models.AssignServicesRequest{
		Services: []models.ServiceSelectionRequest{{ServiceID: 10}},
	}, staff)
	require.NoError(t, err)
	assert.Equal(t, 25.0, *resp.TotalPrice)

	resp, err = f.svc.Complete(ctx, b.ID, &models.CompleteRequest{PaymentMode: ptr.Ptr(" cash ")}, staff)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	record, err := f.store.History().GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, record.Status)
	assert.Equal(t, "Central", record.LocationName)
	assert.Equal(t, "10:00", record.SlotStartTime)
	assert.Equal(t, "Table A", record.SubSlotLabel)
	assert.Equal(t, 25.0, record.TotalPrice)
	require.Len(t, record.Services, 1)
	assert.Equal(t, "Bath", record.Services[0].ServiceName)
	assert.Equal(t, "cash", *record.PaymentMode)
	require.NotNil(t, record.CheckInTime)

	_, err = f.svc.SubmitFeedback(ctx, b.ID, &models.FeedbackRequest{Rating: 5, Comment: " lovely "}, staff)
	require.NoError(t, err)

	record, err = f.store.History().GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, record.Feedback)
	assert.Equal(t, domain.Feedback{Rating: 5, Comment: "lovely"}, *record.Feedback)

	events := f.publisher.Events()
	require.Len(t, events, 5)
	for _, ev := range events {
		assert.Equal(t, feed.EventUpdated, ev.Type)
		assert.Equal(t, b.ID, ev.BookingID)
	}
	assert.Equal(t, domain.StatusCompleted, events[4].Status)
}

func TestService_ArchiveOnePerTerminalExcursion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	_, err := f.svc.AssignServices(ctx, b.ID, assignBathAndNails(), staff)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, b.ID, &models.CompleteRequest{}, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.HistoryCount(b.ID))

	resp, err := f.svc.Restore(ctx, b.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusProgressing), resp.Status)
	assert.Equal(t, 0, f.store.HistoryCount(b.ID))

	_, err = f.svc.Cancel(ctx, b.ID, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.HistoryCount(b.ID))

	record, err := f.store.History().GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, record.Status)
	assert.Equal(t, 35.0, record.TotalPrice)
}

func TestService_IllegalTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	_, err := f.svc.Complete(ctx, b.ID, &models.CompleteRequest{}, staff)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusReserved, transitionErr.From)
	assert.Equal(t, domain.EventComplete, transitionErr.Event)

	_, err = f.svc.SubmitFeedback(ctx, b.ID, &models.FeedbackRequest{Rating: 4}, staff)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = f.svc.Cancel(ctx, b.ID, staff)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, b.ID, staff)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = f.svc.CheckIn(ctx, b.ID, staff)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	assert.Equal(t, 1, f.store.HistoryCount(b.ID))
	assert.Len(t, f.publisher.Events(), 1)
}

func TestService_AccessControl(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	_, err := f.svc.CheckIn(ctx, b.ID, other)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Cancel(ctx, b.ID, staff)
	require.NoError(t, err)

	_, err = f.svc.Restore(ctx, b.ID, staff)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	_, err = f.svc.CheckIn(ctx, 999, admin)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Restore_SlotTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.reserve(t)
	_, err := f.svc.Cancel(ctx, cancelled.ID, staff)
	require.NoError(t, err)

	// Освободившийся под-слот занял другой клиент
	f.reserve(t)

	_, err = f.svc.Restore(ctx, cancelled.ID, admin)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Транзакция откатилась: архивная запись на месте, статус прежний
	assert.Equal(t, 1, f.store.HistoryCount(cancelled.ID))
	stored, err := f.store.Bookings().GetByID(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 1, f.store.ActiveBookingsFor(f.template.SubSlots[0].ID, bookingDate))
}

func TestService_Restore_OrphanedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	_, err := f.svc.CheckIn(ctx, b.ID, staff)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, b.ID, &models.CompleteRequest{}, staff)
	require.NoError(t, err)

	// Под-слоты шаблона пересоздаются, бронирование теряет ссылку
	_, err = f.store.Templates().ReplaceSubSlots(ctx, f.template.ID, domain.NumberSubSlots(f.template.ID, []*string{nil}))
	require.NoError(t, err)

	_, err = f.svc.Restore(ctx, b.ID, admin)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.store.HistoryCount(b.ID))

	record, err := f.store.History().GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Table A", record.SubSlotLabel)
}

func TestService_AssignServices_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.reserve(t)

	tests := []struct {
		name string
		req  *models.AssignServicesRequest
	}{
		{"empty", &models.AssignServicesRequest{}},
		{"duplicate", &models.AssignServicesRequest{Services: []models.ServiceSelectionRequest{{ServiceID: 10}, {ServiceID: 10}}}},
		{"not in catalog", &models.AssignServicesRequest{Services: []models.ServiceSelectionRequest{{ServiceID: 99}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AssignServices(ctx, b.ID, tt.req, staff)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, stored.Status)
}

func TestService_SubmitFeedback_Validation(t *testing.T) {
	f := newFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.SubmitFeedback(context.Background(), 1, &models.FeedbackRequest{Rating: rating}, staff)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
