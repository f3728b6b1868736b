package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

type fixture struct {
	subSlotID int64
	notifier  *testutil.RecordingNotifier
	useCase   *createBooking.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	store.AddLocation(1, "Central")

	tmpl, err := store.Templates().Create(context.Background(), &domain.TimeTemplate{
		StartTime:       types.MustTimeString("10:00"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
		SubSlots:        domain.NumberSubSlots(0, []*string{ptr.Ptr("Table A")}),
	})
	require.NoError(t, err)

	notifier := &testutil.RecordingNotifier{}
	uc := createBooking.NewUseCase(store.Bookings(), store.Templates(), store.Catalog(), store.TxManager(),
		&testutil.RecordingPublisher{}, notifier, testutil.Metrics(), testutil.Logger())

	return &fixture{subSlotID: tmpl.SubSlots[0].ID, notifier: notifier, useCase: uc}
}

func (f *fixture) body(date string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"subSlotId":     f.subSlotID,
		"locationId":    1,
		"bookingDate":   date,
		"customerName":  "Anna",
		"contactNumber": "+79001234567",
		"petName":       "Rex",
		"petBreed":      "Pug",
	})
	return string(payload)
}

func post(h *Handler, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_PublicBooking(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.useCase, domain.SourceCustomer, testutil.Logger())

	rec := post(h, f.body("2024-06-10"), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reserved", resp.Status)
	assert.Equal(t, "customer", resp.Source)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "Table A", resp.SubSlotLabel)
	assert.Equal(t, []int64{resp.ID}, f.notifier.Sent())

	rec = post(h, f.body("2024-06-10"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_BadRequests(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.useCase, domain.SourceCustomer, testutil.Logger())

	assert.Equal(t, http.StatusBadRequest, post(h, "{", nil).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, `{"subSlotId":1}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, post(h, f.body("10.06.2024"), nil).Code)
}

func TestHandler_StaffBookingRequiresLocationAccess(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.useCase, domain.SourceStaff, testutil.Logger())

	assert.Equal(t, http.StatusUnauthorized, post(h, f.body("2024-06-10"), nil).Code)

	other := domain.Actor{UserID: "s2", Role: domain.RoleStaff, LocationIDs: []int64{2}}
	assert.Equal(t, http.StatusForbidden, post(h, f.body("2024-06-10"), &other).Code)

	staff := domain.Actor{UserID: "s1", Role: domain.RoleStaff, LocationIDs: []int64{1}}
	rec := post(h, f.body("2024-06-10"), &staff)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"staff"`)
	assert.Empty(t, f.notifier.Sent())
}
