package check_in_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

func setup(t *testing.T) (*mux.Router, int64) {
	t.Helper()

	store := testutil.NewStore()
	store.AddLocation(1, "Central")

	tmpl, err := store.Templates().Create(context.Background(), &domain.TimeTemplate{
		StartTime:       types.MustTimeString("10:00"),
		AppliesEveryDay: true,
		LocationIDs:     []int64{1},
		SubSlots:        domain.NumberSubSlots(0, []*string{nil}),
	})
	require.NoError(t, err)

	b, err := store.Bookings().Create(context.Background(), &domain.Booking{
		CustomerName:  "Anna",
		ContactNumber: "+79001234567",
		PetName:       "Rex",
		PetBreed:      "Pug",
		BookingDate:   testutil.Date(2024, 6, 10),
		SubSlotID:     tmpl.SubSlots[0].ID,
		LocationID:    1,
		Status:        domain.StatusReserved,
		Source:        domain.SourceStaff,
	})
	require.NoError(t, err)

	svc := lifecycle.NewService(store.Bookings(), store.History(), store.Templates(), store.Catalog(),
		store.TxManager(), &testutil.RecordingPublisher{}, testutil.Metrics(), testutil.Logger())

	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/check-in", NewHandler(svc, testutil.Logger()).Handle).Methods(http.MethodPost)
	return r, b.ID
}

func checkIn(r http.Handler, path string, actor domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CheckIn(t *testing.T) {
	r, id := setup(t)
	staff := domain.Actor{UserID: "s1", Role: domain.RoleStaff, LocationIDs: []int64{1}}
	path := fmt.Sprintf("/bookings/%d/check-in", id)

	rec := checkIn(r, path, staff)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"checked_in"`)

	// повторный check-in недопустим, в ответе текущий статус
	rec = checkIn(r, path, staff)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "checked_in", body.CurrentStatus)
}

func TestHandler_CheckIn_Errors(t *testing.T) {
	r, id := setup(t)

	other := domain.Actor{UserID: "s2", Role: domain.RoleStaff, LocationIDs: []int64{2}}
	assert.Equal(t, http.StatusForbidden, checkIn(r, fmt.Sprintf("/bookings/%d/check-in", id), other).Code)

	admin := domain.Actor{UserID: "a", Role: domain.RoleAdmin}
	assert.Equal(t, http.StatusNotFound, checkIn(r, "/bookings/999/check-in", admin).Code)
	assert.Equal(t, http.StatusBadRequest, checkIn(r, "/bookings/abc/check-in", admin).Code)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/bookings/%d/check-in", id), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
