package create_booking

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
)

// newSQLUseCase собирает use case с настоящими репозиторием бронирований и менеджером транзакций
func newSQLUseCase(t *testing.T, f *fixture, db *testutil.ScriptedDB) *UseCase {
	t.Helper()

	sqlDB := db.Open()
	t.Cleanup(func() { _ = sqlDB.Close() })
	wrapped := dbmetrics.Wrap(sqlDB, nil)

	return NewUseCase(bookingRepo.NewRepository(wrapped), f.store.Templates(), f.store.Catalog(),
		txmanager.NewTransactionManager(wrapped), f.publisher, f.notifier, testutil.Metrics(), testutil.Logger())
}

func TestUseCase_Execute_RetriesSerializationFailure(t *testing.T) {
	f := newFixture(t, dailyTemplate())
	db := testutil.NewScriptedDB(&pq.Error{Code: "40001"})
	uc := newSQLUseCase(t, f, db)

	resp, err := uc.Execute(context.Background(), request(f.template.SubSlots[0].ID))
	require.NoError(t, err)

	assert.Equal(t, 2, db.Begins())
	assert.Equal(t, 2, db.Inserts())
	assert.NotZero(t, resp.Booking.ID)
	assert.Len(t, f.publisher.Events(), 1)
}

func TestUseCase_Execute_RetryEndsInSlotConflict(t *testing.T) {
	f := newFixture(t, dailyTemplate())
	// Первая попытка конфликтует при сериализации, на повторе параллельная бронь уже зафиксирована
	db := testutil.NewScriptedDB(
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "23505", Constraint: "bookings_active_slot_uidx"},
	)
	uc := newSQLUseCase(t, f, db)

	_, err := uc.Execute(context.Background(), request(f.template.SubSlots[0].ID))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)

	assert.Equal(t, 2, db.Begins())
	assert.Empty(t, f.publisher.Events())
	assert.Empty(t, f.notifier.Sent())
}

func TestUseCase_Execute_SerializationFailureExhaustsRetries(t *testing.T) {
	f := newFixture(t, dailyTemplate())
	db := testutil.NewScriptedDB(
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
	)
	uc := newSQLUseCase(t, f, db)

	_, err := uc.Execute(context.Background(), request(f.template.SubSlots[0].ID))
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, txmanager.IsSerializationFailure(err))
	assert.Equal(t, txmanager.DefaultSerializableRetries, db.Begins())
}
