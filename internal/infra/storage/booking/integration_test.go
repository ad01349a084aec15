//go:build integration

package booking_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/ledger"
	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/txmanager"
	"github.com/m04kA/SMC-TrainingBooking/pkg/types"
)

const (
	testDBUser     = "training"
	testDBPassword = "training"
	testDBName     = "training_test"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func dsn(host string, port nat.Port) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), testDBUser, testDBPassword, testDBName)
}

// startPostgres поднимает контейнер и применяет миграции
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testDBUser,
				"POSTGRES_PASSWORD": testDBPassword,
				"POSTGRES_DB":       testDBName,
			},
			WaitingFor: wait.ForSQL("5432/tcp", "postgres", dsn).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn(host, port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(20)

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_init.up.sql"))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(migration))
	require.NoError(t, err)

	return db
}

type fixture struct {
	db       *dbmetrics.DB
	tx       *txmanager.TransactionManager
	users    *user.Repository
	slots    *timeslot.Repository
	bookings *bookingRepo.Repository
	ledger   *ledger.Ledger
	date     time.Time
}

func newFixture(t *testing.T) *fixture {
	raw := startPostgres(t)
	db := dbmetrics.Wrap(raw, nil)
	tx := txmanager.NewTransactionManager(db, txmanager.WithRetries(10, 10*time.Millisecond))
	bookings := bookingRepo.NewRepository(db)

	return &fixture{
		db:       db,
		tx:       tx,
		users:    user.NewRepository(db),
		slots:    timeslot.NewRepository(db),
		bookings: bookings,
		ledger:   ledger.NewLedger(bookings, tx, domain.DefaultSlotCapacity, nopLogger{}),
		date:     time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) seedSlots(t *testing.T, date time.Time, from string, n int) []*domain.TimeSlot {
	t.Helper()

	slots := make([]*domain.TimeSlot, 0, n)
	cur := types.MustTimeString(from)
	for i := 0; i < n; i++ {
		slots = append(slots, &domain.TimeSlot{Date: date, StartTime: cur, EndTime: cur.AddMinutes(30)})
		cur = cur.AddMinutes(30)
	}

	_, err := f.slots.CreateBatch(context.Background(), slots)
	require.NoError(t, err)

	stored, err := f.slots.GetByDate(context.Background(), date)
	require.NoError(t, err)
	return stored
}

func (f *fixture) seedUser(t *testing.T, telegramID int64) *domain.User {
	t.Helper()

	u, err := f.users.Create(context.Background(), &domain.User{TelegramID: telegramID, FirstName: "Visitor"})
	require.NoError(t, err)
	return u
}

func TestIntegration_CreateBatchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stored := f.seedSlots(t, f.date, "09:00", 4)
	require.Len(t, stored, 4)

	again := make([]*domain.TimeSlot, 0, len(stored))
	for _, s := range stored {
		again = append(again, &domain.TimeSlot{Date: s.Date, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	inserted, err := f.slots.CreateBatch(ctx, again)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	slots, err := f.slots.GetByDate(ctx, f.date)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "09:00:00", slots[0].StartTime.String())
	assert.Equal(t, "11:00:00", slots[3].EndTime.String())
}

func TestIntegration_BookAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slots := f.seedSlots(t, f.date, "09:00", 3)
	u := f.seedUser(t, 1001)

	b := &domain.Booking{
		UserID:    u.ID,
		Date:      f.date,
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("10:30"),
	}
	require.NoError(t, f.ledger.Book(ctx, b, slots))

	stored, err := f.bookings.GetByIDAndUser(ctx, b.ID, u.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Slots, 3)

	fresh, err := f.slots.GetByDate(ctx, f.date)
	require.NoError(t, err)
	for _, s := range fresh {
		assert.Equal(t, []int64{u.ID}, s.Visitors)
	}

	// повторная запись того же пользователя в те же слоты невозможна
	dup := &domain.Booking{UserID: u.ID, Date: f.date, StartTime: b.StartTime, EndTime: b.EndTime}
	assert.ErrorIs(t, f.ledger.Book(ctx, dup, fresh), ledger.ErrSlotFull)

	require.NoError(t, f.ledger.RemoveBooking(ctx, stored))

	_, err = f.bookings.GetByIDAndUser(ctx, b.ID, u.ID)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)

	fresh, err = f.slots.GetByDate(ctx, f.date)
	require.NoError(t, err)
	for _, s := range fresh {
		assert.Empty(t, s.Visitors)
	}
}

func TestIntegration_ConcurrentBookingsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedSlots(t, f.date, "09:00", 3)

	const visitors = 8
	users := make([]*domain.User, 0, visitors)
	for i := 0; i < visitors; i++ {
		users = append(users, f.seedUser(t, int64(2000+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u *domain.User) {
			defer wg.Done()

			err := f.tx.DoSerializable(ctx, func(txCtx context.Context) error {
				slots, err := f.slots.GetByDate(txCtx, f.date)
				if err != nil {
					return err
				}
				return f.ledger.Book(txCtx, &domain.Booking{
					UserID:    u.ID,
					Date:      f.date,
					StartTime: types.MustTimeString("09:00"),
					EndTime:   types.MustTimeString("10:30"),
				}, slots)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	assert.Positive(t, succeeded)
	assert.LessOrEqual(t, succeeded, domain.DefaultSlotCapacity)

	slots, err := f.slots.GetByDate(ctx, f.date)
	require.NoError(t, err)
	for _, s := range slots {
		assert.LessOrEqual(t, len(s.Visitors), domain.DefaultSlotCapacity, "slot %d", s.ID)
		assert.Len(t, s.Visitors, succeeded)
	}

	var dupLinks int
	err = f.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT user_id, timeslot_id FROM user_timeslot_links
			GROUP BY user_id, timeslot_id HAVING COUNT(*) > 1
		) d`).Scan(&dupLinks)
	require.NoError(t, err)
	assert.Zero(t, dupLinks)
}

func TestIntegration_DeleteUnreferencedBefore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := f.date.AddDate(0, 0, -1)

	pastSlots := f.seedSlots(t, past, "09:00", 3)
	f.seedSlots(t, f.date, "09:00", 3)
	u := f.seedUser(t, 3001)

	b := &domain.Booking{
		UserID:    u.ID,
		Date:      past,
		StartTime: types.MustTimeString("09:00"),
		EndTime:   types.MustTimeString("09:30"),
	}
	require.NoError(t, f.ledger.Book(ctx, b, pastSlots[:1]))

	deleted, err := f.slots.DeleteUnreferencedBefore(ctx, f.date)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	left, err := f.slots.GetByDate(ctx, past)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, pastSlots[0].ID, left[0].ID)

	future, err := f.slots.GetByDate(ctx, f.date)
	require.NoError(t, err)
	assert.Len(t, future, 3)
}

func TestIntegration_GetByDateRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.date.AddDate(0, 0, 1)
	third := f.date.AddDate(0, 0, 2)

	f.seedSlots(t, f.date, "09:00", 2)
	f.seedSlots(t, third, "10:00", 2)
	f.seedSlots(t, second, "09:00", 3)

	slots, err := f.slots.GetByDateRange(ctx, f.date, second)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	got := make([]string, 0, len(slots))
	for _, s := range slots {
		got = append(got, s.Date.Format(domain.DateFormat)+" "+s.StartTime.String())
	}
	assert.Equal(t, []string{
		"2030-06-03 09:00:00",
		"2030-06-03 09:30:00",
		"2030-06-04 09:00:00",
		"2030-06-04 09:30:00",
		"2030-06-04 10:00:00",
	}, got)

	oneDay, err := f.slots.GetByDateRange(ctx, third, third)
	require.NoError(t, err)
	assert.Len(t, oneDay, 2)

	_, err = f.slots.GetByDateRange(ctx, third, f.date)
	assert.ErrorIs(t, err, timeslot.ErrInvalidRange)
}
