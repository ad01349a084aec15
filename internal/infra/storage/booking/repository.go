package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"b.id",
	"b.user_id",
	"b.booking_date",
	"b.start_time",
	"b.end_time",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий бронирований и связующих таблиц
// booking_timeslot_links / user_timeslot_links
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет строку бронирования и заполняет сгенерированный ID.
// Связи со слотами не создаются.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("user_id", "booking_date", "start_time", "end_time").
		Values(booking.UserID, booking.Date.Format(domain.DateFormat), booking.StartTime, booking.EndTime).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// LinkSlot связывает бронирование со слотом
func (r *Repository) LinkSlot(ctx context.Context, bookingID, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_timeslot_links").
		Columns("booking_id", "timeslot_id").
		Values(bookingID, slotID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkSlot - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LinkSlot - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// AddVisitor записывает пользователя в слот, только если в слоте меньше capacity
// посетителей и пользователя там еще нет. Иначе ErrSlotFull.
func (r *Repository) AddVisitor(ctx context.Context, userID, slotID int64, capacity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// вложенный select строится с "?", плейсхолдеры перенумеровывает внешний builder
	guarded := squirrel.Select().
		Column("?::bigint", userID).
		Column("?::bigint", slotID).
		Where(squirrel.Expr(
			"(SELECT COUNT(*) FROM user_timeslot_links WHERE timeslot_id = ?) < ?",
			slotID, capacity,
		))

	query, args, err := psqlbuilder.Insert("user_timeslot_links").
		Columns("user_id", "timeslot_id").
		Select(guarded).
		Suffix("ON CONFLICT (user_id, timeslot_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddVisitor - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AddVisitor - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AddVisitor - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: slot_id=%d, user_id=%d", ErrSlotFull, slotID, userID)
	}

	return nil
}

// GetLinkedSlotIDs возвращает ID слотов бронирования
func (r *Repository) GetLinkedSlotIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("timeslot_id").
		From("booking_timeslot_links").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("timeslot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLinkedSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLinkedSlotIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetLinkedSlotIDs - scan timeslot_id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLinkedSlotIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// UnlinkSlots удаляет все связи бронирования со слотами
func (r *Repository) UnlinkSlots(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_timeslot_links").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UnlinkSlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UnlinkSlots - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// RemoveVisitor выписывает пользователя из перечисленных слотов
func (r *Repository) RemoveVisitor(ctx context.Context, userID int64, slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("user_timeslot_links").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"timeslot_id": slotIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveVisitor - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveVisitor - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет строку бронирования
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// GetByIDAndUser получает бронирование, принадлежащее пользователю.
// Чужое или несуществующее бронирование -> ErrBookingNotFound.
func (r *Repository) GetByIDAndUser(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id, "b.user_id": userID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAndUser - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAndUser - scan booking: %v", ErrScanRow, err)
	}

	if err := r.loadSlots(ctx, executor, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByUserID получает бронирования пользователя (новые сначала)
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.booking_date DESC", "b.start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByUserID", query, args)
}

// GetByFilter получает бронирования с необязательными фильтрами
// по владельцу (telegram_id) и дате
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b")

	if filter.TelegramID != nil {
		selectBuilder = selectBuilder.
			Join("users u ON u.id = b.user_id").
			Where(squirrel.Eq{"u.telegram_id": *filter.TelegramID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.booking_date": filter.Date.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.
		OrderBy("b.booking_date ASC", "b.start_time ASC", "b.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByFilter", query, args)
}

func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if err := r.loadSlots(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// loadSlots подгружает связанные слоты для списка бронирований одним запросом
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		b.Slots = make([]*domain.TimeSlot, 0)
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select(
		"l.booking_id",
		"t.id",
		"t.slot_date",
		"t.start_time",
		"t.end_time",
	).
		From("booking_timeslot_links l").
		Join("timeslots t ON t.id = l.timeslot_id").
		Where(squirrel.Eq{"l.booking_id": ids}).
		OrderBy("l.booking_id", "t.start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var slot domain.TimeSlot
		if err := rows.Scan(&bookingID, &slot.ID, &slot.Date, &slot.StartTime, &slot.EndTime); err != nil {
			return fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Slots = append(b.Slots, &slot)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
