package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"slot_date",
	"start_time",
	"end_time",
	"created_at",
}

// Repository хранилище сетки слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDate возвращает слоты на дату по возрастанию времени начала вместе с посетителями.
// Внутри транзакции строки слотов блокируются (FOR UPDATE): проверка вместимости
// и запись посетителя должны идти под одной блокировкой.
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("timeslots").
		Where(squirrel.Eq{"slot_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadVisitors(ctx, executor, slots); err != nil {
		return nil, err
	}

	return slots, nil
}

// GetByDateRange возвращает слоты за период [start, end] по дате и времени начала
func (r *Repository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.TimeSlot, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("timeslots").
		Where(squirrel.GtOrEq{"slot_date": start.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"slot_date": end.Format(domain.DateFormat)}).
		OrderBy("slot_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadVisitors(ctx, executor, slots); err != nil {
		return nil, err
	}

	return slots, nil
}

// CreateBatch вставляет слоты, пропуская уже существующие интервалы.
// Возвращает количество реально созданных строк.
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.TimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("timeslots").
		Columns("slot_date", "start_time", "end_time")
	for _, s := range slots {
		insertBuilder = insertBuilder.Values(s.Date.Format(domain.DateFormat), s.StartTime, s.EndTime)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (slot_date, start_time, end_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return int(inserted), nil
}

// DeleteUnreferencedBefore удаляет прошедшие слоты, на которые нет ни броней, ни посетителей
func (r *Repository) DeleteUnreferencedBefore(ctx context.Context, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("timeslots").
		Where(squirrel.Lt{"slot_date": date.Format(domain.DateFormat)}).
		Where("NOT EXISTS (SELECT 1 FROM booking_timeslot_links l WHERE l.timeslot_id = timeslots.id)").
		Where("NOT EXISTS (SELECT 1 FROM user_timeslot_links u WHERE u.timeslot_id = timeslots.id)").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnreferencedBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnreferencedBefore - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnreferencedBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// loadVisitors заполняет Visitors одним запросом по всем слотам
func (r *Repository) loadVisitors(ctx context.Context, executor DBExecutor, slots []*domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.TimeSlot, len(slots))
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := psqlbuilder.Select("timeslot_id", "user_id").
		From("user_timeslot_links").
		Where(squirrel.Eq{"timeslot_id": ids}).
		OrderBy("timeslot_id", "user_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadVisitors - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadVisitors - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID, userID int64
		if err := rows.Scan(&slotID, &userID); err != nil {
			return fmt.Errorf("%w: loadVisitors - scan row: %v", ErrScanRow, err)
		}
		if s, ok := byID[slotID]; ok {
			s.Visitors = append(s.Visitors, userID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadVisitors - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var s domain.TimeSlot
		var createdAt sql.NullTime

		if err := rows.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		s.Visitors = make([]int64, 0)
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
