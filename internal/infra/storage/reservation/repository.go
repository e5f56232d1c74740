package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/dbmetrics"
	"github.com/courtbook/booking-engine/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL: нарушение ограничения уникальности
const pgUniqueViolation = "23505"

var reservationColumns = []string{
	"id",
	"organisation_id",
	"resource_id",
	"user_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"source",
	"cancellation_reason",
	"cancelled_at",
	"amount_pence",
	"price_band",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований. Он же - индекс конфликтов:
// частичный уникальный индекс (resource_id, booking_date, start_time)
// WHERE status = 'confirmed' закрывает гонку одновременных запросов на один слот
// на уровне коммита, а не предварительной проверки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает подтвержденное бронирование
// Атомарно: либо вставка прошла без пересечений, либо возвращается ErrSlotTaken.
// Вызывается внутри SERIALIZABLE транзакции (create_booking usecase), где
// пересечения с другим временем старта ловит изоляция, а совпадающее время
// старта - ограничение уникальности
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"organisation_id",
			"resource_id",
			"user_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"source",
			"amount_pence",
			"price_band",
		).
		Values(
			res.OrganisationID,
			res.ResourceID,
			res.UserID,
			res.BookingDate,
			res.StartTime,
			res.EndTime,
			res.DurationMinutes,
			res.Status,
			res.Source,
			res.AmountPence,
			res.PriceBand,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// CreateBatch создает набор бронирований одной пачкой
// Вызывается только внутри транзакции коммита аллокации: либо все слоты
// становятся подтвержденными бронированиями, либо ни один
func (r *Repository) CreateBatch(ctx context.Context, reservations []*domain.Reservation) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: CreateBatch requires an active transaction", ErrTransaction)
	}

	for _, res := range reservations {
		if _, err := r.Create(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetForResourceAndDate получает подтвержденные бронирования корта на дату
// Внутри транзакции строки блокируются (FOR UPDATE) - используется usecase
// создания бронирования для проверки пересечений
func (r *Repository) GetForResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{
			"resource_id":  resourceID,
			"booking_date": date,
			"status":       domain.StatusConfirmed,
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForResourceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetForResourceAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByUserID получает бронирования участника, опционально по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetWithFilter получает бронирования организации с гибкой фильтрацией
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"organisation_id": filter.OrganisationID})

	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC, start_time ASC, resource_id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CountFutureConfirmed считает будущие подтвержденные бронирования участника
// Используется правилом max_concurrent
func (r *Repository) CountFutureConfirmed(ctx context.Context, userID int64, fromDate time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(id)").
		From("reservations").
		Where(squirrel.Eq{
			"user_id": userID,
			"status":  domain.StatusConfirmed,
		}).
		Where(squirrel.GtOrEq{"booking_date": fromDate}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountFutureConfirmed - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountFutureConfirmed - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// SumConfirmedMinutes суммирует минуты подтвержденных бронирований участника на дату
// Используется правилом max_daily_minutes (минуты, а не количество бронирований)
func (r *Repository) SumConfirmedMinutes(ctx context.Context, userID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(duration_minutes), 0)").
		From("reservations").
		Where(squirrel.Eq{
			"user_id":      userID,
			"booking_date": date,
			"status":       domain.StatusConfirmed,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumConfirmedMinutes - build select query: %v", ErrBuildQuery, err)
	}

	var minutes int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("%w: SumConfirmedMinutes - scan sum: %v", ErrScanRow, err)
	}

	return minutes, nil
}

// Cancel мягко отменяет бронирование (переводит статус, историю сохраняем)
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusConfirmed,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// scanReservation сканирует одну строку в бронирование
func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.OrganisationID,
		&res.ResourceID,
		&res.UserID,
		&res.BookingDate,
		&res.StartTime,
		&res.EndTime,
		&res.DurationMinutes,
		&res.Status,
		&res.Source,
		&res.CancellationReason,
		&res.CancelledAt,
		&res.AmountPence,
		&res.PriceBand,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.OrganisationID,
			&res.ResourceID,
			&res.UserID,
			&res.BookingDate,
			&res.StartTime,
			&res.EndTime,
			&res.DurationMinutes,
			&res.Status,
			&res.Source,
			&res.CancellationReason,
			&res.CancelledAt,
			&res.AmountPence,
			&res.PriceBand,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// isUniqueViolation проверяет нарушение ограничения уникальности PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}
