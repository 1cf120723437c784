package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores receipts of bookings accepted by the hotel API.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, bookingID string) (*Receipt, error)
	List(ctx context.Context, filter Filter) ([]*Receipt, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var receiptColumns = []string{
	"booking_id", "user_id", "email", "phone_number", "check_in", "check_out",
	"booking_days", "total_price", "deposit_amount", "rooms", "created_at",
}

func (r *pgxRepository) Create(ctx context.Context, rc *Receipt) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booking_receipts").
		Columns(
			"booking_id", "user_id", "email", "phone_number", "check_in", "check_out",
			"booking_days", "total_price", "deposit_amount", "rooms",
		).
		Values(
			rc.BookingID, rc.UserID, rc.Email, rc.PhoneNumber, rc.CheckIn, rc.CheckOut,
			rc.BookingDays, rc.TotalPrice, rc.DepositAmount, rc.Rooms,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create receipt query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rc.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrReceiptExists
		}
		return fmt.Errorf("create receipt failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, bookingID string) (*Receipt, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(receiptColumns...).
		From("public.booking_receipts").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get receipt query failed: %w", err)
	}

	var rc Receipt
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rc.BookingID, &rc.UserID, &rc.Email, &rc.PhoneNumber, &rc.CheckIn, &rc.CheckOut,
		&rc.BookingDays, &rc.TotalPrice, &rc.DepositAmount, &rc.Rooms, &rc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get receipt failed: %w", err)
	}
	return &rc, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Receipt, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(receiptColumns, "count(*) OVER() as total_count")...).
		From("public.booking_receipts")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.CheckIn != nil {
		query = query.Where(squirrel.GtOrEq{"check_in": *filter.CheckIn})
	}

	// Sorting
	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list receipts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts failed: %w", err)
	}
	defer rows.Close()

	var receipts []*Receipt
	var total int

	for rows.Next() {
		var rc Receipt
		if err := rows.Scan(
			&rc.BookingID, &rc.UserID, &rc.Email, &rc.PhoneNumber, &rc.CheckIn, &rc.CheckOut,
			&rc.BookingDays, &rc.TotalPrice, &rc.DepositAmount, &rc.Rooms, &rc.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan receipt failed: %w", err)
		}
		receipts = append(receipts, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate receipts failed: %w", err)
	}

	return receipts, total, nil
}
