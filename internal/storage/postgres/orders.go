package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, user_id, user_email, user_name, food_name, category, food_type, quantity, price,
                      table_number, chair_indices, contact_number, status, payment_status, payment_method,
                      created_at, updated_at`

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		method string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.UserEmail, &o.UserName, &o.FoodName, &o.Category, &o.FoodType, &o.Quantity, &o.Price,
		&o.TableNumber, &o.ChairIndices, &o.ContactNumber, &o.Status, &o.PaymentStatus, &method,
		&o.CreatedAt, &o.UpdatedAt,
	)
	o.PaymentMethod = model.PaymentMethod(method)
	return o, err
}

// Create inserts a checkout inside one transaction so either every line lands or none does.
func (r *orderRepository) Create(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	const query = `INSERT INTO orders (id, user_id, user_email, user_name, food_name, category, food_type, quantity, price,
                                      table_number, chair_indices, contact_number, status, payment_status, payment_method)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
                   RETURNING created_at, updated_at`

	created := make([]model.Order, 0, len(orders))
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, o := range orders {
			chairs := o.ChairIndices
			if chairs == nil {
				chairs = []int32{}
			}
			err := tx.QueryRow(ctx, query,
				o.ID, o.UserID, o.UserEmail, o.UserName, o.FoodName, o.Category, o.FoodType, o.Quantity, o.Price,
				o.TableNumber, chairs, o.ContactNumber, string(o.Status), string(o.PaymentStatus), string(o.PaymentMethod),
			).Scan(&o.CreatedAt, &o.UpdatedAt)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return domainErrors.ErrAlreadyExists
				}
				return fmt.Errorf("insert order %s: %w", o.ID, err)
			}
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List mirrors model.Order.BelongsTo: id match wins, email is the fallback for orders without an id.
func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case filter.UserID != "" && filter.UserEmail != "":
		conditions = append(conditions, fmt.Sprintf("((user_id <> '' AND user_id = %s) OR (user_id = '' AND lower(user_email) = lower(%s)))",
			arg(filter.UserID), arg(filter.UserEmail)))
	case filter.UserID != "":
		conditions = append(conditions, "user_id = "+arg(filter.UserID))
	case filter.UserEmail != "":
		conditions = append(conditions, "lower(user_email) = lower("+arg(filter.UserEmail)+")")
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "status <> "+arg(string(model.OrderStatusCompleted)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies non-nil fields; concurrent writers race and the last one wins.
func (r *orderRepository) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	query := `UPDATE orders
              SET status = COALESCE($2, status),
                  payment_status = COALESCE($3, payment_status),
                  payment_method = COALESCE($4, payment_method),
                  updated_at = NOW()
              WHERE id=$1
              RETURNING ` + orderColumns

	o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id,
		optString(update.Status), optString(update.PaymentStatus), optString(update.PaymentMethod)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func optString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
