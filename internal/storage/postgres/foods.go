package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type foodRepository struct {
	storage *Storage
}

func (r *foodRepository) Create(ctx context.Context, food model.Food) (*model.Food, error) {
	const query = `INSERT INTO foods (id, name, category, food_type, price, image_url, available)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		food.ID, food.Name, food.Category, food.Type, food.Price, food.ImageURL, food.Available,
	).Scan(&food.CreatedAt, &food.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) Update(ctx context.Context, food model.Food) (*model.Food, error) {
	const query = `UPDATE foods
                   SET name=$2, category=$3, food_type=$4, price=$5, image_url=$6, available=$7, updated_at=NOW()
                   WHERE id=$1
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		food.ID, food.Name, food.Category, food.Type, food.Price, food.ImageURL, food.Available,
	).Scan(&food.CreatedAt, &food.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM foods WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *foodRepository) List(ctx context.Context) ([]model.Food, error) {
	const query = `SELECT id, name, category, food_type, price, image_url, available, created_at, updated_at
                   FROM foods ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Food
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.Type, &f.Price, &f.ImageURL, &f.Available, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
