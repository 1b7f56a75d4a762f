package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-ledger-service/internal/database"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

type categoryRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Code      int    `db:"code"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r categoryRow) toModel() (*model.Category, error) {
	created, err := database.ParseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &model.Category{
		BaseModel: model.BaseModel{ID: r.ID, CreatedAt: created, UpdatedAt: updated},
		Name:      r.Name,
		Code:      r.Code,
	}, nil
}

func toRow(c *model.Category) categoryRow {
	return categoryRow{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: database.FormatTime(c.CreatedAt),
		UpdatedAt: database.FormatTime(c.UpdatedAt),
	}
}

func (r *SQLRepository) Save(ctx context.Context, c *model.Category) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
        INSERT INTO categories (id, name, code, created_at, updated_at)
        VALUES (:id, :name, :code, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, toRow(c)); err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	return c.ID, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var row categoryRow
	query := r.DB.Rebind(`SELECT id, name, code, created_at, updated_at FROM categories WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("category", id)
		}
		return nil, fmt.Errorf("select category: %w", err)
	}
	return row.toModel()
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	var rows []categoryRow
	if err := r.DB.SelectContext(ctx, &rows, `SELECT id, name, code, created_at, updated_at FROM categories ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	query := `UPDATE categories SET name = :name, code = :code, updated_at = :updated_at WHERE id = :id`
	res, err := r.DB.NamedExecContext(ctx, query, toRow(c))
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectOneRow(res, c.ID)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NewNotFoundError("category", id)
	}
	return nil
}
