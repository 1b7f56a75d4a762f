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

const productColumns = `id, name, code, cost_price, sale_price, last_sale_price, supplier, description, stock, created_at, updated_at`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

type productRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Code          int            `db:"code"`
	CostPrice     string         `db:"cost_price"`
	SalePrice     string         `db:"sale_price"`
	LastSalePrice sql.NullString `db:"last_sale_price"`
	Supplier      string         `db:"supplier"`
	Description   string         `db:"description"`
	Stock         int            `db:"stock"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func toRow(p *model.Product) productRow {
	return productRow{
		ID:            p.ID,
		Name:          p.Name,
		Code:          p.Code,
		CostPrice:     p.CostPrice.String(),
		SalePrice:     p.SalePrice.String(),
		LastSalePrice: database.NullDecimal(p.LastSalePrice),
		Supplier:      p.Supplier,
		Description:   p.Description,
		Stock:         p.Stock,
		CreatedAt:     database.FormatTime(p.CreatedAt),
		UpdatedAt:     database.FormatTime(p.UpdatedAt),
	}
}

func (r productRow) toModel() (*model.Product, error) {
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: r.ID},
		Name:        r.Name,
		Code:        r.Code,
		Supplier:    r.Supplier,
		Description: r.Description,
		Stock:       r.Stock,
	}
	var err error
	if p.CostPrice, err = database.ParseDecimal(r.CostPrice); err != nil {
		return nil, err
	}
	if p.SalePrice, err = database.ParseDecimal(r.SalePrice); err != nil {
		return nil, err
	}
	if p.LastSalePrice, err = database.ParseNullDecimal(r.LastSalePrice); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = database.ParseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = database.ParseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLRepository) Save(ctx context.Context, p *model.Product) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES (
            :id, :name, :code, :cost_price, :sale_price, :last_sale_price,
            :supplier, :description, :stock, :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, toRow(p)); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var row productRow
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)
	if err := r.DB.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("product", id)
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return row.toModel()
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            code = :code,
            cost_price = :cost_price,
            sale_price = :sale_price,
            last_sale_price = :last_sale_price,
            supplier = :supplier,
            description = :description,
            stock = :stock,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, toRow(p))
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOneRow(res, p.ID)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NewNotFoundError("product", id)
	}
	return nil
}
