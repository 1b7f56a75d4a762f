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

// SQLRepository stores the header in transactions and the ordered lines in
// transaction_items. Each call writes both inside one database transaction.
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

type transactionRow struct {
	ID          string `db:"id"`
	Type        string `db:"type"`
	Description string `db:"description"`
	Value       string `db:"value"`
	Discount    string `db:"discount"`
	Date        string `db:"date"`
}

type itemRow struct {
	TransactionID string `db:"transaction_id"`
	Position      int    `db:"position"`
	ProductID     string `db:"product_id"`
	Name          string `db:"name"`
	Quantity      int    `db:"quantity"`
	UnitPrice     string `db:"unit_price"`
}

func (r transactionRow) toModel(items []itemRow) (*model.Transaction, error) {
	tx := &model.Transaction{
		ID:          r.ID,
		Type:        model.TransactionType(r.Type),
		Description: r.Description,
	}
	var err error
	if tx.Value, err = database.ParseDecimal(r.Value); err != nil {
		return nil, err
	}
	if tx.Discount, err = database.ParseDecimal(r.Discount); err != nil {
		return nil, err
	}
	if tx.Date, err = database.ParseTime(r.Date); err != nil {
		return nil, err
	}
	for _, it := range items {
		price, err := database.ParseDecimal(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		tx.Items = append(tx.Items, model.TransactionItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
	}
	return tx, nil
}

func toRows(tx *model.Transaction) (transactionRow, []itemRow) {
	row := transactionRow{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Description: tx.Description,
		Value:       tx.Value.String(),
		Discount:    tx.Discount.String(),
		Date:        database.FormatTime(tx.Date),
	}
	items := make([]itemRow, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemRow{
			TransactionID: tx.ID,
			Position:      i,
			ProductID:     it.ProductID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice.String(),
		}
	}
	return row, items
}

const (
	insertTransaction = `
        INSERT INTO transactions (id, type, description, value, discount, date)
        VALUES (:id, :type, :description, :value, :discount, :date)
    `
	insertItem = `
        INSERT INTO transaction_items (transaction_id, position, product_id, name, quantity, unit_price)
        VALUES (:transaction_id, :position, :product_id, :name, :quantity, :unit_price)
    `
	selectTransactions = `SELECT id, type, description, value, discount, date FROM transactions`
	selectItems        = `SELECT transaction_id, position, product_id, name, quantity, unit_price FROM transaction_items`
)

func (r *SQLRepository) Save(ctx context.Context, tx *model.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	row, items := toRows(tx)

	err := r.inTx(ctx, func(dbTx *sqlx.Tx) error {
		if _, err := dbTx.NamedExecContext(ctx, insertTransaction, row); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return insertItems(ctx, dbTx, items)
	})
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var row transactionRow
	if err := r.DB.GetContext(ctx, &row, r.DB.Rebind(selectTransactions+` WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("transaction", id)
		}
		return nil, fmt.Errorf("select transaction: %w", err)
	}

	var items []itemRow
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(selectItems+` WHERE transaction_id = ? ORDER BY position`), id); err != nil {
		return nil, fmt.Errorf("select transaction items: %w", err)
	}
	return row.toModel(items)
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]model.Transaction, error) {
	var rows []transactionRow
	if err := r.DB.SelectContext(ctx, &rows, selectTransactions+` ORDER BY date, id`); err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	var items []itemRow
	if err := r.DB.SelectContext(ctx, &items, selectItems+` ORDER BY transaction_id, position`); err != nil {
		return nil, fmt.Errorf("select transaction items: %w", err)
	}

	byTx := make(map[string][]itemRow, len(rows))
	for _, it := range items {
		byTx[it.TransactionID] = append(byTx[it.TransactionID], it)
	}

	txs := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toModel(byTx[row.ID])
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, nil
}

func (r *SQLRepository) Update(ctx context.Context, tx *model.Transaction) error {
	row, items := toRows(tx)
	return r.inTx(ctx, func(dbTx *sqlx.Tx) error {
		query := `
            UPDATE transactions
            SET type = :type, description = :description, value = :value, discount = :discount, date = :date
            WHERE id = :id
        `
		res, err := dbTx.NamedExecContext(ctx, query, row)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := expectOneRow(res, tx.ID); err != nil {
			return err
		}
		if _, err := dbTx.ExecContext(ctx, dbTx.Rebind(`DELETE FROM transaction_items WHERE transaction_id = ?`), tx.ID); err != nil {
			return fmt.Errorf("delete transaction items: %w", err)
		}
		return insertItems(ctx, dbTx, items)
	})
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(dbTx *sqlx.Tx) error {
		if _, err := dbTx.ExecContext(ctx, dbTx.Rebind(`DELETE FROM transaction_items WHERE transaction_id = ?`), id); err != nil {
			return fmt.Errorf("delete transaction items: %w", err)
		}
		res, err := dbTx.ExecContext(ctx, dbTx.Rebind(`DELETE FROM transactions WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return expectOneRow(res, id)
	})
}

func (r *SQLRepository) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	dbTx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if err := fn(dbTx); err != nil {
		return err
	}
	return dbTx.Commit()
}

func insertItems(ctx context.Context, dbTx *sqlx.Tx, items []itemRow) error {
	for _, it := range items {
		if _, err := dbTx.NamedExecContext(ctx, insertItem, it); err != nil {
			return fmt.Errorf("insert transaction item %d: %w", it.Position, err)
		}
	}
	return nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NewNotFoundError("transaction", id)
	}
	return nil
}
