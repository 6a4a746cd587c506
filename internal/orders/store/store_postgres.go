package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alex-byteai/bola-security-demo/internal/orders/models"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// PostgresOrderStore persists orders in the orders table.
type PostgresOrderStore struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderStore(pool *pgxpool.Pool) *PostgresOrderStore {
	return &PostgresOrderStore{pool: pool}
}

const orderColumns = `id, user_id, product, amount, status, credit_card, address, phone, created_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Product, &o.Amount, &o.Status,
		&o.CreditCard, &o.Address, &o.Phone, &o.CreatedAt)
	return o, err
}

func (s *PostgresOrderStore) GetByID(ctx context.Context, id int64) (models.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return models.Order{}, dErrors.Wrap(dErrors.CodeInternal, "query order", err)
	}
	return o, nil
}

func (s *PostgresOrderStore) OwnerOf(ctx context.Context, id int64) (int64, bool, error) {
	var ownerID int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM orders WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dErrors.Wrap(dErrors.CodeInternal, "query order owner", err)
	}
	return ownerID, true, nil
}

func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list orders", err)
	}
	defer rows.Close()

	var owned []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "scan order", err)
		}
		owned = append(owned, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list orders", err)
	}
	return owned, nil
}

func (s *PostgresOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, product, amount, status, credit_card, address, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		order.UserID, order.Product, order.Amount, order.Status,
		order.CreditCard, order.Address, order.Phone).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return models.Order{}, dErrors.Wrap(dErrors.CodeInternal, "insert order", err)
	}
	return order, nil
}

func (s *PostgresOrderStore) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "update order", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *PostgresOrderStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	return nil
}
