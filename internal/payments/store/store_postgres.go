package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alex-byteai/bola-security-demo/internal/payments/models"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

// PostgresPaymentStore persists payments in the payments table.
type PostgresPaymentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentStore(pool *pgxpool.Pool) *PostgresPaymentStore {
	return &PostgresPaymentStore{pool: pool}
}

const paymentColumns = `id, user_id, order_id, amount, bank_account, routing_number, status, created_at`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.OrderID, &p.Amount,
		&p.BankAccount, &p.RoutingNumber, &p.Status, &p.CreatedAt)
	return p, err
}

func (s *PostgresPaymentStore) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Payment{}, dErrors.New(dErrors.CodeNotFound, "payment not found")
	}
	if err != nil {
		return models.Payment{}, dErrors.Wrap(dErrors.CodeInternal, "query payment", err)
	}
	return p, nil
}

func (s *PostgresPaymentStore) OwnerOf(ctx context.Context, id int64) (int64, bool, error) {
	var ownerID int64
	err := s.pool.QueryRow(ctx, `SELECT user_id FROM payments WHERE id = $1`, id).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dErrors.Wrap(dErrors.CodeInternal, "query payment owner", err)
	}
	return ownerID, true, nil
}

func (s *PostgresPaymentStore) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list payments", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *PostgresPaymentStore) ListAll(ctx context.Context, limit, offset int) ([]models.Payment, int, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "list payments", err)
	}
	defer rows.Close()

	page, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "count payments", err)
	}
	return page, total, nil
}

func (s *PostgresPaymentStore) Create(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if payment.Status == "" {
		payment.Status = models.StatusPending
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO payments (user_id, order_id, amount, bank_account, routing_number, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		payment.UserID, payment.OrderID, payment.Amount,
		payment.BankAccount, payment.RoutingNumber, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return models.Payment{}, dErrors.Wrap(dErrors.CodeInternal, "insert payment", err)
	}
	return payment, nil
}

func collect(rows pgx.Rows) ([]models.Payment, error) {
	var out []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list payments", err)
	}
	return out, nil
}
