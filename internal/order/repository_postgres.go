package order

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(rc Receipt) (Receipt, error) {
	linesJSON, err := json.Marshal(rc.Lines)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "encode receipt lines")
	}

	_, err = r.db.Exec(`INSERT INTO orders ("orderId", "userId", lines, quantity, subtotal, status, "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rc.OrderID, rc.UserID, linesJSON, rc.Quantity, rc.Subtotal, rc.Status, rc.CreatedAt)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "insert order")
	}
	return rc, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Receipt, error) {
	rows, err := r.db.Query(`SELECT "orderId", "userId", lines, quantity, subtotal, status, "createdAt"
		FROM orders
		WHERE "userId" = $1
		ORDER BY "createdAt"`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	out := make([]Receipt, 0)
	for rows.Next() {
		var rc Receipt
		var linesJSON []byte
		if err := rows.Scan(&rc.OrderID, &rc.UserID, &linesJSON, &rc.Quantity, &rc.Subtotal, &rc.Status, &rc.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		if err := json.Unmarshal(linesJSON, &rc.Lines); err != nil {
			return nil, errors.Wrapf(err, "decode lines of order %s", rc.OrderID)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
