package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/quartermaster/pkg/models"
)

func (r *SQLiteRepo) CreateOperator(ctx context.Context, op *models.Operator) (int64, error) {
	if op == nil {
		return 0, fmt.Errorf("operator is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO operators (name, email, updated, password_hash) VALUES (?, ?, ?, ?)`, op.Name, op.Email, now(), op.PasswordHash)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetOperatorByID(ctx context.Context, id int64) (*models.Operator, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, updated, password_hash FROM operators WHERE id = ?`, id)
	var op models.Operator
	var pw sql.NullString
	if err := row.Scan(&op.ID, &op.Name, &op.Email, &op.Updated, &pw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		op.PasswordHash = pw.String
	}

	return &op, nil
}

func (r *SQLiteRepo) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, updated, password_hash FROM operators WHERE email = ?`, email)
	var op models.Operator
	var pw sql.NullString
	if err := row.Scan(&op.ID, &op.Name, &op.Email, &op.Updated, &pw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		op.PasswordHash = pw.String
	}

	return &op, nil
}
