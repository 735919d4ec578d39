package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// requestCols is the canonical column order shared by every request query and
// scanRequest.
const requestCols = `id, requester_id, requester_name, character_name, category, item_name, quantity, material_cost_a, material_cost_b, status, crafter_id, crafter_name, created_at, claimed_at, completed_at`

func scanRequest(s interface{ Scan(dest ...any) error }) (*models.Request, error) {
	var req models.Request
	var status string
	var crafterID sql.NullInt64
	var crafterName sql.NullString
	var claimedAt, completedAt sql.NullInt64

	if err := s.Scan(
		&req.ID, &req.RequesterID, &req.RequesterName, &req.CharacterName,
		&req.Category, &req.ItemName, &req.Quantity,
		&req.MaterialCostA, &req.MaterialCostB, &status,
		&crafterID, &crafterName, &req.CreatedAt, &claimedAt, &completedAt,
	); err != nil {
		return nil, err
	}

	req.Status = models.RequestStatus(status)
	if crafterID.Valid {
		req.CrafterID = &crafterID.Int64
	}
	if crafterName.Valid {
		req.CrafterName = &crafterName.String
	}
	if claimedAt.Valid {
		req.ClaimedAt = &claimedAt.Int64
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Int64
	}

	return &req, nil
}

func (r *SQLiteRepo) listRequests(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, req)
	}

	return out, nil
}

func (r *SQLiteRepo) CreateRequest(ctx context.Context, req *models.Request) (int64, error) {
	if req == nil {
		return 0, fmt.Errorf("request is nil")
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO requests (requester_id, requester_name, character_name, category, item_name, quantity, material_cost_a, material_cost_b, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.RequesterID, req.RequesterName, req.CharacterName, req.Category, req.ItemName, req.Quantity, req.MaterialCostA, req.MaterialCostB, string(status), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) CreateRequests(ctx context.Context, reqs []*models.Request) ([]int64, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ts := now()
	ids := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		if req == nil {
			return nil, fmt.Errorf("request is nil")
		}

		status := req.Status
		if status == "" {
			status = models.StatusPending
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO requests (requester_id, requester_name, character_name, category, item_name, quantity, material_cost_a, material_cost_b, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			req.RequesterID, req.RequesterName, req.CharacterName, req.Category, req.ItemName, req.Quantity, req.MaterialCostA, req.MaterialCostB, string(status), ts)
		if err != nil {
			return nil, err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *SQLiteRepo) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+requestCols+` FROM requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return req, nil
}

func (r *SQLiteRepo) ListUserRequests(ctx context.Context, requesterID int64) ([]*models.Request, error) {
	return r.listRequests(ctx,
		`SELECT `+requestCols+` FROM requests WHERE requester_id = ? AND status IN ('pending', 'claimed') ORDER BY created_at DESC, id DESC`,
		requesterID)
}

func (r *SQLiteRepo) ListActiveRequests(ctx context.Context) ([]*models.Request, error) {
	return r.listRequests(ctx,
		`SELECT `+requestCols+` FROM requests WHERE status IN ('pending', 'claimed') ORDER BY created_at ASC, id ASC`)
}

func (r *SQLiteRepo) ListPendingRequests(ctx context.Context) ([]*models.Request, error) {
	return r.listRequests(ctx,
		`SELECT `+requestCols+` FROM requests WHERE status = 'pending' ORDER BY created_at ASC, id ASC`)
}

func (r *SQLiteRepo) ListClaimedBy(ctx context.Context, crafterID int64) ([]*models.Request, error) {
	return r.listRequests(ctx,
		`SELECT `+requestCols+` FROM requests WHERE crafter_id = ? AND status = 'claimed' ORDER BY claimed_at DESC, id DESC`,
		crafterID)
}

// CancelRequest flips pending -> cancelled when the caller owns the row. The
// ownership and status guard is part of the statement, so a concurrent claim
// or a second cancel simply reports zero rows.
func (r *SQLiteRepo) CancelRequest(ctx context.Context, id, requesterID int64) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE requests SET status = 'cancelled' WHERE id = ? AND requester_id = ? AND status = 'pending'`,
		id, requesterID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) UpdateRequest(ctx context.Context, id, requesterID int64, category, itemName string, quantity int, costA, costB int64) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE requests SET category = ?, item_name = ?, quantity = ?, material_cost_a = ?, material_cost_b = ? WHERE id = ? AND requester_id = ? AND status = 'pending'`,
		category, itemName, quantity, costA, costB, id, requesterID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// ClaimRequest is the compare-and-swap at the center of the lifecycle: the
// status guard and the crafter assignment are one statement, so under
// concurrent claims exactly one caller sees an affected row.
func (r *SQLiteRepo) ClaimRequest(ctx context.Context, id, crafterID int64, crafterName string) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE requests SET status = 'claimed', crafter_id = ?, crafter_name = ?, claimed_at = ? WHERE id = ? AND status = 'pending'`,
		crafterID, crafterName, now(), id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *SQLiteRepo) UnclaimRequest(ctx context.Context, id, crafterID int64) (bool, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE requests SET status = 'pending', crafter_id = NULL, crafter_name = NULL, claimed_at = NULL WHERE id = ? AND crafter_id = ? AND status = 'claimed'`,
		id, crafterID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// CompleteRequest finalizes a claimed row held by crafterID and returns it.
// (nil, nil) means the guard failed: not found, not claimed, or claimed by
// someone else.
func (r *SQLiteRepo) CompleteRequest(ctx context.Context, id, crafterID int64) (*models.Request, error) {
	res, err := r.conn.Exec(ctx,
		`UPDATE requests SET status = 'completed', completed_at = ? WHERE id = ? AND crafter_id = ? AND status = 'claimed'`,
		now(), id, crafterID)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	return r.GetRequest(ctx, id)
}

func (r *SQLiteRepo) ClearPendingRequests(ctx context.Context) (int64, error) {
	res, err := r.conn.Exec(ctx, `UPDATE requests SET status = 'cancelled' WHERE status = 'pending'`)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
