package sqlite

import (
	"context"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// windowClause appends the half-open [start, end) bounds to a WHERE clause.
// A nil bound leaves that side unbounded.
func windowClause(col string, start, end *int64) (string, []any) {
	clause := ""
	var args []any
	if start != nil {
		clause += " AND " + col + " >= ?"
		args = append(args, *start)
	}
	if end != nil {
		clause += " AND " + col + " < ?"
		args = append(args, *end)
	}

	return clause, args
}

func (r *SQLiteRepo) ListCompleted(ctx context.Context, start, end *int64) ([]*models.Request, error) {
	clause, args := windowClause("completed_at", start, end)
	return r.listRequests(ctx,
		`SELECT `+requestCols+` FROM requests WHERE status = 'completed'`+clause+` ORDER BY completed_at DESC, id DESC`,
		args...)
}

func (r *SQLiteRepo) TotalsByRequester(ctx context.Context, start, end *int64) ([]*models.RequesterTotals, error) {
	clause, args := windowClause("completed_at", start, end)
	rows, err := r.conn.QueryRows(ctx,
		`SELECT requester_id, MAX(requester_name), MAX(character_name), COUNT(*), SUM(quantity) AS total_quantity, SUM(material_cost_a), SUM(material_cost_b)
		 FROM requests WHERE status = 'completed'`+clause+`
		 GROUP BY requester_id ORDER BY total_quantity DESC, requester_id ASC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RequesterTotals
	for rows.Next() {
		var t models.RequesterTotals
		if err := rows.Scan(&t.RequesterID, &t.RequesterName, &t.CharacterName, &t.Requests, &t.TotalQuantity, &t.TotalCostA, &t.TotalCostB); err != nil {
			return nil, err
		}

		out = append(out, &t)
	}

	return out, nil
}

func (r *SQLiteRepo) TotalsByCrafter(ctx context.Context, start, end *int64) ([]*models.CrafterTotals, error) {
	clause, args := windowClause("completed_at", start, end)
	rows, err := r.conn.QueryRows(ctx,
		`SELECT crafter_id, MAX(crafter_name), COUNT(*), SUM(quantity) AS total_quantity, SUM(material_cost_a), SUM(material_cost_b)
		 FROM requests WHERE status = 'completed' AND crafter_id IS NOT NULL`+clause+`
		 GROUP BY crafter_id ORDER BY total_quantity DESC, crafter_id ASC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CrafterTotals
	for rows.Next() {
		var t models.CrafterTotals
		if err := rows.Scan(&t.CrafterID, &t.CrafterName, &t.Requests, &t.TotalQuantity, &t.TotalCostA, &t.TotalCostB); err != nil {
			return nil, err
		}

		out = append(out, &t)
	}

	return out, nil
}

func (r *SQLiteRepo) TotalsByItem(ctx context.Context, start, end *int64) ([]*models.ItemTotals, error) {
	clause, args := windowClause("completed_at", start, end)
	rows, err := r.conn.QueryRows(ctx,
		`SELECT category, item_name, COUNT(*), SUM(quantity) AS total_quantity, SUM(material_cost_a), SUM(material_cost_b)
		 FROM requests WHERE status = 'completed'`+clause+`
		 GROUP BY category, item_name ORDER BY total_quantity DESC, category ASC, item_name ASC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ItemTotals
	for rows.Next() {
		var t models.ItemTotals
		if err := rows.Scan(&t.Category, &t.ItemName, &t.Requests, &t.TotalQuantity, &t.TotalCostA, &t.TotalCostB); err != nil {
			return nil, err
		}

		out = append(out, &t)
	}

	return out, nil
}

func (r *SQLiteRepo) MaterialTotals(ctx context.Context, start, end *int64) (*models.MaterialTotals, error) {
	clause, args := windowClause("completed_at", start, end)
	row := r.conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(material_cost_a), 0), COALESCE(SUM(material_cost_b), 0)
		 FROM requests WHERE status = 'completed'`+clause,
		args...)

	var t models.MaterialTotals
	if err := row.Scan(&t.Requests, &t.TotalQuantity, &t.TotalCostA, &t.TotalCostB); err != nil {
		return nil, err
	}

	return &t, nil
}
