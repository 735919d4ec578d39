package sqlite_test

import (
	"context"
	"testing"

	dbpkg "github.com/garnizeh/quartermaster/internal/db"
)

type completedRow struct {
	requesterID   int64
	requesterName string
	characterName string
	crafterID     int64
	crafterName   string
	category      string
	itemName      string
	quantity      int
	costA, costB  int64
	completedAt   int64
}

// seedCompleted inserts finished rows with explicit timestamps so window
// tests are deterministic.
func seedCompleted(t *testing.T, d *dbpkg.DB, rows []completedRow) {
	t.Helper()
	ctx := context.Background()
	for _, r := range rows {
		if _, err := d.Exec(ctx,
			`INSERT INTO requests (requester_id, requester_name, character_name, category, item_name, quantity, material_cost_a, material_cost_b, status, crafter_id, crafter_name, created_at, claimed_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'completed', ?, ?, ?, ?, ?)`,
			r.requesterID, r.requesterName, r.characterName, r.category, r.itemName, r.quantity, r.costA, r.costB,
			r.crafterID, r.crafterName, r.completedAt-2, r.completedAt-1, r.completedAt); err != nil {
			t.Fatalf("seed insert error: %v", err)
		}
	}
}

func ptr(v int64) *int64 { return &v }

func TestListCompleted_Window(t *testing.T) {
	repo, d, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedCompleted(t, d, []completedRow{
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 1, 10, 20, 1000},
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 1, 10, 20, 2000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Armor", "Scout Vest", 1, 5, 7, 3000},
	})

	// unbounded on both sides sees everything, newest first
	all, err := repo.ListCompleted(ctx, nil, nil)
	if err != nil {
		t.Fatalf("ListCompleted error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 completed got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if *all[i-1].CompletedAt < *all[i].CompletedAt {
			t.Fatalf("completed list not newest-first")
		}
	}

	// start is inclusive, end is exclusive
	got, err := repo.ListCompleted(ctx, ptr(1000), ptr(3000))
	if err != nil {
		t.Fatalf("ListCompleted window error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected rows at 1000 and 2000, got %d rows", len(got))
	}
	for _, r := range got {
		if *r.CompletedAt == 3000 {
			t.Fatalf("end bound leaked into window")
		}
	}

	// open-started window
	got, err = repo.ListCompleted(ctx, nil, ptr(2000))
	if err != nil {
		t.Fatalf("ListCompleted open start error: %v", err)
	}
	if len(got) != 1 || *got[0].CompletedAt != 1000 {
		t.Fatalf("unexpected open-start window: %#v", got)
	}

	// open-ended window
	got, err = repo.ListCompleted(ctx, ptr(2000), nil)
	if err != nil {
		t.Fatalf("ListCompleted open end error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected rows at 2000 and 3000, got %d rows", len(got))
	}
}

func TestTotalsByRequester(t *testing.T) {
	repo, d, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedCompleted(t, d, []completedRow{
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 2, 20, 40, 1000},
		{10, "Ava", "Avaline", 42, "Forge", "Armor", "Scout Vest", 3, 15, 21, 2000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Weapons", "Karve Blade", 1, 10, 20, 3000},
	})

	totals, err := repo.TotalsByRequester(ctx, nil, nil)
	if err != nil {
		t.Fatalf("TotalsByRequester error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 requesters got %d", len(totals))
	}

	// highest summed quantity leads
	top := totals[0]
	if top.RequesterID != 10 {
		t.Fatalf("expected requester 10 first got %d", top.RequesterID)
	}
	if top.Requests != 2 || top.TotalQuantity != 5 {
		t.Fatalf("requester 10 totals wrong: %#v", top)
	}
	if top.TotalCostA != 35 || top.TotalCostB != 61 {
		t.Fatalf("requester 10 cost totals wrong: %#v", top)
	}
	if top.RequesterName != "Ava" || top.CharacterName != "Avaline" {
		t.Fatalf("requester 10 names wrong: %#v", top)
	}

	// windowing applies to the aggregate too
	totals, err = repo.TotalsByRequester(ctx, ptr(2000), nil)
	if err != nil {
		t.Fatalf("TotalsByRequester window error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 requesters in window got %d", len(totals))
	}
	for _, row := range totals {
		if row.RequesterID == 10 && row.Requests != 1 {
			t.Fatalf("window did not trim requester 10: %#v", row)
		}
	}
}

func TestTotalsByCrafter(t *testing.T) {
	repo, d, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedCompleted(t, d, []completedRow{
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 2, 20, 40, 1000},
		{11, "Bryn", "Brynhild", 42, "Forge", "Armor", "Scout Vest", 1, 5, 7, 2000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Weapons", "Karve Blade", 4, 40, 80, 3000},
	})

	totals, err := repo.TotalsByCrafter(ctx, nil, nil)
	if err != nil {
		t.Fatalf("TotalsByCrafter error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 crafters got %d", len(totals))
	}
	if totals[0].CrafterID != 43 || totals[0].TotalQuantity != 4 {
		t.Fatalf("expected crafter 43 first: %#v", totals[0])
	}
	if totals[1].CrafterID != 42 || totals[1].Requests != 2 || totals[1].TotalQuantity != 3 {
		t.Fatalf("crafter 42 totals wrong: %#v", totals[1])
	}
	if totals[1].CrafterName != "Forge" {
		t.Fatalf("crafter 42 name wrong: %#v", totals[1])
	}
}

func TestTotalsByItem(t *testing.T) {
	repo, d, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	seedCompleted(t, d, []completedRow{
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 2, 20, 40, 1000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Weapons", "Karve Blade", 3, 30, 60, 2000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Armor", "Scout Vest", 1, 5, 7, 3000},
	})

	totals, err := repo.TotalsByItem(ctx, nil, nil)
	if err != nil {
		t.Fatalf("TotalsByItem error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 items got %d", len(totals))
	}

	blade := totals[0]
	if blade.Category != "Weapons" || blade.ItemName != "Karve Blade" {
		t.Fatalf("expected blade first: %#v", blade)
	}
	if blade.Requests != 2 || blade.TotalQuantity != 5 || blade.TotalCostA != 50 || blade.TotalCostB != 100 {
		t.Fatalf("blade totals wrong: %#v", blade)
	}
}

func TestMaterialTotals(t *testing.T) {
	repo, d, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	// empty table yields zeros, not an error
	m, err := repo.MaterialTotals(ctx, nil, nil)
	if err != nil {
		t.Fatalf("MaterialTotals empty error: %v", err)
	}
	if m == nil || m.Requests != 0 || m.TotalQuantity != 0 || m.TotalCostA != 0 || m.TotalCostB != 0 {
		t.Fatalf("expected zero totals: %#v", m)
	}

	seedCompleted(t, d, []completedRow{
		{10, "Ava", "Avaline", 42, "Forge", "Weapons", "Karve Blade", 3, 30, 60, 1000},
		{11, "Bryn", "Brynhild", 43, "Anvil", "Armor", "Scout Vest", 2, 10, 14, 2000},
	})

	m, err = repo.MaterialTotals(ctx, nil, nil)
	if err != nil {
		t.Fatalf("MaterialTotals error: %v", err)
	}
	if m.Requests != 2 || m.TotalQuantity != 5 {
		t.Fatalf("material counts wrong: %#v", m)
	}
	if m.TotalCostA != 40 || m.TotalCostB != 74 {
		t.Fatalf("material cost totals wrong: %#v", m)
	}

	// exact boundary: start included, end excluded
	m, err = repo.MaterialTotals(ctx, ptr(1000), ptr(2000))
	if err != nil {
		t.Fatalf("MaterialTotals window error: %v", err)
	}
	if m.Requests != 1 || m.TotalQuantity != 3 || m.TotalCostA != 30 || m.TotalCostB != 60 {
		t.Fatalf("boundary window wrong: %#v", m)
	}
}
