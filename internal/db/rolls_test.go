// Package db tests verify database CRUD behavior.
package db

import (
	"context"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	d, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// TestCreateRollDuplicateID ensures a taken id fails the insert and
// leaves the stored row untouched.
func TestCreateRollDuplicateID(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	if err := d.CreateRoll(ctx, &Roll{ID: 4, FilmType: "HP5", Camera: "Canon AE-1"}); err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}
	err := d.CreateRoll(ctx, &Roll{ID: 4, FilmType: "Portra 400", Camera: "F3"})
	if err != ErrRollExists {
		t.Fatalf("expected ErrRollExists, got %v", err)
	}

	r, ok, err := d.GetRoll(ctx, 4)
	if err != nil || !ok {
		t.Fatalf("GetRoll: ok=%v err=%v", ok, err)
	}
	if r.FilmType != "HP5" {
		t.Fatalf("original row was modified: %+v", r)
	}
	n, err := d.CountRolls(ctx)
	if err != nil {
		t.Fatalf("CountRolls: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 roll, got %d", n)
	}
}

// TestSearchRolls covers exact-id and substring search semantics.
func TestSearchRolls(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	rolls := []Roll{
		{ID: 1, FilmType: "Kodak Portra 400", Camera: "Canon AE-1"},
		{ID: 2, FilmType: "Ilford HP5", Camera: "Nikon F3"},
		{ID: 3, FilmType: "Kodak Gold", Camera: "Canon AE-1"},
	}
	for i := range rolls {
		if err := d.CreateRoll(ctx, &rolls[i]); err != nil {
			t.Fatalf("CreateRoll %d: %v", rolls[i].ID, err)
		}
	}

	got, err := d.SearchRolls(ctx, "0002")
	if err != nil {
		t.Fatalf("SearchRolls(0002): %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("numeric search: expected exactly roll 2, got %+v", got)
	}

	got, err = d.SearchRolls(ctx, "99")
	if err != nil {
		t.Fatalf("SearchRolls(99): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("numeric miss: expected no rows, got %+v", got)
	}

	got, err = d.SearchRolls(ctx, "Kodak")
	if err != nil {
		t.Fatalf("SearchRolls(Kodak): %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 Kodak rolls, got %d", len(got))
	}

	got, err = d.SearchRolls(ctx, "AE-1")
	if err != nil {
		t.Fatalf("SearchRolls(AE-1): %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 AE-1 rolls, got %d", len(got))
	}
}

// TestListRecentRolls returns newest roll numbers first, capped at n.
func TestListRecentRolls(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	for id := int64(1); id <= 7; id++ {
		if err := d.CreateRoll(ctx, &Roll{ID: id, FilmType: "HP5"}); err != nil {
			t.Fatalf("CreateRoll %d: %v", id, err)
		}
	}
	got, err := d.ListRecentRolls(ctx, 5)
	if err != nil {
		t.Fatalf("ListRecentRolls: %v", err)
	}
	if len(got) != 5 || got[0].ID != 7 || got[4].ID != 3 {
		t.Fatalf("unexpected recent rolls: %+v", got)
	}
}

// TestUpdateAndDeleteRoll covers in-place update and removal.
func TestUpdateAndDeleteRoll(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	if err := d.CreateRoll(ctx, &Roll{ID: 1, FilmType: "HP5", ISO: 400}); err != nil {
		t.Fatalf("CreateRoll: %v", err)
	}
	if err := d.UpdateRoll(ctx, &Roll{ID: 1, FilmType: "Delta 100", ISO: 100, Lens: "50mm"}); err != nil {
		t.Fatalf("UpdateRoll: %v", err)
	}
	r, ok, err := d.GetRoll(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("GetRoll: ok=%v err=%v", ok, err)
	}
	if r.FilmType != "Delta 100" || r.ISO != 100 || r.Lens != "50mm" {
		t.Fatalf("unexpected roll after update: %+v", r)
	}

	if err := d.DeleteRoll(ctx, 1); err != nil {
		t.Fatalf("DeleteRoll: %v", err)
	}
	_, ok, err = d.GetRoll(ctx, 1)
	if err != nil {
		t.Fatalf("GetRoll after delete: %v", err)
	}
	if ok {
		t.Fatalf("expected roll to be gone")
	}
}

// TestNextRollIDAndStats checks the next-id suggestion and the grouped
// counts backing the stats page.
func TestNextRollIDAndStats(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	next, err := d.NextRollID(ctx)
	if err != nil {
		t.Fatalf("NextRollID: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected first id 1, got %d", next)
	}

	for _, r := range []Roll{
		{ID: 2, FilmType: "HP5", Camera: "AE-1"},
		{ID: 5, FilmType: "HP5", Camera: "AE-1"},
		{ID: 9, FilmType: "Gold", Camera: "F3"},
	} {
		rr := r
		if err := d.CreateRoll(ctx, &rr); err != nil {
			t.Fatalf("CreateRoll %d: %v", r.ID, err)
		}
	}

	next, err = d.NextRollID(ctx)
	if err != nil {
		t.Fatalf("NextRollID: %v", err)
	}
	if next != 10 {
		t.Fatalf("expected next id 10, got %d", next)
	}

	cams, err := d.TopCameras(ctx, 5)
	if err != nil {
		t.Fatalf("TopCameras: %v", err)
	}
	if len(cams) != 2 || cams[0].Name != "AE-1" || cams[0].Count != 2 {
		t.Fatalf("unexpected camera stats: %+v", cams)
	}
	films, err := d.TopFilms(ctx, 1)
	if err != nil {
		t.Fatalf("TopFilms: %v", err)
	}
	if len(films) != 1 || films[0].Name != "HP5" {
		t.Fatalf("unexpected film stats: %+v", films)
	}
}

// TestDistinctLensesSkipsEmpty confirms autocomplete lists skip blanks.
func TestDistinctLensesSkipsEmpty(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	for _, r := range []Roll{
		{ID: 1, FilmType: "HP5", Lens: "50mm"},
		{ID: 2, FilmType: "HP5"},
		{ID: 3, FilmType: "HP5", Lens: "50mm"},
	} {
		rr := r
		if err := d.CreateRoll(ctx, &rr); err != nil {
			t.Fatalf("CreateRoll: %v", err)
		}
	}
	lenses, err := d.DistinctLenses(ctx)
	if err != nil {
		t.Fatalf("DistinctLenses: %v", err)
	}
	if len(lenses) != 1 || lenses[0] != "50mm" {
		t.Fatalf("unexpected lenses: %+v", lenses)
	}
}
