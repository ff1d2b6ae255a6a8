package services

import (
	"context"
	"testing"

	"scoreboard/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	catalog := DefaultCatalog()

	if err := Seed(context.Background(), db, catalog); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	if n := countRows(t, db, &models.Person{}, "1 = 1"); n != int64(len(catalog.People)) {
		t.Errorf("people = %d, want %d", n, len(catalog.People))
	}
	if n := countRows(t, db, &models.Game{}, "1 = 1"); n != int64(len(catalog.Games)) {
		t.Errorf("games = %d, want %d", n, len(catalog.Games))
	}
	if n := countRows(t, db, &models.Score{}, "total = ?", 0); n != int64(len(catalog.People)*len(catalog.Games)) {
		t.Errorf("zeroed scores = %d, want %d", n, len(catalog.People)*len(catalog.Games))
	}
}

func TestSeedKeepsExistingTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScoreService(db)
	ctx := context.Background()

	if _, err := svc.SubmitAction(ctx, Action{Person: "Sania", Game: "bingo", Type: ActionAdd, Amount: amount(150)}); err != nil {
		t.Fatalf("SubmitAction() error = %v", err)
	}
	if err := Seed(ctx, db, DefaultCatalog()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if got := totalFor(t, db, "Sania", "bingo"); got != 150 {
		t.Fatalf("total = %v, reseeding must not reset scores", got)
	}
}

func TestSeedAddsNewCatalogEntries(t *testing.T) {
	db := setupTestDB(t)
	catalog := DefaultCatalog()
	catalog.People = append(catalog.People, "Zoya")

	if err := Seed(context.Background(), db, catalog); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n := countRows(t, db, &models.Person{}, "name = ?", "Zoya"); n != 1 {
		t.Fatalf("Zoya rows = %d, want 1", n)
	}
	var person models.Person
	if err := db.Where("name = ?", "Zoya").First(&person).Error; err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, db, &models.Score{}, "person_id = ?", person.ID); n != int64(len(catalog.Games)) {
		t.Fatalf("Zoya scores = %d, want %d", n, len(catalog.Games))
	}
}

func TestDefaultCatalogIsACopy(t *testing.T) {
	c := DefaultCatalog()
	c.People[0] = "Changed"
	if DefaultCatalog().People[0] == "Changed" {
		t.Fatal("DefaultCatalog() leaked shared state")
	}
}
