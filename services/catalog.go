package services

import (
	"context"
	"fmt"
	"log"

	"scoreboard/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameInfo is the public shape of a catalog game.
type GameInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Catalog is the static list of people and games the event runs with.
type Catalog struct {
	People []string   `json:"people"`
	Games  []GameInfo `json:"games"`
}

var defaultCatalog = Catalog{
	People: []string{"Aadit", "Akshita", "Anant", "Arjun", "Ishaan", "Jigar", "Kabir", "Mayukha", "Nandini", "Priyanka", "Sania"},
	Games: []GameInfo{
		{Key: "ring_toss", Label: "Ring Toss"},
		{Key: "pin_spider", Label: "Pin Spider"},
		{Key: "mime", Label: "Mime"},
		{Key: "eye_toss", Label: "Eye Toss"},
		{Key: "roulette", Label: "Roulette"},
		{Key: "jeopardy", Label: "Jeopardy"},
		{Key: "bingo", Label: "Bingo"},
	},
}

// DefaultCatalog returns a copy of the built-in catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		People: append([]string(nil), defaultCatalog.People...),
		Games:  append([]GameInfo(nil), defaultCatalog.Games...),
	}
}

// Seed inserts any missing people, games and zeroed scores for every
// person x game pair. Running it again is a no-op.
func Seed(ctx context.Context, db *gorm.DB, catalog Catalog) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range catalog.People {
			person := models.Person{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&person).Error; err != nil {
				return fmt.Errorf("seed person %s: %w", name, err)
			}
		}

		for _, g := range catalog.Games {
			game := models.Game{Key: g.Key, Label: g.Label}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&game).Error; err != nil {
				return fmt.Errorf("seed game %s: %w", g.Key, err)
			}
		}

		var people []models.Person
		if err := tx.Find(&people).Error; err != nil {
			return err
		}
		var games []models.Game
		if err := tx.Find(&games).Error; err != nil {
			return err
		}

		created := 0
		for _, p := range people {
			for _, g := range games {
				score := models.Score{PersonID: p.ID, GameID: g.ID}
				res := tx.Omit(clause.Associations).
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&score)
				if res.Error != nil {
					return fmt.Errorf("seed score %s/%s: %w", p.Name, g.Key, res.Error)
				}
				created += int(res.RowsAffected)
			}
		}

		log.Printf("Seed complete: people=%d games=%d new_scores=%d", len(people), len(games), created)
		return nil
	})
}
