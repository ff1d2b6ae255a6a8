package services

import (
	"context"

	"scoreboard/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed entity store. Person and game lookups are plain
// reads; score mutation lives in ScoreService.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindPersonByName(ctx context.Context, name string) (*models.Person, error) {
	var person models.Person
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *Store) FindGameByKey(ctx context.Context, key string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// ScoreRow is one projected score: names instead of ids.
type ScoreRow struct {
	Person string  `json:"person"`
	Game   string  `json:"game"`
	Total  float64 `json:"total"`
}

// ListScores joins every score row with its person and game.
func (s *Store) ListScores(ctx context.Context) ([]ScoreRow, error) {
	rows := []ScoreRow{}
	err := s.db.WithContext(ctx).
		Table("scores").
		Select("people.name AS person, games.key AS game, scores.total AS total").
		Joins("JOIN people ON people.id = scores.person_id").
		Joins("JOIN games ON games.id = scores.game_id").
		Order("people.name, games.id").
		Scan(&rows).Error
	return rows, err
}

// ScoreLogs returns the log entries for one pair, oldest first.
func (s *Store) ScoreLogs(ctx context.Context, personID, gameID uint) ([]models.ScoreLog, error) {
	var logs []models.ScoreLog
	err := s.db.WithContext(ctx).
		Where("person_id = ? AND game_id = ?", personID, gameID).
		Order("id").
		Find(&logs).Error
	return logs, err
}
