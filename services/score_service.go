package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"scoreboard/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("scoreboard/services")

type ScoreService struct {
	db          *gorm.DB
	store       *Store
	cache       *ScoreCache
	metrics     *Metrics
	lockTimeout time.Duration
}

type ScoreServiceOption func(*ScoreService)

// WithCache enables the redis-backed scores listing cache.
func WithCache(cache *ScoreCache) ScoreServiceOption {
	return func(s *ScoreService) { s.cache = cache }
}

func WithMetrics(m *Metrics) ScoreServiceOption {
	return func(s *ScoreService) { s.metrics = m }
}

// WithLockTimeout bounds how long an action waits for a busy score row.
// Only postgres honours it.
func WithLockTimeout(d time.Duration) ScoreServiceOption {
	return func(s *ScoreService) { s.lockTimeout = d }
}

func NewScoreService(db *gorm.DB, opts ...ScoreServiceOption) *ScoreService {
	s := &ScoreService{
		db:    db,
		store: NewStore(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScoreService) Store() *Store {
	return s.store
}

// ActionResult is what a caller gets back for an applied action.
type ActionResult struct {
	Person string  `json:"person"`
	Game   string  `json:"game"`
	Total  float64 `json:"total"`
}

// SubmitAction validates an action and, only if it is legal, applies it.
func (s *ScoreService) SubmitAction(ctx context.Context, action Action) (*ActionResult, error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "ScoreService.SubmitAction")
	defer span.End()
	span.SetAttributes(
		attribute.String("scoreboard.person", action.Person),
		attribute.String("scoreboard.game", action.Game),
		attribute.String("scoreboard.action_type", action.Type),
	)

	validated, err := Validate(ctx, s.store, action)
	if err != nil {
		s.record(span, action.Game, action.Type, err, started)
		return nil, err
	}

	total, err := s.Apply(ctx, validated)
	if err != nil {
		s.record(span, validated.GameKey, validated.Type, err, started)
		log.Printf("Score action failed (%s): %v", validated, err)
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.record(span, validated.GameKey, validated.Type, nil, started)
	log.Printf("Score action applied (%s) total=%v", validated, total)

	return &ActionResult{
		Person: validated.PersonName,
		Game:   validated.GameKey,
		Total:  total,
	}, nil
}

func (s *ScoreService) record(span trace.Span, game, actionType string, err error, started time.Time) {
	outcome := "applied"
	switch {
	case err == nil:
	case IsRejection(err):
		outcome = RejectionCode(err)
		// Past the game lookup the key names a stored game. Before it the
		// key is caller input and stays out of label values.
		if errors.Is(err, ErrUnknownPerson) || errors.Is(err, ErrUnknownGame) {
			game = "unknown"
		}
	default:
		outcome = "fault"
		if game != "" && !knownGame(game) {
			game = "unknown"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if actionType != ActionAdd && actionType != ActionIncrement {
		actionType = "unknown"
	}
	s.metrics.observe(game, actionType, outcome, started)
}

// Apply adds a validated delta to the pair's running total under a row lock
// and, when asked, appends a log entry in the same transaction.
func (s *ScoreService) Apply(ctx context.Context, action ValidatedAction) (float64, error) {
	ctx, span := tracer.Start(ctx, "ScoreService.Apply")
	defer span.End()

	var newTotal float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		score, err := lockScore(tx, action.PersonID, action.GameID)
		if err != nil {
			return err
		}

		score.Total += action.Delta
		if err := tx.Model(&models.Score{}).
			Where("id = ?", score.ID).
			Update("total", score.Total).Error; err != nil {
			return err
		}

		if action.ShouldLog {
			raw, err := json.Marshal(action.Meta)
			if err != nil {
				return fmt.Errorf("encode log meta: %w", err)
			}
			entry := models.ScoreLog{
				PersonID:  action.PersonID,
				GameID:    action.GameID,
				Delta:     action.Delta,
				Meta:      datatypes.JSON(raw),
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
				return err
			}
		}

		newTotal = score.Total
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, storeFault("apply score", err)
	}
	return newTotal, nil
}

// lockScore returns the pair's score row locked FOR UPDATE, creating a zero
// row first if the pair has never been scored. The insert ignores conflicts
// so two first actions racing on one pair still end up with a single row.
func lockScore(tx *gorm.DB, personID, gameID uint) (*models.Score, error) {
	var score models.Score
	err := lockedScoreQuery(tx, personID, gameID).First(&score).Error
	if err == nil {
		return &score, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Score{PersonID: personID, GameID: gameID, Total: 0}
	if err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "person_id"}, {Name: "game_id"}},
			DoNothing: true,
		}).
		Create(&fresh).Error; err != nil {
		return nil, err
	}

	score = models.Score{}
	if err := lockedScoreQuery(tx, personID, gameID).First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func lockedScoreQuery(tx *gorm.DB, personID, gameID uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("person_id = ? AND game_id = ?", personID, gameID)
}

// ListScores serves the scores listing, from the cache when it is warm.
func (s *ScoreService) ListScores(ctx context.Context) ([]ScoreRow, error) {
	if rows := s.cache.Load(ctx); rows != nil {
		return rows, nil
	}

	rows, err := s.store.ListScores(ctx)
	if err != nil {
		return nil, storeFault("list scores", err)
	}

	if err := s.cache.Store(ctx, rows); err != nil {
		log.Printf("Failed to cache scores: %v", err)
	}
	return rows, nil
}

// LeaderboardEntry is one person's sum across every game.
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	Person string  `json:"person"`
	Total  float64 `json:"total"`
}

// Leaderboard ranks people by their summed totals, highest first, ties by
// name. People in the catalog with no rows still appear with zero.
func (s *ScoreService) Leaderboard(ctx context.Context, people []string) ([]LeaderboardEntry, error) {
	rows, err := s.ListScores(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(people))
	for _, name := range people {
		totals[name] = 0
	}
	for _, row := range rows {
		totals[row.Person] += row.Total
	}

	board := make([]LeaderboardEntry, 0, len(totals))
	for name, total := range totals {
		board = append(board, LeaderboardEntry{Person: name, Total: total})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Total != board[j].Total {
			return board[i].Total > board[j].Total
		}
		return board[i].Person < board[j].Person
	})
	for i := range board {
		board[i].Rank = i + 1
	}
	return board, nil
}

// History returns the logged deltas for one pair. Games that do not log
// return an empty list.
func (s *ScoreService) History(ctx context.Context, personName, gameKey string) ([]models.ScoreLog, error) {
	person, err := s.store.FindPersonByName(ctx, personName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(ErrUnknownPerson, "Invalid person")
		}
		return nil, storeFault("find person", err)
	}
	game, err := s.store.FindGameByKey(ctx, gameKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(ErrUnknownGame, "Invalid game")
		}
		return nil, storeFault("find game", err)
	}

	logs, err := s.store.ScoreLogs(ctx, person.ID, game.ID)
	if err != nil {
		return nil, storeFault("list score logs", err)
	}
	if logs == nil {
		logs = []models.ScoreLog{}
	}
	return logs, nil
}
