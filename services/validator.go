package services

import (
	"context"
	"errors"
	"fmt"

	"scoreboard/models"

	"gorm.io/gorm"
)

const (
	ActionAdd       = "add"
	ActionIncrement = "increment"
)

// Action is a raw request to change one person's score in one game.
type Action struct {
	Person string
	Game   string
	Type   string
	Amount *float64
	Meta   map[string]any
}

// ValidatedAction is an accepted Action resolved to ids and a signed delta.
type ValidatedAction struct {
	PersonID   uint
	PersonName string
	GameID     uint
	GameKey    string
	Type       string
	Delta      float64
	ShouldLog  bool
	Meta       map[string]any
}

// EntityLookup resolves the names used on the wire to stored entities. It
// returns gorm.ErrRecordNotFound when the entity does not exist.
type EntityLookup interface {
	FindPersonByName(ctx context.Context, name string) (*models.Person, error)
	FindGameByKey(ctx context.Context, key string) (*models.Game, error)
}

// Validate decides whether an action is legal. It never writes.
func Validate(ctx context.Context, lookup EntityLookup, a Action) (ValidatedAction, error) {
	person, err := lookup.FindPersonByName(ctx, a.Person)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidatedAction{}, reject(ErrUnknownPerson, "Invalid person")
		}
		return ValidatedAction{}, storeFault("find person", err)
	}

	game, err := lookup.FindGameByKey(ctx, a.Game)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidatedAction{}, reject(ErrUnknownGame, "Invalid game")
		}
		return ValidatedAction{}, storeFault("find game", err)
	}

	out := ValidatedAction{
		PersonID:   person.ID,
		PersonName: person.Name,
		GameID:     game.ID,
		GameKey:    game.Key,
		Type:       a.Type,
	}

	switch a.Type {
	case ActionAdd:
		if a.Amount == nil {
			return ValidatedAction{}, reject(ErrMissingAmount, "Missing amount for add")
		}
		policy := PolicyFor(game.Key)
		if !policy.Supported() {
			return ValidatedAction{}, reject(ErrUnsupportedGameForAdd, "Add not supported for %s", game.Key)
		}
		amount := *a.Amount
		if !policy.Allows(amount) {
			return ValidatedAction{}, reject(ErrInvalidAmount, "%s amount must be %s", game.Label, policy.Describe())
		}
		out.Delta = amount
		out.ShouldLog = policy.Logged
		if out.ShouldLog {
			out.Meta = a.Meta
			if len(out.Meta) == 0 {
				out.Meta = map[string]any{"value": amount}
			}
		}
	case ActionIncrement:
		// Old clients send increment; the amount they send is ignored.
		out.Delta = legacyIncrementDelta(game.Key)
	default:
		return ValidatedAction{}, reject(ErrInvalidActionType, "Invalid action type")
	}

	return out, nil
}

func (v ValidatedAction) String() string {
	return fmt.Sprintf("person=%s game=%s type=%s delta=%v", v.PersonName, v.GameKey, v.Type, v.Delta)
}
