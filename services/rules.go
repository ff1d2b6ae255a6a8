package services

import (
	"slices"
	"strconv"
	"strings"
)

type PolicyKind int

const (
	PolicyUnsupported PolicyKind = iota
	PolicyOneOf
	PolicyFixed
	PolicyWinLoss
)

// Policy describes which deltas an "add" action may carry for one game.
// Logged games append a ScoreLog row for every accepted add.
type Policy struct {
	Kind    PolicyKind
	Allowed []float64
	Logged  bool
}

func OneOf(values ...float64) Policy {
	return Policy{Kind: PolicyOneOf, Allowed: values}
}

func Fixed(value float64) Policy {
	return Policy{Kind: PolicyFixed, Allowed: []float64{value}}
}

func WinLoss(win, loss float64) Policy {
	return Policy{Kind: PolicyWinLoss, Allowed: []float64{win, loss}}
}

func Unsupported() Policy {
	return Policy{Kind: PolicyUnsupported}
}

func (p Policy) WithLog() Policy {
	p.Logged = true
	return p
}

func (p Policy) Supported() bool {
	return p.Kind != PolicyUnsupported
}

func (p Policy) Allows(amount float64) bool {
	if !p.Supported() {
		return false
	}
	return slices.Contains(p.Allowed, amount)
}

// Describe renders the allowed values the way rejection messages show them.
func (p Policy) Describe() string {
	switch p.Kind {
	case PolicyOneOf:
		parts := make([]string, len(p.Allowed))
		for i, v := range p.Allowed {
			parts[i] = formatAmount(v)
		}
		return "one of " + strings.Join(parts, ",")
	case PolicyFixed:
		return formatAmount(p.Allowed[0])
	case PolicyWinLoss:
		return formatAmount(p.Allowed[0]) + " or " + formatAmount(p.Allowed[1])
	}
	return "not supported"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rules is the single source of truth for legal add deltas. Adding a game is
// one entry here.
var rules = map[string]Policy{
	"ring_toss":  OneOf(25, 50, 75, 100),
	"jeopardy":   OneOf(100, 200, 300, 400, 500).WithLog(),
	"pin_spider": Fixed(150),
	"mime":       Fixed(125),
	"bingo":      Fixed(150),
	"eye_toss":   WinLoss(200, -100),
	"roulette":   WinLoss(250, -100),
}

// PolicyFor returns the add policy for a game key. Unknown keys are
// unsupported.
func PolicyFor(gameKey string) Policy {
	if p, ok := rules[gameKey]; ok {
		p.Allowed = slices.Clone(p.Allowed)
		return p
	}
	return Unsupported()
}

// legacyIncrements maps a game to the delta the old "increment" action
// applies. It deliberately does not read the rules table: games missing here
// get a delta of 1 even when their add policy says otherwise.
var legacyIncrements = map[string]float64{
	"pin_spider": 150,
	"mime":       125,
	"bingo":      150,
	"eye_toss":   200,
	"roulette":   250,
}

const legacyIncrementFallback = 1

func legacyIncrementDelta(gameKey string) float64 {
	if d, ok := legacyIncrements[gameKey]; ok {
		return d
	}
	return legacyIncrementFallback
}

// knownGame reports whether key is one of the configured games.
func knownGame(key string) bool {
	if _, ok := rules[key]; ok {
		return true
	}
	return slices.ContainsFunc(defaultCatalog.Games, func(g GameInfo) bool { return g.Key == key })
}
