package services

import "testing"

func TestPolicyAllows(t *testing.T) {
	tests := []struct {
		game    string
		allowed []float64
		denied  []float64
	}{
		{"ring_toss", []float64{25, 50, 75, 100}, []float64{0, 10, 60, 125, -25}},
		{"jeopardy", []float64{100, 200, 300, 400, 500}, []float64{50, 600, -100, 250}},
		{"pin_spider", []float64{150}, []float64{1, 125, -150}},
		{"mime", []float64{125}, []float64{150, 1}},
		{"bingo", []float64{150}, []float64{125, 300}},
		{"eye_toss", []float64{200, -100}, []float64{100, -200, 250}},
		{"roulette", []float64{250, -100}, []float64{200, -250}},
	}

	for _, tt := range tests {
		t.Run(tt.game, func(t *testing.T) {
			policy := PolicyFor(tt.game)
			if !policy.Supported() {
				t.Fatalf("expected %s to support add", tt.game)
			}
			for _, v := range tt.allowed {
				if !policy.Allows(v) {
					t.Errorf("Allows(%v) = false, want true", v)
				}
			}
			for _, v := range tt.denied {
				if policy.Allows(v) {
					t.Errorf("Allows(%v) = true, want false", v)
				}
			}
		})
	}
}

func TestPolicyForUnknownGame(t *testing.T) {
	policy := PolicyFor("darts")
	if policy.Supported() {
		t.Fatal("unknown game should be unsupported")
	}
	if policy.Allows(1) {
		t.Fatal("unsupported policy should allow nothing")
	}
}

func TestPolicyDescribe(t *testing.T) {
	tests := map[string]string{
		"ring_toss":  "one of 25,50,75,100",
		"jeopardy":   "one of 100,200,300,400,500",
		"pin_spider": "150",
		"mime":       "125",
		"eye_toss":   "200 or -100",
		"roulette":   "250 or -100",
		"darts":      "not supported",
	}
	for game, want := range tests {
		if got := PolicyFor(game).Describe(); got != want {
			t.Errorf("Describe(%s) = %q, want %q", game, got, want)
		}
	}
}

func TestOnlyJeopardyIsLogged(t *testing.T) {
	for game := range rules {
		want := game == "jeopardy"
		if got := PolicyFor(game).Logged; got != want {
			t.Errorf("%s Logged = %v, want %v", game, got, want)
		}
	}
}

func TestPolicyForReturnsCopy(t *testing.T) {
	p := PolicyFor("ring_toss")
	p.Allowed[0] = 60
	if PolicyFor("ring_toss").Allows(60) {
		t.Fatal("mutating a returned policy changed the rule table")
	}
}

func TestLegacyIncrementDelta(t *testing.T) {
	// Enumerated-set games fall back to 1, not to any policy value.
	tests := map[string]float64{
		"pin_spider": 150,
		"mime":       125,
		"bingo":      150,
		"eye_toss":   200,
		"roulette":   250,
		"ring_toss":  1,
		"jeopardy":   1,
		"darts":      1,
	}
	for game, want := range tests {
		if got := legacyIncrementDelta(game); got != want {
			t.Errorf("legacyIncrementDelta(%s) = %v, want %v", game, got, want)
		}
	}
}
