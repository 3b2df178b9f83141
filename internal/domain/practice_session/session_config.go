package practicesession

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type Mode string

const (
	ModeFull   Mode = "full"   // the whole bank in bank order
	ModeRandom Mode = "random" // a random sample of SampleSize questions
)

const (
	DefaultDuration   = 30 * time.Minute
	DefaultSampleSize = 25
)

// ParseMode accepts the API names and the labels used by the original
// subject picker ("100 ta to‘liq", "25 ta random").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "100 ta to‘liq", "100 ta to'liq":
		return ModeFull, nil
	case "random", "25 ta random":
		return ModeRandom, nil
	}
	return "", fmt.Errorf("unknown test mode %q", s)
}

// Rand is the randomness a session draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
	Perm(n int) []int
}

type globalRand struct{}

func (globalRand) Intn(n int) int                      { return rand.Intn(n) }
func (globalRand) Float64() float64                    { return rand.Float64() }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
func (globalRand) Perm(n int) []int                    { return rand.Perm(n) }

// SessionConfig holds the learner's choices for one session.
type SessionConfig struct {
	Mode       Mode
	Duration   time.Duration
	SampleSize int  // questions drawn in ModeRandom; <= 0 means DefaultSampleSize
	Rand       Rand // nil = math/rand package functions
}

// DefaultConfig returns the full bank with a 30 minute limit.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Mode:       ModeFull,
		Duration:   DefaultDuration,
		SampleSize: DefaultSampleSize,
	}
}

func (c SessionConfig) rng() Rand {
	if c.Rand == nil {
		return globalRand{}
	}
	return c.Rand
}
