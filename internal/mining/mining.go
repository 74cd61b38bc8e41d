// Package mining runs the proof-of-work simulation behind the mining page.
package mining

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/smallyu/go-btc-visual/internal/crypto/hashing"
)

var (
	ErrDifficulty = errors.New("mining: difficulty out of range")
	ErrExhausted  = errors.New("mining: nonce space exhausted")
)

const (
	DefaultYieldEvery    = 1000
	DefaultMaxDifficulty = 6
)

// Attempt is one hashed candidate.
type Attempt struct {
	Nonce  uint64
	Digest hashing.Digest
}

// Result is the outcome of a mining run. On cancellation Last holds the most
// recent attempt so the page can keep showing it.
type Result struct {
	Found    bool
	Last     Attempt
	Attempts uint64
	Elapsed  time.Duration
}

// Miner searches for a nonce whose digest starts with the required number of
// zero hex digits.
type Miner struct {
	Hasher *hashing.Hasher

	// YieldEvery is how many attempts run between cancellation checks.
	YieldEvery int

	MaxDifficulty int

	// OnAttempt, if set, is called after every hashed candidate.
	OnAttempt func(Attempt)

	// Yield runs every YieldEvery attempts and hands control to other work.
	// A non-nil error stops the run. Nil selects runtime.Gosched, which is
	// not enough under js/wasm: there the hook has to block so the browser
	// event loop gets a turn.
	Yield func(ctx context.Context) error

	Logger *slog.Logger
}

// NewMiner returns a SHA-256 miner with default limits.
func NewMiner(logger *slog.Logger) *Miner {
	return &Miner{
		Hasher:        hashing.New(),
		YieldEvery:    DefaultYieldEvery,
		MaxDifficulty: DefaultMaxDifficulty,
		Logger:        logger,
	}
}

func (m *Miner) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m *Miner) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Yield == nil {
		runtime.Gosched()
		return nil
	}
	if err := m.Yield(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// SleepYield returns a Yield hook that blocks for d or until ctx is done.
func SleepYield(d time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// Candidate is the string hashed for a nonce.
func Candidate(data string, nonce uint64) string {
	return data + strconv.FormatUint(nonce, 10)
}

// Meets reports whether hexDigest starts with difficulty zero digits.
func Meets(hexDigest string, difficulty int) bool {
	return len(hexDigest) >= difficulty && strings.Count(hexDigest[:difficulty], "0") == difficulty
}

// Mine hashes data+nonce for nonce = start, start+1, ... until a digest meets
// difficulty or ctx is done.
func (m *Miner) Mine(ctx context.Context, data string, difficulty int, start uint64) (Result, error) {
	maxDiff := m.MaxDifficulty
	if maxDiff <= 0 {
		maxDiff = DefaultMaxDifficulty
	}
	if difficulty < 0 || difficulty > maxDiff {
		return Result{}, fmt.Errorf("%w: %d not in [0, %d]", ErrDifficulty, difficulty, maxDiff)
	}
	yield := m.YieldEvery
	if yield <= 0 {
		yield = DefaultYieldEvery
	}

	log := m.logger()
	log.Debug("mining_started", "difficulty", difficulty, "start_nonce", start)

	began := time.Now()
	var res Result
	for nonce := start; ; nonce++ {
		if res.Attempts > 0 && res.Attempts%uint64(yield) == 0 {
			if err := m.pause(ctx); err != nil {
				res.Elapsed = time.Since(began)
				log.Info("mining_stopped", "attempts", res.Attempts, "last_nonce", res.Last.Nonce)
				return res, fmt.Errorf("mining stopped after %d attempts: %w", res.Attempts, err)
			}
		}

		d, err := m.Hasher.Sum(Candidate(data, nonce))
		if err != nil {
			return res, err
		}
		res.Attempts++
		res.Last = Attempt{Nonce: nonce, Digest: d}
		if m.OnAttempt != nil {
			m.OnAttempt(res.Last)
		}

		if Meets(d.Hex, difficulty) {
			res.Found = true
			res.Elapsed = time.Since(began)
			log.Info("block_mined", "nonce", nonce, "hash", d.Hex, "attempts", res.Attempts, "elapsed", res.Elapsed)
			return res, nil
		}
		if nonce == ^uint64(0) {
			res.Elapsed = time.Since(began)
			return res, ErrExhausted
		}
	}
}
