// Package estimator produces the confidence score shown next to a suggestion.
//
// The score is a placeholder heuristic, not a model: it is not a calibrated
// probability and must not be read as one.
package estimator

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

// ConfidenceEstimator scores a market on a fixture with a value in [0, 1].
type ConfidenceEstimator interface {
	Estimate(fixture models.FixtureRecord, market enums.Market) float64
}

// UniformEstimator draws uniformly from [Min, Max].
type UniformEstimator struct {
	min, max float64

	mu  sync.Mutex
	rng *rand.Rand
}

var _ ConfidenceEstimator = (*UniformEstimator)(nil)

// NewUniformEstimator validates the bounds and seeds a private source.
func NewUniformEstimator(lo, hi float64) (*UniformEstimator, error) {
	return newUniformEstimator(lo, hi, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSeededUniformEstimator is NewUniformEstimator with a reproducible sequence.
func NewSeededUniformEstimator(lo, hi float64, seed uint64) (*UniformEstimator, error) {
	return newUniformEstimator(lo, hi, rand.New(rand.NewPCG(seed, seed)))
}

func newUniformEstimator(lo, hi float64, rng *rand.Rand) (*UniformEstimator, error) {
	// Written as a positive check so NaN bounds fail it.
	if !(lo >= 0 && hi <= 1 && lo <= hi) {
		return nil, fmt.Errorf("confidence bounds must satisfy 0 <= min <= max <= 1, got [%g, %g]", lo, hi)
	}
	return &UniformEstimator{min: lo, max: hi, rng: rng}, nil
}

func (e *UniformEstimator) Estimate(models.FixtureRecord, enums.Market) float64 {
	e.mu.Lock()
	f := e.rng.Float64()
	e.mu.Unlock()
	v := e.min + f*(e.max-e.min)
	if v > e.max {
		v = e.max
	}
	return v
}

// FixedEstimator always returns the same score, clamped to [0, 1]. NaN
// counts as 0.
type FixedEstimator float64

func (f FixedEstimator) Estimate(models.FixtureRecord, enums.Market) float64 {
	v := float64(f)
	switch {
	case !(v >= 0):
		return 0
	case v > 1:
		return 1
	}
	return v
}
