package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
	"github.com/Vodeneev/tipsbot/internal/pkg/models"
)

type nopFetcher struct{}

func (nopFetcher) Fetch(context.Context, Query) ([]models.FixtureRecord, error) { return nil, nil }
func (nopFetcher) GetName() string { return "registry-test" }

func TestRegistry(t *testing.T) {
	Register(" Registry-Test ", func(*config.Config) (Fetcher, error) { return nopFetcher{}, nil })

	_, ok := FactoryByName("registry-test")
	assert.True(t, ok)
	assert.Contains(t, AvailableNames(), "registry-test")

	f, err := New(&config.Config{Source: "REGISTRY-TEST"})
	require.NoError(t, err)
	assert.Equal(t, "registry-test", f.GetName())

	_, err = New(&config.Config{Source: "missing"})
	assert.Error(t, err)

	assert.Panics(t, func() {
		Register("registry-test", func(*config.Config) (Fetcher, error) { return nopFetcher{}, nil })
	})
	assert.Panics(t, func() { Register("", nil) })
	assert.Panics(t, func() { Register("registry-nil", nil) })

	names := AvailableNames()
	assert.IsNonDecreasing(t, names)
	assert.NotContains(t, names, "registry-nil")
}
