package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsDeterministicPerParameterSet(t *testing.T) {
	a := url.Values{}
	a.Set("name", "test")
	a.Set("kommune", "0301")

	b := url.Values{}
	b.Set("kommune", "0301")
	b.Set("name", "test")

	assert.Equal(t, Key("/companies", a), Key("/companies", b),
		"insertion order must not change the key")
}

func TestKeyVariesByEndpointAndParams(t *testing.T) {
	params := url.Values{}
	params.Set("name", "test")

	assert.NotEqual(t, Key("/companies", params), Key("/companies/count", params))

	other := url.Values{}
	other.Set("name", "annet")
	assert.NotEqual(t, Key("/companies", params), Key("/companies", other))
}

func TestPassThroughCacheAlwaysFetches(t *testing.T) {
	c, err := New(Config{}, nil, nil)
	require.NoError(t, err)

	calls := 0
	fetch := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"ok":true}`), nil
	}

	for i := 0; i < 2; i++ {
		body, err := c.GetOrFetch(context.Background(), "/companies", "k", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"ok":true}`), body)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Close())
}

func TestPassThroughCachePropagatesFetchError(t *testing.T) {
	c, err := New(Config{}, nil, nil)
	require.NoError(t, err)

	wantErr := errors.New("upstream down")
	_, err = c.GetOrFetch(context.Background(), "/companies", "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
