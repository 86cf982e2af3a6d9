package client

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey_CanonicalParams(t *testing.T) {
	a := url.Values{}
	a.Set("status", "new")
	a.Set("page", "2")

	b := url.Values{}
	b.Set("page", "2")
	b.Set("status", "new")

	assert.Equal(t, NewKey("contacts", a), NewKey("contacts", b),
		"parameter order must not change the key")
	assert.NotEqual(t, NewKey("contacts", a), NewKey("volunteers", a))
}

func TestCache_ConcurrentReadsShareOneFetch(t *testing.T) {
	cache := NewCache()
	key := NewKey("contacts", nil)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "payload", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Get(context.Background(), key, fetch)
			assert.NoError(t, err)
			assert.Equal(t, "payload", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "identical concurrent reads share one fetch")
}

func TestCache_StaleServesOldValueAndRefetchesOnce(t *testing.T) {
	cache := NewCache()
	key := NewKey("contacts", nil)

	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (interface{}, error) {
		n := calls.Add(1)
		if n == 1 {
			return "v1", nil
		}
		<-release
		return "v2", nil
	}

	v, err := cache.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	cache.Invalidate("contacts")

	// Stale reads return the last good value immediately; only one
	// background refetch runs no matter how many readers hit the key.
	for i := 0; i < 5; i++ {
		v, err = cache.Get(context.Background(), key, fetch)
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	close(release)

	assert.Eventually(t, func() bool {
		v, err := cache.Get(context.Background(), key, fetch)
		return err == nil && v == "v2"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "exactly one refetch after invalidation")
}

func TestCache_ErrorsRetainedPerKey(t *testing.T) {
	cache := NewCache()
	bad := NewKey("contacts", nil)
	good := NewKey("volunteers", nil)

	var badCalls atomic.Int32
	boom := errors.New("boom")
	badFetch := func(ctx context.Context) (interface{}, error) {
		badCalls.Add(1)
		return nil, boom
	}
	goodFetch := func(ctx context.Context) (interface{}, error) {
		return "fine", nil
	}

	_, err := cache.Get(context.Background(), bad, badFetch)
	assert.ErrorIs(t, err, boom)

	// The error is retained: a later read does not refetch on its own.
	_, err = cache.Get(context.Background(), bad, badFetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), badCalls.Load())

	// Other keys are unaffected.
	v, err := cache.Get(context.Background(), good, goodFetch)
	require.NoError(t, err)
	assert.Equal(t, "fine", v)

	// Invalidation drops the errored entry; the next read blocks on a
	// fresh fetch.
	cache.Invalidate("contacts")
	_, err = cache.Get(context.Background(), bad, badFetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), badCalls.Load())
}

func TestCache_InvalidateOnlyNamedResources(t *testing.T) {
	cache := NewCache()
	contacts := NewKey("contacts", nil)
	volunteers := NewKey("volunteers", nil)

	var contactCalls, volunteerCalls atomic.Int32
	fetchContacts := func(ctx context.Context) (interface{}, error) {
		return int(contactCalls.Add(1)), nil
	}
	fetchVolunteers := func(ctx context.Context) (interface{}, error) {
		return int(volunteerCalls.Add(1)), nil
	}

	_, err := cache.Get(context.Background(), contacts, fetchContacts)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), volunteers, fetchVolunteers)
	require.NoError(t, err)

	cache.Invalidate("contacts")

	assert.Eventually(t, func() bool {
		v, err := cache.Get(context.Background(), contacts, fetchContacts)
		return err == nil && v == 2
	}, time.Second, 10*time.Millisecond)

	v, err := cache.Get(context.Background(), volunteers, fetchVolunteers)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "untagged resource still fresh")
}
