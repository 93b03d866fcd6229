package vanity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrefix(t *testing.T) {
	for _, ok := range []string{"a", "A", "ai", "9", "z", "Sun"} {
		assert.NoError(t, ValidatePrefix(ok), ok)
	}
	// 0, O, I and l are not in the Base58 alphabet.
	for _, bad := range []string{"", "0", "O", "I", "l", "Sol", "a0", "hello!", "a b"} {
		assert.ErrorIs(t, ValidatePrefix(bad), ErrInvalidPrefix, bad)
	}
}

func TestSearchInvalidPrefixFailsFast(t *testing.T) {
	start := time.Now()
	_, err := Search(context.Background(), Options{Prefix: "0", Threads: 4}, nil)
	assert.ErrorIs(t, err, ErrInvalidPrefix)
	assert.Less(t, time.Since(start), time.Second, "no workers should be spawned")
}

func TestSearchFindsSingleCharPrefix(t *testing.T) {
	res, err := Search(context.Background(), Options{
		Prefix:          "a",
		CaseInsensitive: true,
		Threads:         4,
		Timeout:         30 * time.Second,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, Found, res.Status)

	addr := res.Keypair.Address()
	assert.True(t, strings.HasPrefix(strings.ToLower(addr), "a"),
		"address %s should start with 'a' case-insensitively", addr)
	assert.GreaterOrEqual(t, res.Stats.Attempts, uint64(1))
	assert.Equal(t, 4, res.Stats.Threads)
	res.Keypair.Zero()
}

func TestSearchCaseSensitivePrefix(t *testing.T) {
	res, err := Search(context.Background(), Options{
		Prefix:  "A",
		Threads: 4,
		Timeout: 60 * time.Second,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, Found, res.Status)
	assert.True(t, strings.HasPrefix(res.Keypair.Address(), "A"))
	res.Keypair.Zero()
}

func TestSearchTimeout(t *testing.T) {
	// An 8-char prefix will not be found in 200ms.
	res, err := Search(context.Background(), Options{
		Prefix:  "zzzzzzzz",
		Threads: 2,
		Timeout: 200 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, TimedOut, res.Status)
	assert.Greater(t, res.Stats.Attempts, uint64(0))
}

func TestSearchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := Search(ctx, Options{
		Prefix:  "zzzzzzzz",
		Threads: 2,
		Timeout: 60 * time.Second,
	}, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.Status)
	// Search only returns after joining every worker, so by the time
	// we are here nothing is still grinding. The return itself should
	// come promptly after the cancel.
	assert.Less(t, elapsed, 5*time.Second)
}

func TestSearchProgressSamples(t *testing.T) {
	progress := make(chan Progress, 64)
	collected := make(chan []Progress, 1)
	go func() {
		var all []Progress
		for p := range progress {
			all = append(all, p)
		}
		collected <- all
	}()

	_, err := Search(context.Background(), Options{
		Prefix:        "zzzzzzzz",
		Threads:       2,
		Timeout:       500 * time.Millisecond,
		ProgressEvery: 50 * time.Millisecond,
	}, progress)
	require.NoError(t, err)

	all := <-collected
	require.NotEmpty(t, all, "expected at least one progress sample")
	var last uint64
	for _, p := range all {
		assert.GreaterOrEqual(t, p.Attempts, last, "attempt counter must be monotonic")
		last = p.Attempts
	}
}

func TestSearchClosesProgressChannel(t *testing.T) {
	progress := make(chan Progress, 8)
	_, err := Search(context.Background(), Options{
		Prefix:  "a",
		Threads: 2,
		Timeout: 30 * time.Second,
	}, progress)
	require.NoError(t, err)

	for {
		if _, ok := <-progress; !ok {
			return // closed, as promised
		}
	}
}
