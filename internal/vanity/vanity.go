// Package vanity grinds random keypairs until one's Base58 address
// starts with a requested prefix.
package vanity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"

	"github.com/AlexZinkM/solkeep/internal/keypair"
)

// ErrInvalidPrefix means the prefix contains characters outside the
// Base58 alphabet (which excludes 0, O, I and l).
var ErrInvalidPrefix = errors.New("vanity: prefix contains characters not in the Base58 alphabet")

// checkEvery is the per-worker cadence (in attempts) for stop-flag and
// counter updates. Bounds worker exit latency after a stop.
const checkEvery = 64

// Status tags how the search ended.
type Status int

const (
	Found Status = iota
	Cancelled
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Cancelled:
		return "cancelled"
	default:
		return "timed out"
	}
}

// Options configures a search.
type Options struct {
	Prefix          string
	CaseInsensitive bool
	Threads         int           // <=0 means min(GOMAXPROCS, 8)
	Timeout         time.Duration // <=0 means no timeout
	ProgressEvery   time.Duration // <=0 means 100ms
}

// Stats describes the work done.
type Stats struct {
	Attempts uint64
	Elapsed  time.Duration
	Threads  int
}

// Progress is a point-in-time sample forwarded to the caller.
type Progress struct {
	Attempts uint64
	Rate     float64 // attempts per second since the last sample
	Elapsed  time.Duration
}

// Result is the search outcome. Keypair is only set when Status is
// Found; the caller takes ownership of the secret and must wipe it.
type Result struct {
	Status  Status
	Keypair keypair.Keypair
	Stats   Stats
}

// Search runs opts.Threads workers grinding fresh keypairs until one
// matches, ctx is cancelled, or the timeout passes. Every worker is
// joined before Search returns. If progress is non-nil it receives
// samples at the configured cadence; sends never block, and the
// channel is closed before return.
func Search(ctx context.Context, opts Options, progress chan<- Progress) (Result, error) {
	if progress != nil {
		defer close(progress)
	}

	if err := ValidatePrefix(opts.Prefix); err != nil {
		return Result{}, err
	}

	threads := opts.Threads
	if threads <= 0 {
		threads = min(runtime.GOMAXPROCS(0), 8)
	}
	interval := opts.ProgressEvery
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	want := opts.Prefix
	if opts.CaseInsensitive {
		want = strings.ToLower(want)
	}

	var (
		attempts atomic.Uint64
		stop     atomic.Bool
		winOnce  sync.Once
		winner   keypair.Keypair
		found    atomic.Bool
		wg       sync.WaitGroup
	)
	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	// Raise the stop flag when the context ends for any reason.
	ctxDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stop.Store(true)
		case <-ctxDone:
		}
	}()
	defer close(ctxDone)

	for range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local uint64
			for !stop.Load() {
				for range checkEvery {
					kp, err := keypair.Generate()
					if err != nil {
						continue
					}
					local++
					addr := kp.Address()
					if opts.CaseInsensitive {
						addr = strings.ToLower(addr)
					}
					if strings.HasPrefix(addr, want) {
						published := false
						winOnce.Do(func() {
							winner = kp
							found.Store(true)
							published = true
						})
						if !published {
							// A racer published first; discard ours.
							kp.Zero()
						}
						stop.Store(true)
						attempts.Add(local)
						return
					}
					kp.Zero()
				}
				attempts.Add(local)
				local = 0
			}
			attempts.Add(local)
		}()
	}

	// Progress sampler on the calling side of the pool.
	samplerQuit := make(chan struct{})
	samplerDone := make(chan struct{})
	go func() {
		defer close(samplerDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var lastCount uint64
		lastTime := start
		for {
			select {
			case <-samplerQuit:
				return
			case <-ticker.C:
			}
			now := time.Now()
			count := attempts.Load()
			rate := float64(count-lastCount) / now.Sub(lastTime).Seconds()
			if progress != nil {
				select {
				case progress <- Progress{Attempts: count, Rate: rate, Elapsed: now.Sub(start)}:
				default:
				}
			}
			lastCount, lastTime = count, now
		}
	}()

	wg.Wait()
	stop.Store(true)
	close(samplerQuit)
	<-samplerDone

	stats := Stats{
		Attempts: attempts.Load(),
		Elapsed:  time.Since(start),
		Threads:  threads,
	}

	switch {
	case found.Load():
		return Result{Status: Found, Keypair: winner, Stats: stats}, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Result{Status: TimedOut, Stats: stats}, nil
	default:
		return Result{Status: Cancelled, Stats: stats}, nil
	}
}

// ValidatePrefix rejects prefixes outside the Base58 alphabet before
// any worker is spawned. Decoding doubles as the alphabet check: the
// Bitcoin alphabet has no 0, O, I or l.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: prefix is empty", ErrInvalidPrefix)
	}
	if _, err := base58.Decode(prefix); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return nil
}
