// Package timeouts centralizes the context deadlines used around remote
// platform calls and database operations.
//
// Guidelines:
//   - Ping: health checks and connectivity probes
//   - Short: single lookups (member fetch, config read)
//   - Long: multi-step side-effecting sequences (an onboarding run)
//   - Batch: bulk provisioning and teardown
package timeouts

import (
	"sync"
	"time"
)

// Defaults used when Configure is not called.
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultLong  = 30 * time.Second
	DefaultBatch = 10 * time.Minute
)

var (
	mu    sync.RWMutex
	ping  = DefaultPing
	short = DefaultShort
	long  = DefaultLong
	batch = DefaultBatch
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single remote lookups.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Long returns the timeout for a full onboarding workflow run, which makes up
// to eight remote calls in sequence.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Batch returns the timeout for bulk provisioning, which creates three
// platform objects per region with a pause between batches.
func Batch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return batch
}

// Config holds override values. Zero fields keep the current value.
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Long  time.Duration
	Batch time.Duration
}

// Configure sets custom timeout values during startup, before handlers are
// registered. Zero values in the config are ignored.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	long = DefaultLong
	batch = DefaultBatch
}
