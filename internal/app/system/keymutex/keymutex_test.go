package keymutex

import (
	"sync"
	"testing"
)

func TestLockUnlock(t *testing.T) {
	km := New()
	km.Lock("a")
	km.Unlock("a")
	km.Lock("a")
	km.Unlock("a")
}

func TestSerializesSameKey(t *testing.T) {
	km := New()
	const workers = 20

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			km.Lock("texas/austin")
			counter++ // would race without the lock
			km.Unlock("texas/austin")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}
}

func TestIndependentKeys(t *testing.T) {
	km := New()
	km.Lock("a")
	done := make(chan struct{})
	go func() {
		km.Lock("b") // must not block on "a"
		km.Unlock("b")
		close(done)
	}()
	<-done
	km.Unlock("a")
}

func TestEntriesAreReleased(t *testing.T) {
	km := New()
	for i := 0; i < 100; i++ {
		km.Lock("key")
		km.Unlock("key")
	}
	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Errorf("lock map holds %d entries after release, want 0", n)
	}
}

func TestUnlockUnheldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unlock of unheld key")
		}
	}()
	New().Unlock("never-locked")
}
