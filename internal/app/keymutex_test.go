package app

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("team:t1")
			counter++
			km.Unlock("team:t1")
		}()
	}
	wg.Wait()

	if counter != 64 {
		t.Fatalf("expected 64 serialized increments, got %d", counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	km.Lock("team:t1")

	done := make(chan struct{})
	go func() {
		km.Lock("team:t2")
		km.Unlock("team:t2")
		close(done)
	}()
	<-done // would deadlock if keys shared a lock

	km.Unlock("team:t1")
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := newKeyedMutex()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("ep:x")
			km.Unlock("ep:x")
		}()
	}
	wg.Wait()

	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Fatalf("lock table must be empty after all releases, %d entries left", n)
	}
}
