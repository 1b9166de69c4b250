package httpserver

import (
	"sync"
	"testing"
)

func TestSessionLocksSerializeSameID(t *testing.T) {
	var (
		locks   sessionLocks
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("s1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if n := locks.size(); n != 0 {
		t.Fatalf("%d locks left after release", n)
	}
}

func TestSessionLocksIndependentIDs(t *testing.T) {
	var locks sessionLocks
	unlockA := locks.lock("a")
	// Must not block while "a" is held.
	unlockB := locks.lock("b")
	if n := locks.size(); n != 2 {
		t.Fatalf("size = %d, want 2", n)
	}
	unlockB()
	unlockA()
	if n := locks.size(); n != 0 {
		t.Fatalf("size = %d, want 0", n)
	}
}
