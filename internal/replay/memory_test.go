package replay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"
)

func TestMemoryTryConsumeOnce(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()

	ok, err := g.TryConsume(ctx, "nullifier-0000000001")
	if err != nil || !ok {
		t.Fatalf("first consume: ok=%v err=%v", ok, err)
	}
	ok, err = g.TryConsume(ctx, "nullifier-0000000001")
	if err != nil || ok {
		t.Fatalf("second consume should be rejected: ok=%v err=%v", ok, err)
	}
	ok, _ = g.TryConsume(ctx, "nullifier-0000000002")
	if !ok {
		t.Fatal("distinct nullifier should be accepted")
	}
}

func TestMemoryConcurrentSameNullifier(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()

	const workers = 64
	var accepted int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := g.TryConsume(ctx, "shared-nullifier-123456"); ok {
				atomic.AddInt64(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("expected exactly one acceptance, got %d", accepted)
	}
}

func TestMemoryConcurrentDistinctNullifiers(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if ok, _ := g.TryConsume(ctx, fmt.Sprintf("nullifier-%016d", i)); !ok {
				t.Errorf("nullifier %d rejected", i)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryKeepsOwnCopyOfNullifier(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()

	// Fasthttp hands out strings that alias a request buffer it later reuses.
	buf := []byte("nullifier-buffered-0001")
	aliased := unsafe.String(&buf[0], len(buf))

	if ok, _ := g.TryConsume(ctx, aliased); !ok {
		t.Fatal("first consume should be accepted")
	}
	copy(buf, "nullifier-buffered-0002")

	if ok, _ := g.TryConsume(ctx, "nullifier-buffered-0002"); !ok {
		t.Fatal("fresh nullifier rejected after buffer reuse")
	}
	if ok, _ := g.TryConsume(ctx, "nullifier-buffered-0001"); ok {
		t.Fatal("spent nullifier accepted after buffer reuse")
	}
}
