package gate_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diewo77/stock-admin/gate"
)

func TestCachedResolver_CachesProfile(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.NewStaticProfile("cashier"))
	cached := gate.NewCachedResolver[string](inner, 5*time.Minute)

	p1, err := cached.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner.Set("u1", gate.NewStaticProfile("manager"))
	p2, _ := cached.Resolve(context.Background(), "u1")
	if p1.Name() != "cashier" || p2.Name() != "cashier" {
		t.Errorf("expected cached cashier, got %q then %q", p1.Name(), p2.Name())
	}
	if cached.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cached.Len())
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.NewStaticProfile("cashier"))
	inner.Set("u2", gate.NewStaticProfile("driver"))
	cached := gate.NewCachedResolver[string](inner, 5*time.Minute)

	_, _ = cached.Resolve(context.Background(), "u1")
	_, _ = cached.Resolve(context.Background(), "u2")
	inner.Set("u1", gate.NewStaticProfile("manager"))
	inner.Set("u2", gate.NewStaticProfile("admin"))

	cached.Invalidate("u1")
	if p, _ := cached.Resolve(context.Background(), "u1"); p.Name() != "manager" {
		t.Errorf("expected manager after invalidation, got %q", p.Name())
	}
	if p, _ := cached.Resolve(context.Background(), "u2"); p.Name() != "driver" {
		t.Errorf("expected u2 still cached as driver, got %q", p.Name())
	}

	cached.InvalidateAll()
	if p, _ := cached.Resolve(context.Background(), "u2"); p.Name() != "admin" {
		t.Errorf("expected admin after InvalidateAll, got %q", p.Name())
	}
}

func TestCachedResolver_Expires(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.NewStaticProfile("cashier"))
	cached := gate.NewCachedResolver[string](inner, time.Millisecond)

	_, _ = cached.Resolve(context.Background(), "u1")
	inner.Set("u1", gate.NewStaticProfile("manager"))
	time.Sleep(5 * time.Millisecond)

	if p, _ := cached.Resolve(context.Background(), "u1"); p.Name() != "manager" {
		t.Errorf("expected expired entry to refresh, got %q", p.Name())
	}
}

func TestCachedResolver_ErrorsNotCached(t *testing.T) {
	calls := 0
	inner := gate.ResolverFunc[string](func(context.Context, string) (gate.Profile, error) {
		calls++
		return nil, errors.New("backend down")
	})
	cached := gate.NewCachedResolver[string](inner, time.Minute)

	_, err1 := cached.Resolve(context.Background(), "u1")
	_, err2 := cached.Resolve(context.Background(), "u1")
	if err1 == nil || err2 == nil {
		t.Fatal("expected errors")
	}
	if calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", calls)
	}
}

func TestCachedResolver_CollapsesConcurrentMisses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	inner := gate.ResolverFunc[string](func(context.Context, string) (gate.Profile, error) {
		calls.Add(1)
		<-release
		return gate.NewStaticProfile("manager"), nil
	})
	cached := gate.NewCachedResolver[string](inner, time.Minute)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := cached.Resolve(context.Background(), "u1")
			if err != nil || p.Name() != "manager" {
				t.Errorf("got %v, %v", p, err)
			}
		}()
	}
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Errorf("expected one backend lookup, got %d", n)
	}
}

func TestCachedResolver_InvalidateDuringLookup(t *testing.T) {
	role := "cashier"
	var mu sync.Mutex
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	inner := gate.ResolverFunc[string](func(context.Context, string) (gate.Profile, error) {
		mu.Lock()
		name := role
		mu.Unlock()
		select {
		case started <- struct{}{}:
			<-release
		default:
		}
		return gate.NewStaticProfile(name), nil
	})
	cached := gate.NewCachedResolver[string](inner, time.Minute)

	done := make(chan gate.Profile)
	go func() {
		p, _ := cached.Resolve(context.Background(), "u1")
		done <- p
	}()
	<-started
	mu.Lock()
	role = "manager"
	mu.Unlock()
	cached.Invalidate("u1")
	close(release)
	if p := <-done; p.Name() != "cashier" {
		t.Fatalf("in-flight lookup should return what it read, got %q", p.Name())
	}

	p, err := cached.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "manager" {
		t.Errorf("stale profile written back after invalidation: %q", p.Name())
	}
}
