package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoDeduplicatesConcurrentCalls(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "topics", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = s.Do("topics", fn)
	}()
	<-started
	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, _ = s.Do("topics", fn)
		}(i)
	}
	// Give the joiners a moment to attach to the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fn ran %d times, want 1", n)
	}
	for i, r := range results {
		if r != "topics" {
			t.Errorf("result[%d] = %v", i, r)
		}
	}
}

func TestCloseCancelsInFlight(t *testing.T) {
	s := NewScope(context.Background())

	errc := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		_, err := Get(s, "slow", func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		})
		errc <- err
	}()

	<-started
	s.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("call was not cancelled")
	}

	if !s.Closed() {
		t.Error("Closed() = false")
	}
	s.Close() // second close is a no-op

	if _, _, err := s.Do("after", func(context.Context) (any, error) { return 1, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Do after close err = %v", err)
	}
}

func TestGetTyped(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	n, err := Get(s, "n", func(context.Context) (int, error) { return 42, nil })
	if err != nil || n != 42 {
		t.Errorf("Get = %d, %v", n, err)
	}

	boom := errors.New("boom")
	if _, err := Get(s, "e", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestAllCancelsSiblingsOnError(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	boom := errors.New("boom")
	var sawCancel atomic.Bool
	err := s.All(
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				sawCancel.Store(true)
			case <-time.After(time.Second):
			}
			return nil
		},
	)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if !sawCancel.Load() {
		t.Error("sibling was not cancelled")
	}
}
