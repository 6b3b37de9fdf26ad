package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testExecutor() *Executor {
	return &Executor{
		MaxAttempts:      5,
		InitialDelay:     time.Millisecond,
		MaxDelay:         30 * time.Millisecond,
		Multiplier:       2.0,
		QualityThreshold: 9.5,
	}
}

func TestDoFirstAttemptSuccess(t *testing.T) {
	e := testExecutor()
	attempts := 0
	onAttemptCalls := 0

	value, score, err := e.Do(context.Background(), func(ctx context.Context) (string, float64, error) {
		attempts++
		return "v", 10.0, nil
	}, func(attempt int, delay time.Duration) {
		onAttemptCalls++
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if value != "v" || score != 10.0 {
		t.Fatalf("expected (v, 10.0), got (%s, %.1f)", value, score)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if onAttemptCalls != 0 {
		t.Fatalf("expected zero onAttempt calls, got %d", onAttemptCalls)
	}
}

func TestDoLowScoreExhaustsAttemptsAndReturnsBestEffort(t *testing.T) {
	e := testExecutor()
	attempts := 0

	value, score, err := e.Do(context.Background(), func(ctx context.Context) (string, float64, error) {
		attempts++
		return "v", 3.0, nil
	}, nil)
	if err != nil {
		t.Fatalf("low score must not fail: %v", err)
	}
	if value != "v" || score != 3.0 {
		t.Fatalf("expected (v, 3.0), got (%s, %.1f)", value, score)
	}
	if attempts != e.MaxAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", e.MaxAttempts, attempts)
	}
}

func TestDoErrorExhaustsAttemptsAndPropagates(t *testing.T) {
	e := testExecutor()
	attempts := 0
	boom := errors.New("backend down")

	_, _, err := e.Do(context.Background(), func(ctx context.Context) (string, float64, error) {
		attempts++
		return "", 0, boom
	}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
	if attempts != e.MaxAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", e.MaxAttempts, attempts)
	}
}

func TestDoRecoversAfterTransientError(t *testing.T) {
	e := testExecutor()
	attempts := 0

	value, score, err := e.Do(context.Background(), func(ctx context.Context) (string, float64, error) {
		attempts++
		if attempts < 3 {
			return "", 0, errors.New("transient")
		}
		return "ok", 9.9, nil
	}, nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if value != "ok" || score != 9.9 {
		t.Fatalf("expected (ok, 9.9), got (%s, %.1f)", value, score)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoReportsAttemptAndDelayBeforeEachSleep(t *testing.T) {
	e := testExecutor()
	var gotAttempts []int
	var gotDelays []time.Duration

	_, _, err := e.Do(context.Background(), func(ctx context.Context) (string, float64, error) {
		return "v", 1.0, nil
	}, func(attempt int, delay time.Duration) {
		gotAttempts = append(gotAttempts, attempt)
		gotDelays = append(gotDelays, delay)
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	// Sleeps happen after attempts 1..4; the final attempt returns directly.
	wantAttempts := []int{1, 2, 3, 4}
	wantDelays := []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 8 * time.Millisecond,
	}
	if len(gotAttempts) != len(wantAttempts) {
		t.Fatalf("expected %d onAttempt calls, got %d", len(wantAttempts), len(gotAttempts))
	}
	for i := range wantAttempts {
		if gotAttempts[i] != wantAttempts[i] {
			t.Fatalf("attempt %d: expected %d, got %d", i, wantAttempts[i], gotAttempts[i])
		}
		if gotDelays[i] != wantDelays[i] {
			t.Fatalf("delay %d: expected %v, got %v", i, wantDelays[i], gotDelays[i])
		}
	}
}

func TestDelayForReferenceSequence(t *testing.T) {
	e := New()

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for i, w := range want {
		if got := e.DelayFor(i + 1); got != w {
			t.Fatalf("DelayFor(%d): expected %v, got %v", i+1, w, got)
		}
	}

	// Past the cap the delay clamps.
	if got := e.DelayFor(7); got != 30*time.Second {
		t.Fatalf("DelayFor(7): expected 30s cap, got %v", got)
	}
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	e := testExecutor()
	e.InitialDelay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, _, err := e.Do(ctx, func(ctx context.Context) (string, float64, error) {
		return "v", 1.0, nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
