package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{TextResponse("ok")}, false, 1},
		{"transient then success", []MockResponse{unavailable(), TextResponse("ok")}, false, 2},
		{"all attempts fail", []MockResponse{unavailable(), unavailable(), unavailable(), TextResponse("late")}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, TextResponse("ok")}, true, 1},
		{"invalid response retried once", []MockResponse{invalid, invalid, TextResponse("ok")}, true, 2},
		{"rate limit honors retry-after", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, TextResponse("ok")}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(unavailable(), TextResponse("ok"))
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_BackoffBounded(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt := 0; attempt < 6; attempt++ {
		d := r.backoff(attempt, errors.New("x"))
		if d < 0 || d > 360*time.Millisecond {
			t.Errorf("attempt %d: backoff %v out of bounds", attempt, d)
		}
	}
}

func TestWithTimeout(t *testing.T) {
	mock := NewMockProvider(TextResponse("ok"))
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Error("zero timeout should return the provider unchanged")
	}

	p := WithTimeout(mock, time.Second)
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
