package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// slowProvider blocks until its context is cancelled.
type slowProvider struct{}

func (s *slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowProvider) ModelID() string { return "slow" }

func TestWithTimeout_DeadlineMapsToErrTimeout(t *testing.T) {
	p := WithTimeout(&slowProvider{}, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var timeout *ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected ErrTimeout, got: %T (%v)", err, err)
	}
	if timeout.Model != "slow" {
		t.Fatalf("expected model in error, got %q", timeout.Model)
	}
}

func TestWithTimeout_ParentCancellationPassesThrough(t *testing.T) {
	p := WithTimeout(&slowProvider{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	var timeout *ErrTimeout
	if errors.As(err, &timeout) {
		t.Fatal("parent cancellation must not be reported as a provider timeout")
	}
}

func TestWithTimeout_FastCallSucceeds(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithTimeout(mock, time.Second)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
}
