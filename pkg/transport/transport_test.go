package transport

import (
	"errors"
	"testing"
	"time"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateConnecting, "connecting"},
		{StateOpen, "open"},
		{StateClosed, "closed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestFixedDelay(t *testing.T) {
	policy := FixedDelay{Delay: 3 * time.Second}
	for attempt := 0; attempt < 5; attempt++ {
		if got := policy.Next(attempt); got != 3*time.Second {
			t.Errorf("Next(%d) = %v, want 3s", attempt, got)
		}
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	policy := ExponentialBackoff{Base: time.Second, Max: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{20, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := policy.Next(tt.attempt); got != tt.want {
			t.Errorf("Next(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	policy := ExponentialBackoff{Base: time.Second, Max: 30 * time.Second, Jitter: 0.2}

	for i := 0; i < 100; i++ {
		got := policy.Next(2) // 4s nominal
		if got < 3200*time.Millisecond || got > 4800*time.Millisecond {
			t.Fatalf("Next(2) = %v, want within 20%% of 4s", got)
		}
	}
}

func TestSendWhileNotOpen(t *testing.T) {
	c := NewClient(Config{URL: "ws://localhost:1/ws/test"})

	if got := c.State(); got != StateClosed {
		t.Fatalf("initial State() = %v, want closed", got)
	}
	if err := c.Send([]byte("hello")); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Send() error = %v, want ErrNotOpen", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	c := NewClient(Config{URL: "ws://localhost:1/ws/test"})
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := c.Send([]byte("hello")); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() error = %v, want ErrClosed", err)
	}
	if err := c.Connect(); !errors.Is(err, ErrClosed) {
		t.Errorf("Connect() error = %v, want ErrClosed", err)
	}
	// Closing twice is fine.
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestConnectReportsConnecting(t *testing.T) {
	c := NewClient(Config{
		URL:     "ws://localhost:1/ws/test",
		Backoff: FixedDelay{Delay: time.Hour},
	})

	states := make(chan State, 8)
	c.OnStatus(func(s State) { states <- s })

	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	select {
	case s := <-states:
		if s != StateConnecting {
			t.Errorf("first status = %v, want connecting", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no status callback after Connect")
	}

	// The dial to a dead port fails and reports closed before backing off.
	select {
	case s := <-states:
		if s != StateClosed {
			t.Errorf("second status = %v, want closed", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no status callback after failed dial")
	}
}

func TestDefaultBackoffConfigured(t *testing.T) {
	policy, ok := DefaultBackoff().(ExponentialBackoff)
	if !ok {
		t.Fatalf("DefaultBackoff() = %T, want ExponentialBackoff", DefaultBackoff())
	}
	if policy.Base != time.Second || policy.Max != 30*time.Second {
		t.Errorf("DefaultBackoff() = %+v, want 1s base, 30s max", policy)
	}
}
