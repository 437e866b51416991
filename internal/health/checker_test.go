package health

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name  string
	err   error
	delay time.Duration
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.err
}

func TestManager_RunChecks(t *testing.T) {
	manager := NewManager(logrus.New())
	manager.Register(&mockChecker{name: "ok"})
	manager.Register(&mockChecker{name: "down", err: errors.New("redis ping failed")})
	manager.Register(&mockChecker{name: "slow", err: fmt.Errorf("%w: 1 undecodable generator", ErrDegraded)})

	results := manager.RunChecks(context.Background())
	require.Len(t, results, 3)

	assert.Equal(t, StatusOK, results["ok"].Status)
	assert.Empty(t, results["ok"].Message)

	assert.Equal(t, StatusDown, results["down"].Status)
	assert.Contains(t, results["down"].Message, "redis ping failed")

	assert.Equal(t, StatusDegraded, results["slow"].Status)
	assert.Contains(t, results["slow"].Message, "undecodable")

	stored := manager.GetResults()
	assert.Len(t, stored, 3)
}

func TestManager_GetOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{
			name:     "all healthy",
			checkers: []Checker{&mockChecker{name: "c1"}, &mockChecker{name: "c2"}},
			want:     StatusOK,
		},
		{
			name: "degraded",
			checkers: []Checker{
				&mockChecker{name: "c1"},
				&mockChecker{name: "c2", err: ErrDegraded},
			},
			want: StatusDegraded,
		},
		{
			name: "down wins over degraded",
			checkers: []Checker{
				&mockChecker{name: "c1", err: ErrDegraded},
				&mockChecker{name: "c2", err: errors.New("error")},
			},
			want: StatusDown,
		},
		{
			name:     "no checkers",
			checkers: nil,
			want:     StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(logrus.New())
			for _, c := range tt.checkers {
				manager.Register(c)
			}
			if len(tt.checkers) > 0 {
				manager.RunChecks(context.Background())
			}
			assert.Equal(t, tt.want, manager.GetOverallStatus())
		})
	}
}

func TestManager_Timeout(t *testing.T) {
	manager := NewManager(logrus.New())
	manager.SetCheckTimeout(50 * time.Millisecond)
	manager.Register(&mockChecker{name: "slow", delay: 10 * time.Second})

	start := time.Now()
	results := manager.RunChecks(context.Background())
	assert.Less(t, time.Since(start), 5*time.Second)

	check := results["slow"]
	require.NotNil(t, check)
	assert.Equal(t, StatusDown, check.Status)
	assert.Contains(t, check.Message, "timed out")
}

func TestManager_CheckerFunc(t *testing.T) {
	manager := NewManager(logrus.New())
	manager.Register(CheckerFunc{
		CheckName: "func",
		Fn:        func(ctx context.Context) error { return nil },
	})

	results := manager.RunChecks(context.Background())
	require.Contains(t, results, "func")
	assert.Equal(t, StatusOK, results["func"].Status)
}

func TestStartPeriodicChecks(t *testing.T) {
	manager := NewManager(logrus.New())
	manager.Register(&mockChecker{name: "tick"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.StartPeriodicChecks(ctx, 20*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return manager.GetResults()["tick"] != nil
	}, time.Second, 10*time.Millisecond)

	first := manager.GetResults()["tick"].LastChecked
	require.Eventually(t, func() bool {
		return manager.GetResults()["tick"].LastChecked.After(first)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("periodic checks did not stop")
	}
}

func TestCheckDurationTracking(t *testing.T) {
	manager := NewManager(logrus.New())
	manager.Register(&mockChecker{name: "delayed", delay: 50 * time.Millisecond})

	check := manager.RunChecks(context.Background())["delayed"]
	require.NotNil(t, check)
	assert.GreaterOrEqual(t, check.Duration, 50*time.Millisecond)
	assert.GreaterOrEqual(t, check.DurationMS, float64(50))
}
