package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/rollover"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	errAt map[int]error
}

func (f *fakeRunner) RunIfDue(ctx context.Context) (*rollover.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errAt[f.calls]; err != nil {
		return nil, err
	}
	return &rollover.Result{Ran: f.calls == 1, Date: models.DateOf(time.Now()), Archived: 2}, nil
}

func (f *fakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRolloverListener_PollsUntilStopped(t *testing.T) {
	runner := &fakeRunner{errAt: map[int]error{2: errors.New("disk full")}}
	l := NewRolloverListener(RolloverListenerConfig{Runner: runner, PollingInterval: 5 * time.Millisecond})

	require.NoError(t, l.Start(context.Background()))

	result, err := l.LastResult()
	require.NoError(t, err)
	assert.True(t, result.Ran)

	// A failed tick does not stop the loop
	assert.Eventually(t, func() bool { return runner.Calls() >= 3 }, time.Second, time.Millisecond)

	l.Stop()
	stopped := runner.Calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runner.Calls())
	assert.Equal(t, stopped, l.Checks())

	// Stop is idempotent
	l.Stop()
}

func TestRolloverListener_StartFailure(t *testing.T) {
	runner := &fakeRunner{errAt: map[int]error{1: errors.New("locked")}}
	l := NewRolloverListener(RolloverListenerConfig{Runner: runner, PollingInterval: time.Millisecond})

	err := l.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	_, lastErr := l.LastResult()
	assert.Error(t, lastErr)
}

func TestRolloverListener_InvalidInterval(t *testing.T) {
	l := NewRolloverListener(RolloverListenerConfig{Runner: &fakeRunner{}})
	assert.Error(t, l.Start(context.Background()))
}

func TestRolloverListener_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewRolloverListener(RolloverListenerConfig{Runner: &fakeRunner{}, PollingInterval: time.Hour})
	require.NoError(t, l.Start(ctx))

	cancel()
	select {
	case <-l.doneChan:
	case <-time.After(time.Second):
		t.Fatal("poll loop did not exit on context cancel")
	}
}
