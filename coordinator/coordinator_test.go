package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XANi/gaia2mqtt/gaia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	payload map[string]any
	err     error
	calls   int
}

func (f *fakeFetcher) Realtime(_ context.Context) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

// manualScheduler fires ticks on demand instead of on the clock.
type manualScheduler struct {
	ticks chan struct{}
}

func (m *manualScheduler) Every(ctx context.Context, _ time.Duration, tick func(ctx context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-m.ticks:
			if !ok {
				return
			}
			tick(ctx)
		}
	}
}

func TestRefreshSuccess(t *testing.T) {
	f := &fakeFetcher{payload: map[string]any{
		"sys": map[string]any{"boot": float64(3)},
	}}
	c := New(Config{Client: f})

	var published gaia.FlatMap
	c.OnUpdate(func(flat gaia.FlatMap) { published = flat })

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, gaia.FlatMap{"sys_boot": float64(3)}, c.Data())
	assert.Equal(t, f.payload, c.Raw())
	assert.Equal(t, c.Data(), published)
	assert.NoError(t, c.LastError())
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	f := &fakeFetcher{payload: map[string]any{
		"co2": map[string]any{"rolling": map[string]any{"latest": float64(600)}},
	}}
	c := New(Config{Client: f})
	require.NoError(t, c.Refresh(context.Background()))
	before := c.Data()

	pollErr := errors.New("connection refused")
	f.err = pollErr
	var failed error
	c.OnFailure(func(err error) { failed = err })

	require.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, before, c.Data(), "failed poll must not replace the snapshot")
	assert.Equal(t, pollErr, c.LastError())
	assert.Equal(t, pollErr, failed)
}

func TestDataNilBeforeFirstPoll(t *testing.T) {
	c := New(Config{Client: &fakeFetcher{}})
	assert.Nil(t, c.Data())
	assert.Nil(t, c.Raw())
}

func TestSnapshotReplacedNotMerged(t *testing.T) {
	f := &fakeFetcher{payload: map[string]any{
		"sys": map[string]any{"boot": float64(1), "heap": float64(1000)},
	}}
	c := New(Config{Client: f})
	require.NoError(t, c.Refresh(context.Background()))

	f.payload = map[string]any{"sys": map[string]any{"boot": float64(2)}}
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, gaia.FlatMap{"sys_boot": float64(2)}, c.Data(),
		"keys absent from the new poll must not survive from the old one")
}

func TestRunDrivenByScheduler(t *testing.T) {
	f := &fakeFetcher{payload: map[string]any{}}
	c := New(Config{Client: f})

	s := &manualScheduler{ticks: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, s)
		close(done)
	}()

	for range 3 {
		s.ticks <- struct{}{}
	}
	cancel()
	<-done
	assert.Equal(t, 3, f.calls)
}
