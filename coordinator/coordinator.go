package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/XANi/gaia2mqtt/gaia"
	"go.uber.org/zap"
)

// DefaultInterval is how often the station is polled. The interval is also
// the only retry mechanism, a failed poll just waits for the next tick.
const DefaultInterval = 60 * time.Second

// Fetcher is the transport side of the coordinator, implemented by
// gaia.Client and by test doubles.
type Fetcher interface {
	Realtime(ctx context.Context) (map[string]any, error)
}

// Scheduler drives the periodic refresh. The production implementation is
// Ticker; tests inject a manual one.
type Scheduler interface {
	// Every calls tick repeatedly at the given interval until ctx is done.
	Every(ctx context.Context, interval time.Duration, tick func(ctx context.Context))
}

// Ticker is the wall-clock Scheduler.
type Ticker struct{}

func (Ticker) Every(ctx context.Context, interval time.Duration, tick func(ctx context.Context)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick(ctx)
		}
	}
}

type Config struct {
	Client   Fetcher
	Logger   *zap.SugaredLogger
	Interval time.Duration
}

// Coordinator runs the fetch-flatten-publish cycle and holds the latest
// snapshot. The snapshot is replaced wholesale on success and left alone on
// failure; readers always see either the previous complete poll or nil.
type Coordinator struct {
	client   Fetcher
	log      *zap.SugaredLogger
	interval time.Duration

	sync.RWMutex
	data      gaia.FlatMap
	raw       map[string]any
	lastErr   error
	onUpdate  []func(gaia.FlatMap)
	onFailure []func(error)
}

func New(cfg Config) *Coordinator {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Coordinator{
		client:   cfg.Client,
		log:      log,
		interval: interval,
	}
}

// OnUpdate registers a callback for every successful refresh. Must be
// called before Run.
func (c *Coordinator) OnUpdate(f func(gaia.FlatMap)) {
	c.onUpdate = append(c.onUpdate, f)
}

// OnFailure registers a callback for every failed refresh, so entities can
// be marked unavailable. Must be called before Run.
func (c *Coordinator) OnFailure(f func(error)) {
	c.onFailure = append(c.onFailure, f)
}

// Refresh runs a single fetch-flatten-publish cycle. The scheduler
// serializes calls, Refresh itself does not guard against overlap.
func (c *Coordinator) Refresh(ctx context.Context) error {
	raw, err := c.client.Realtime(ctx)
	if err != nil {
		c.Lock()
		c.lastErr = err
		c.Unlock()
		c.log.Warnf("station poll failed: %s", err)
		for _, f := range c.onFailure {
			f(err)
		}
		return err
	}
	flat := gaia.Flatten(raw)
	c.Lock()
	c.raw = raw
	c.data = flat
	c.lastErr = nil
	c.Unlock()
	c.log.Debugf("flattened %d keys from station data", len(flat))
	for _, f := range c.onUpdate {
		f(flat)
	}
	return nil
}

// Run refreshes on the configured interval until ctx is done. The initial
// refresh is up to the caller (setup does one to validate reachability and
// to seed entity discovery).
func (c *Coordinator) Run(ctx context.Context, s Scheduler) {
	s.Every(ctx, c.interval, func(ctx context.Context) {
		_ = c.Refresh(ctx)
	})
}

// Data returns the latest snapshot, nil before the first successful poll.
func (c *Coordinator) Data() gaia.FlatMap {
	c.RLock()
	defer c.RUnlock()
	return c.data
}

// Raw returns the last raw payload as received, kept for diagnostics.
func (c *Coordinator) Raw() map[string]any {
	c.RLock()
	defer c.RUnlock()
	return c.raw
}

// LastError returns the error of the most recent refresh, nil after a
// successful one.
func (c *Coordinator) LastError() error {
	c.RLock()
	defer c.RUnlock()
	return c.lastErr
}
