package plugin

import (
	"context"
	"sync"

	"github.com/ayusman/emojidraw/internal/emoji"
	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/shape"
)

// EventShape is the request event sent for a recognized drawing.
const EventShape = "shape"

// DefaultQueueSize is the number of pending shape events kept while
// plugins are running.
const DefaultQueueSize = 8

// Dispatcher runs matching plugins for recognized shapes on its own
// goroutine so the frame loop never waits on a plugin.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan shape.Result
	wg       sync.WaitGroup

	mu      sync.Mutex
	handled int
}

// NewDispatcher creates a Dispatcher. Call Run to start it.
func NewDispatcher(m *Manager, e *Executor, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		manager:  m,
		executor: e,
		queue:    make(chan shape.Result, queueSize),
	}
}

// Notify queues r. Misses are ignored and a full queue drops the event.
func (d *Dispatcher) Notify(r shape.Result) bool {
	if !r.OK() {
		return false
	}
	select {
	case d.queue <- r:
		return true
	default:
		logger.WithField("shape", r.Label.String()).Warn("plugin queue full, event dropped")
		return false
	}
}

// Run processes queued events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-d.queue:
			d.dispatch(ctx, r)
		}
	}
}

// Handled returns how many plugin runs have completed.
func (d *Dispatcher) Handled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handled
}

func (d *Dispatcher) dispatch(ctx context.Context, r shape.Result) {
	plugins := d.manager.ForShape(r.Label)
	if len(plugins) == 0 {
		return
	}

	for _, p := range plugins {
		d.wg.Add(1)
		go func(p *Plugin) {
			defer d.wg.Done()
			d.run(ctx, p, NewRequest(r))
		}(p)
	}
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, p *Plugin, req *Request) {
	log := logger.WithFields(map[string]interface{}{
		"plugin": p.Manifest.Name,
		"shape":  req.Shape,
	})

	resp, err := d.executor.Execute(ctx, p, req)
	d.mu.Lock()
	d.handled++
	d.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("plugin failed")
		return
	}
	if !resp.Success {
		log.WithField("error", resp.Error).Warn("plugin reported failure")
		return
	}
	log.Debug("plugin ran")
}

// NewRequest builds the plugin request for a recognized shape.
func NewRequest(r shape.Result) *Request {
	req := &Request{
		Event:  EventShape,
		Shape:  r.Label.String(),
		Center: Point{X: r.Center.X, Y: r.Center.Y},
	}
	if e, ok := emoji.ForShape(r.Label); ok {
		req.Emoji = e.Key
		req.Name = e.Name
	}
	return req
}
