/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package presenter

import (
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/heptiolabs/healthcheck"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// Host is the concurrent-callers front of the lifecycle core: a registry
// of named root models whose phase pushes are serialized through a
// single-consumer dispatch loop per model. Concurrent Dispatch calls on
// the same model are applied in FIFO order; the core's single-threaded
// contract holds because only the dispatch goroutine ever touches the
// model.
type Host struct {
	conf    *Config
	models  cmap.ConcurrentMap[string, *hostEntry]
	metrics *Metrics
	tasks   *TaskRunner
	health  healthcheck.Handler
	logger  *logger
	closed  atomic.Bool
}

type hostEntry struct {
	model *Model
	ops   chan hostOp
	done  chan struct{}
}

type hostOp struct {
	run  func(*Model) error
	errc chan error
}

// HostStats is a point-in-time snapshot of the host.
type HostStats struct {
	Models     int
	LiveModels int
	RSSBytes   uint64
}

// HostOption configures a Host at construction.
type HostOption func(*Host)

// WithRegistry registers the host's metrics on reg instead of leaving
// them unregistered.
func WithRegistry(reg prometheus.Registerer) HostOption {
	return func(h *Host) { h.metrics = NewMetrics(reg) }
}

// NewHost builds a host from conf (nil means DefaultConfig).
func NewHost(conf *Config, opts ...HostOption) (*Host, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := VerifyConfig(conf); err != nil {
		return nil, err
	}
	tasks, err := NewTaskRunner(conf)
	if err != nil {
		return nil, err
	}
	h := &Host{
		conf:   conf,
		models: cmap.New[*hostEntry](),
		tasks:  tasks,
		logger: newLogger("host", conf.LogOutput),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(nil)
	}
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(conf.HealthGoroutineLimit))
	health.AddReadinessCheck("host-open", func() error {
		if h.closed.Load() {
			return ErrHostClosed
		}
		return nil
	})
	// a destroyed model still registered is a leak in the embedding host
	health.AddReadinessCheck("models-live", func() error {
		for name, e := range h.models.Items() {
			var inert bool
			if err := e.do(func(m *Model) error {
				inert = m.IsDestroyed()
				return nil
			}); err != nil {
				return err
			}
			if inert {
				return fmt.Errorf("model %q destroyed but still registered", name)
			}
		}
		return nil
	})
	h.health = health
	return h, nil
}

// Add registers m under name and starts its dispatch loop. The model
// inherits the host's metrics unless it carries its own.
func (h *Host) Add(name string, m *Model) error {
	if h.closed.Load() {
		return ErrHostClosed
	}
	if m == nil {
		return fmt.Errorf("model is nil")
	}
	if m.metrics == nil {
		m.metrics = h.metrics
	}
	e := &hostEntry{
		model: m,
		ops:   make(chan hostOp, h.conf.DispatchBacklog),
		done:  make(chan struct{}),
	}
	if !h.models.SetIfAbsent(name, e) {
		return fmt.Errorf("model %q already registered", name)
	}
	go e.loop()
	if debugMode {
		DebugModelTree(m)
	}
	h.logger.infof("registered model %q", name)
	return nil
}

func (e *hostEntry) loop() {
	for {
		select {
		case op := <-e.ops:
			op.errc <- op.run(e.model)
		case <-e.done:
			return
		}
	}
}

func (e *hostEntry) do(run func(*Model) error) error {
	op := hostOp{run: run, errc: make(chan error, 1)}
	select {
	case e.ops <- op:
	case <-e.done:
		return ErrHostClosed
	}
	select {
	case err := <-op.errc:
		return err
	case <-e.done:
		return ErrHostClosed
	}
}

func (h *Host) do(name string, run func(*Model) error) error {
	if h.closed.Load() {
		return ErrHostClosed
	}
	e, ok := h.models.Get(name)
	if !ok {
		return fmt.Errorf("model %q not registered", name)
	}
	return e.do(run)
}

// Get returns the registered model. Callers must not Push on it directly;
// use Dispatch and the canonical drivers.
func (h *Host) Get(name string) (*Model, bool) {
	e, ok := h.models.Get(name)
	if !ok {
		return nil, false
	}
	return e.model, true
}

// Dispatch pushes p on the named model through its serialized loop and
// returns the push result.
func (h *Host) Dispatch(name string, p Phase) error {
	return h.do(name, func(m *Model) error { return m.Push(p) })
}

// Bind drives the named model to BINDED along the canonical path
// (creating it first when needed, re-binding after UNBINDED).
func (h *Host) Bind(name string) error {
	return h.do(name, func(m *Model) error { return DriveTo(m, PhaseBinded, PathAll) })
}

// Resume drives the named model to RESUMED along the canonical path.
func (h *Host) Resume(name string) error {
	return h.do(name, func(m *Model) error { return DriveTo(m, PhaseResumed, PathAll) })
}

// Pause drives the named model to PAUSED.
func (h *Host) Pause(name string) error {
	return h.do(name, func(m *Model) error { return DriveTo(m, PhasePaused, PathAll) })
}

// Unbind drives the named model to UNBINDED.
func (h *Host) Unbind(name string) error {
	return h.do(name, func(m *Model) error { return DriveTo(m, PhaseUnbinded, PathAll) })
}

// Destroy drives the named model to DESTROYED. The model stays registered
// (and trips the readiness check) until Remove.
func (h *Host) Destroy(name string) error {
	return h.do(name, func(m *Model) error { return DriveTo(m, PhaseDestroyed, PathAll) })
}

// Remove detaches the named model (driving it to DESTROYED), stops its
// dispatch loop and unregisters it.
func (h *Host) Remove(name string) error {
	e, ok := h.models.Pop(name)
	if !ok {
		return fmt.Errorf("model %q not registered", name)
	}
	err := e.do(func(m *Model) error { return m.Detach() })
	close(e.done)
	return err
}

// Close detaches and unregisters every model, then releases the task
// pool. Idempotent.
func (h *Host) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	var firstErr error
	for _, name := range h.models.Keys() {
		e, ok := h.models.Pop(name)
		if !ok {
			continue
		}
		if err := e.do(func(m *Model) error { return m.Detach() }); err != nil && firstErr == nil {
			firstErr = err
		}
		close(e.done)
	}
	h.tasks.Close()
	return firstErr
}

// Tasks returns the host's shared task runner.
func (h *Host) Tasks() *TaskRunner { return h.tasks }

// Metrics returns the host's instrument set.
func (h *Host) Metrics() *Metrics { return h.metrics }

// HealthHandler returns the /live and /ready handler for this host. The
// module opens no sockets; mounting the handler is the embedder's call.
func (h *Host) HealthHandler() http.Handler { return h.health }

// Stats snapshots the host. Phase reads go through each model's dispatch
// loop, so the snapshot is consistent per model.
func (h *Host) Stats() HostStats {
	stats := HostStats{Models: h.models.Count()}
	for _, e := range h.models.Items() {
		_ = e.do(func(m *Model) error {
			if m.Phase() != PhaseUnknown && !m.IsDestroyed() {
				stats.LiveModels++
			}
			return nil
		})
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			stats.RSSBytes = mem.RSS
		}
	}
	return stats
}
