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

// Hooks are the six overridable lifecycle callbacks, invoked synchronously
// on the goroutine that pushed the phase. Embed BaseHooks to override only
// the ones you need.
type Hooks interface {
	OnCreate()
	OnBind()
	OnResume()
	OnPause()
	OnUnbind()
	OnDestroy()
}

// BaseHooks is the no-op implementation of Hooks.
type BaseHooks struct{}

func (BaseHooks) OnCreate()  {}
func (BaseHooks) OnBind()    {}
func (BaseHooks) OnResume()  {}
func (BaseHooks) OnPause()   {}
func (BaseHooks) OnUnbind()  {}
func (BaseHooks) OnDestroy() {}

// Message is an application-defined routed message. Attached children
// forward theirs to the parent's message stream, all the way up the
// attachment chain.
type Message any

// Model is the lifecycle coordination core of one presentation model.
//
// A model is single-threaded-reentrant: the caller serializes all Push
// calls on one goroutine (typically the host UI goroutine). No Push-side
// state is locked; Host provides the serialized variant for concurrent
// callers. All effects of a Push - hook execution, scope clearing, channel
// delivery, child propagation - complete synchronously before Push
// returns.
type Model struct {
	name  string
	conf  *Config
	hooks Hooks

	phase   Phase
	bound   bool
	resumed bool
	inert   bool

	phases   *cell[Phase]
	messages *cell[Message]

	untilPause   Scope
	untilUnbind  Scope
	untilDestroy Scope

	// non-owning back-link, used only for routed-message forwarding and
	// child-list pruning; never keeps a destroyed parent alive
	parent   *Model
	children []*Model

	// command flush callbacks, in channel-creation order
	flushers []func()

	metrics *Metrics
	tel     *Telemetry
	logger  *logger
}

// Option configures a Model at construction.
type Option func(*Model)

// WithName sets the model name used in logs, metrics and debug dumps.
func WithName(name string) Option {
	return func(m *Model) { m.name = name }
}

// WithConfig overrides the package defaults for this model.
func WithConfig(conf *Config) Option {
	return func(m *Model) {
		if conf != nil {
			m.conf = conf
		}
	}
}

// WithMetrics attaches prometheus metrics to this model.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Model) { m.metrics = metrics }
}

// WithTelemetry attaches an OTel meter/tracer pair to this model.
func WithTelemetry(tel *Telemetry) Option {
	return func(m *Model) { m.tel = tel }
}

// New constructs a model with all scopes empty and phase absent. A nil
// hooks means all six callbacks are no-ops.
func New(hooks Hooks, opts ...Option) *Model {
	if hooks == nil {
		hooks = BaseHooks{}
	}
	m := &Model{
		name:     "model",
		conf:     DefaultConfig(),
		hooks:    hooks,
		phases:   newCell[Phase](true),
		messages: newCell[Message](false),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = newLogger(m.name, m.conf.LogOutput)
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Phase returns the current phase; PhaseUnknown before the first Push.
func (m *Model) Phase() Phase { return m.phase }

// IsBound reports whether the model is between BINDED and UNBINDED.
func (m *Model) IsBound() bool { return m.bound }

// IsResumed reports whether the model is between RESUMED and PAUSED.
// Command delivery is gated on this flag.
func (m *Model) IsResumed() bool { return m.resumed }

// IsDestroyed reports whether the model is inert. An inert model rejects
// every further Push.
func (m *Model) IsDestroyed() bool { return m.inert }

// UntilPause is the scope cleared on every PAUSED transition.
func (m *Model) UntilPause() *Scope { return &m.untilPause }

// UntilUnbind is the scope cleared on every UNBINDED transition.
func (m *Model) UntilUnbind() *Scope { return &m.untilUnbind }

// UntilDestroy is the scope cleared, finally, on the DESTROYED transition.
func (m *Model) UntilDestroy() *Scope { return &m.untilDestroy }

// ChildCount returns the number of currently attached children.
func (m *Model) ChildCount() int { return len(m.children) }

// ObservePhase subscribes fn to the model's phase stream. The latest phase
// is replayed immediately when present.
func (m *Model) ObservePhase(fn func(Phase)) *Subscription[Phase] {
	return m.phases.subscribe(fn, false)
}

// Push attempts a lifecycle transition to p.
//
// It fails with ErrIllegalTransition if the model is inert or if p does
// not advance the phase order, unless (current, p) is one of the two
// permitted re-entries. On success the per-phase effects run strictly in
// this order: state flags, scope clear, hook, command flush (RESUMED
// only), then the phase broadcast. Broadcasting last guarantees a
// parent's hook always runs before its children's hooks for the same
// phase; children then fire in attachment order.
func (m *Model) Push(p Phase) error {
	if m.inert {
		m.countIllegal()
		return illegalTransition(m.phase, p)
	}
	if p <= m.phase && !reentry(m.phase, p) {
		m.countIllegal()
		return illegalTransition(m.phase, p)
	}

	from := m.phase
	m.phase = p
	switch p {
	case PhaseCreated:
		m.hooks.OnCreate()
	case PhaseBinded:
		m.bound = true
		m.hooks.OnBind()
	case PhaseResumed:
		m.resumed = true
		m.hooks.OnResume()
		for _, flush := range m.flushers {
			flush()
		}
	case PhasePaused:
		m.resumed = false
		m.untilPause.Clear()
		m.hooks.OnPause()
	case PhaseUnbinded:
		m.bound = false
		m.untilUnbind.Clear()
		m.hooks.OnUnbind()
	case PhaseDestroyed:
		m.bound = false
		m.resumed = false
		m.untilDestroy.close()
		m.hooks.OnDestroy()
		m.inert = true
	}
	m.phases.emit(p)
	if p == PhaseDestroyed && m.parent != nil {
		m.parent.removeChild(m)
		m.parent = nil
	}
	m.countTransition(from, p)
	m.logger.debugf("phase %s -> %s", from, p)
	return nil
}

// SendMessage emits a routed message on the model's outbound sink. When
// the model is attached, the message is also forwarded to the parent's
// sink (and so on up the chain) for the lifetime of the attachment.
func (m *Model) SendMessage(msg Message) {
	m.messages.emit(msg)
}

// ObserveMessages subscribes fn to the model's routed-message stream,
// which carries both its own messages and those forwarded by attached
// children.
func (m *Model) ObserveMessages(fn func(Message)) *Subscription[Message] {
	return m.messages.subscribe(fn, false)
}

// registerFlusher records a command-buffer flush callback, run on every
// RESUMED transition in channel-creation order.
func (m *Model) registerFlusher(flush func()) {
	m.flushers = append(m.flushers, flush)
}

func (m *Model) removeChild(child *Model) {
	for i, c := range m.children {
		if c == child {
			m.children = append(m.children[:i], m.children[i+1:]...)
			return
		}
	}
}

func (m *Model) countTransition(from, to Phase) {
	if m.metrics != nil {
		m.metrics.Transitions.WithLabelValues(to.String()).Inc()
		if from == PhaseUnknown && to != PhaseUnknown {
			m.metrics.LiveModels.Inc()
		}
		if to == PhaseDestroyed {
			m.metrics.LiveModels.Dec()
		}
	}
	if m.tel != nil {
		m.tel.recordTransition(m.name, to)
	}
}

func (m *Model) countIllegal() {
	if m.metrics != nil {
		m.metrics.IllegalTransitions.Inc()
	}
}

func (m *Model) gaugeBufferedCommands(delta float64) {
	if m.metrics != nil {
		m.metrics.BufferedCommands.Add(delta)
	}
}
