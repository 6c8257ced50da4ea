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
	queuepkg "github.com/Workiva/go-datastructures/queue"
)

// The three channel variants connect a model to its view without leaking
// subscriptions across phase boundaries. Directionality is enforced by
// interface separation, not runtime checks: hand the view a StateReader /
// ActionWriter / CommandReader and keep the concrete type internal.

// StateReader is the view-facing side of a State: observe-only.
type StateReader[T any] interface {
	Value() (T, bool)
	Observe(fn func(T)) *Subscription[T]
}

// ActionWriter is the view-facing side of an Action: write-only.
type ActionWriter[T any] interface {
	Fire(v T)
}

// CommandReader is the view-facing side of a Command: observe-only.
type CommandReader[T any] interface {
	Observe(fn func(T)) *Subscription[T]
}

// State is a latest-value cell written by model logic and observed by the
// view. New observers receive the latest value immediately on subscribe.
type State[T any] struct {
	c *cell[T]
}

// NewState creates a State owned by m. At most one initial value may be
// supplied; it seeds the replay slot.
func NewState[T any](m *Model, initial ...T) *State[T] {
	s := &State[T]{c: newCell[T](true)}
	if len(initial) > 0 {
		s.c.last = initial[0]
		s.c.hasLast = true
	}
	return s
}

// Set stores v and broadcasts it to all current observers. Model-internal
// write side.
func (s *State[T]) Set(v T) { s.c.emit(v) }

// Value returns the latest stored value, if any.
func (s *State[T]) Value() (T, bool) { return s.c.latest() }

// Observe subscribes fn; the latest value, if present, is delivered before
// Observe returns. Register the handle into a model scope to bound its
// lifetime.
func (s *State[T]) Observe(fn func(T)) *Subscription[T] {
	return s.c.subscribe(fn, false)
}

// Action is a pass-through cell for externally originated events: written
// by the view, observed by model logic. No replay; observers attaching
// late miss prior values.
type Action[T any] struct {
	c *cell[T]
}

// NewAction creates an Action owned by m.
func NewAction[T any](m *Model) *Action[T] {
	return &Action[T]{c: newCell[T](false)}
}

// Fire broadcasts v to current observers. View-facing write side.
func (a *Action[T]) Fire(v T) { a.c.emit(v) }

// Observe subscribes fn to future events. Model-internal read side.
func (a *Action[T]) Observe(fn func(T)) *Subscription[T] {
	return a.c.subscribe(fn, false)
}

// Command is a pass-through cell for one-shot view effects, gated on the
// owning model's resumed state. Values posted while the model is not
// resumed are buffered in arrival order and flushed the instant the model
// next reaches PhaseResumed; each pause/resume cycle buffers and flushes
// independently. Effects are therefore never fired while no view can show
// them, and never silently lost.
type Command[T any] struct {
	m   *Model
	c   *cell[T]
	buf *cmdQueue
}

// NewCommand creates a Command owned by m. The buffer is disposed when m
// is destroyed.
func NewCommand[T any](m *Model) *Command[T] {
	cmd := &Command[T]{
		m:   m,
		c:   newCell[T](false),
		buf: newCmdQueue(m.conf.CommandQueueHint),
	}
	m.registerFlusher(cmd.flush)
	m.UntilDestroy().Add(CancelFunc(cmd.buf.dispose))
	return cmd
}

// Post delivers v immediately if the model is resumed, otherwise buffers
// it. When Config.MaxBufferedCommands is set and the buffer is full, the
// oldest buffered value is dropped to make room.
func (cmd *Command[T]) Post(v T) {
	if cmd.m.IsResumed() {
		cmd.c.emit(v)
		return
	}
	if limit := cmd.m.conf.MaxBufferedCommands; limit > 0 && cmd.buf.len() >= int64(limit) {
		if _, ok := cmd.buf.pop(); ok {
			cmd.m.logger.warnf("command buffer full (%d), dropping oldest", limit)
			cmd.m.gaugeBufferedCommands(-1)
		}
	}
	if cmd.buf.put(v) {
		cmd.m.gaugeBufferedCommands(1)
	}
}

// Observe subscribes fn to delivered commands. View-facing read side.
func (cmd *Command[T]) Observe(fn func(T)) *Subscription[T] {
	return cmd.c.subscribe(fn, false)
}

// Buffered returns the number of values currently withheld.
func (cmd *Command[T]) Buffered() int { return int(cmd.buf.len()) }

// flush drains the buffer to current observers in original post order.
// Invoked by the model on its RESUMED transition.
func (cmd *Command[T]) flush() {
	for {
		v, ok := cmd.buf.pop()
		if !ok {
			return
		}
		cmd.m.gaugeBufferedCommands(-1)
		cmd.c.emit(v.(T))
	}
}

// cmdQueue is a thin wrapper over the FIFO queue used for command
// buffering. Non-blocking: pop returns false on empty instead of waiting.
type cmdQueue struct {
	q *queuepkg.Queue
}

func newCmdQueue(hint int64) *cmdQueue {
	if hint <= 0 {
		hint = 16
	}
	return &cmdQueue{q: queuepkg.New(hint)}
}

func (q *cmdQueue) put(v interface{}) bool {
	if err := q.q.Put(v); err != nil {
		// Put only fails after dispose, i.e. the model is already inert.
		internalLogger.warnf("command buffer put after dispose: %v", err)
		return false
	}
	return true
}

func (q *cmdQueue) pop() (interface{}, bool) {
	if q.q.Len() == 0 {
		return nil, false
	}
	items, err := q.q.Get(1)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0], true
}

func (q *cmdQueue) len() int64 {
	if q.q.Disposed() {
		return 0
	}
	return q.q.Len()
}

func (q *cmdQueue) dispose() {
	q.q.Dispose()
}
