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
	"sync"
	"sync/atomic"
)

// Canceler is anything that can be registered into a Scope and canceled
// exactly once when the scope clears.
type Canceler interface {
	Cancel()
}

// CancelFunc adapts a plain function to the Canceler interface.
type CancelFunc func()

// Cancel invokes the wrapped function.
func (f CancelFunc) Cancel() { f() }

// Subscription is a cancelable handle on a broadcast cell observer.
// Canceling is idempotent and safe while an emit is in flight: a canceled
// observer stops receiving values but the emit loop is not disturbed.
type Subscription[T any] struct {
	cell     *cell[T]
	fn       func(T)
	canceled atomic.Bool
}

// Cancel removes the observer from its cell. Subsequent emits skip it.
func (s *Subscription[T]) Cancel() {
	if s.canceled.Swap(true) {
		return
	}
	s.cell.remove(s)
}

// Canceled reports whether the subscription has been canceled.
func (s *Subscription[T]) Canceled() bool { return s.canceled.Load() }

// cell is the broadcast primitive the three channel variants and the phase
// stream are built on: an explicit observer list invoked in registration
// order, optionally replaying the latest value to late subscribers. There
// is no process-wide relay; every cell is owned by one model or channel.
type cell[T any] struct {
	mu      sync.Mutex
	subs    []*Subscription[T]
	replay  bool
	last    T
	hasLast bool
}

func newCell[T any](replay bool) *cell[T] {
	return &cell[T]{replay: replay}
}

// subscribe registers fn and returns its handle. For a replaying cell the
// latest value is delivered synchronously before subscribe returns, unless
// skipReplay is set; skipReplay exists for the attachment rows that must
// suppress the stale value that triggered the parent's current phase.
func (c *cell[T]) subscribe(fn func(T), skipReplay bool) *Subscription[T] {
	s := &Subscription[T]{cell: c, fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	deliver := c.replay && c.hasLast && !skipReplay
	last := c.last
	c.mu.Unlock()
	if deliver {
		fn(last)
	}
	return s
}

// emit fans v out to all current observers in registration order. The
// observer list is snapshotted first, so observers may cancel themselves
// or each other mid-emit; a canceled observer is skipped.
func (c *cell[T]) emit(v T) {
	c.mu.Lock()
	if c.replay {
		c.last = v
		c.hasLast = true
	}
	snapshot := make([]*Subscription[T], len(c.subs))
	copy(snapshot, c.subs)
	c.mu.Unlock()
	for _, s := range snapshot {
		if !s.canceled.Load() {
			s.fn(v)
		}
	}
}

// latest returns the replayed value, if any.
func (c *cell[T]) latest() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.hasLast
}

func (c *cell[T]) remove(target *Subscription[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s == target {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

func (c *cell[T]) observerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}
