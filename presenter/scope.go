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

import "sync"

// Scope is a set of cancelable subscriptions tied to a phase boundary.
// Each model owns three: cleared at PAUSED, at UNBINDED, and at DESTROYED.
// External code may only add work to a scope; clearing is driven by the
// model's phase transitions.
//
// A cleared scope stays open for reuse (the pause and unbind scopes refill
// on every re-entry cycle), except the destroy scope, which closes for
// good: anything added after the final clear is canceled on the spot.
type Scope struct {
	mu     sync.Mutex
	subs   []Canceler
	closed bool
}

// Add registers c to be canceled when the scope next clears. Adding to a
// closed scope cancels c immediately.
func (s *Scope) Add(c Canceler) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.Cancel()
		return
	}
	s.subs = append(s.subs, c)
	s.mu.Unlock()
}

// Clear cancels every registered subscription, in registration order, and
// empties the scope.
func (s *Scope) Clear() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, c := range subs {
		c.Cancel()
	}
}

// close clears the scope and rejects further registrations. Used for the
// destroy scope only: the owning model is inert afterwards.
func (s *Scope) close() {
	s.mu.Lock()
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, c := range subs {
		c.Cancel()
	}
}

// Len returns the number of currently registered subscriptions.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
