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

import "fmt"

// Attach subscribes child's phase sink to a transformed view of m's phase
// stream. The child has no phase source of its own afterwards: its whole
// lifecycle derives from the parent.
//
// The child is first caught up with a synthetic prefix chosen by the
// parent's phase at this moment, so the child always observes a sequence
// starting at CREATED that respects the phase order:
//
//	parent absent/CREATED  -> no prefix, parent stream verbatim
//	parent BINDED          -> CREATED, then parent stream
//	parent RESUMED         -> CREATED, BINDED, then parent stream
//	parent PAUSED          -> CREATED, BINDED, then parent stream minus
//	                          the stale PAUSED replay
//	parent UNBINDED        -> CREATED, then parent stream minus the stale
//	                          UNBINDED replay
//	parent DESTROYED       -> ErrParentDestroyed
//
// The live feed is registered in the child's own destroy scope: it is
// never unsubscribed early, so a child attached over the live stream
// receives the parent's DESTROYED as its own final phase, and the feed
// dies exactly when the child does.
//
// Routed messages flow the other way for the life of the attachment:
// everything the child emits is forwarded to m's message sink.
func (m *Model) Attach(child *Model) error {
	if child == m {
		return fmt.Errorf("%w: model %q attached to itself", ErrInvalidAttachment, m.name)
	}
	if child.parent != nil || child.phase != PhaseUnknown {
		return fmt.Errorf("%w: model %q (phase %s)", ErrAlreadyAttached, child.name, child.phase)
	}
	if m.phase == PhaseDestroyed {
		return fmt.Errorf("%w: cannot attach %q to %q", ErrParentDestroyed, child.name, m.name)
	}

	child.parent = m
	m.children = append(m.children, child)
	if child.metrics == nil {
		child.metrics = m.metrics
	}

	var prefix []Phase
	skipReplay := false
	switch m.phase {
	case PhaseUnknown, PhaseCreated:
		// replay (if any) already starts the child at CREATED
	case PhaseBinded:
		prefix = []Phase{PhaseCreated}
	case PhaseResumed:
		prefix = []Phase{PhaseCreated, PhaseBinded}
	case PhasePaused:
		prefix = []Phase{PhaseCreated, PhaseBinded}
		skipReplay = true
	case PhaseUnbinded:
		prefix = []Phase{PhaseCreated}
		skipReplay = true
	}
	for _, p := range prefix {
		if err := child.Push(p); err != nil {
			return err
		}
	}

	feed := m.phases.subscribe(func(p Phase) {
		if err := child.Push(p); err != nil {
			// only reachable when the child was driven out-of-band,
			// which breaks the single-source contract
			m.logger.errorf("propagating %s to child %s: %v", p, child.name, err)
		}
	}, skipReplay)
	child.untilDestroy.Add(feed)

	forward := child.messages.subscribe(func(msg Message) {
		m.SendMessage(msg)
	}, false)
	child.untilDestroy.Add(forward)

	if m.metrics != nil {
		m.metrics.Attachments.Inc()
	}
	m.logger.debugf("attached child %s at %s", child.name, m.phase)
	return nil
}

// Detach drives the model from its current phase down to DESTROYED,
// synthesizing the missing intermediate phases through the normal Push
// validation and cleanup: from RESUMED that is PAUSED, UNBINDED,
// DESTROYED; from CREATED just DESTROYED. A model that was never driven,
// or is already destroyed, is left alone.
func (m *Model) Detach() error {
	if m.phase == PhaseUnknown || m.inert {
		return nil
	}
	if m.resumed {
		if err := m.Push(PhasePaused); err != nil {
			return err
		}
	}
	if m.bound {
		if err := m.Push(PhaseUnbinded); err != nil {
			return err
		}
	}
	return m.Push(PhaseDestroyed)
}
