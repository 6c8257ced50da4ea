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
	"testing"

	"github.com/stretchr/testify/suite"
)

type eventLog struct {
	events []string
}

func (l *eventLog) add(e string) { l.events = append(l.events, e) }

func (l *eventLog) count(e string) int {
	n := 0
	for _, got := range l.events {
		if got == e {
			n++
		}
	}
	return n
}

type recordingHooks struct {
	log *eventLog
}

func (h recordingHooks) OnCreate()  { h.log.add("create") }
func (h recordingHooks) OnBind()    { h.log.add("bind") }
func (h recordingHooks) OnResume()  { h.log.add("resume") }
func (h recordingHooks) OnPause()   { h.log.add("pause") }
func (h recordingHooks) OnUnbind()  { h.log.add("unbind") }
func (h recordingHooks) OnDestroy() { h.log.add("destroy") }

type ModelTestSuite struct {
	suite.Suite
}

func (s *ModelTestSuite) TestFreshModel() {
	m := New(nil, WithName("fresh"))
	s.Require().Equal(PhaseUnknown, m.Phase())
	s.Require().False(m.IsBound())
	s.Require().False(m.IsResumed())
	s.Require().False(m.IsDestroyed())
	s.Require().Equal("fresh", m.Name())
	s.Require().Equal(0, m.ChildCount())
}

// The full canonical sequence covers both re-entries; every hook must fire
// exactly once per push, and each scope must clear before its hook runs.
func (s *ModelTestSuite) TestCanonicalSequence() {
	log := &eventLog{}
	m := New(recordingHooks{log})

	markPause := func() { m.UntilPause().Add(CancelFunc(func() { log.add("pauseScopeCleared") })) }
	markUnbind := func() { m.UntilUnbind().Add(CancelFunc(func() { log.add("unbindScopeCleared") })) }
	m.UntilDestroy().Add(CancelFunc(func() { log.add("destroyScopeCleared") }))

	s.Require().NoError(m.Push(PhaseCreated))
	s.Require().NoError(m.Push(PhaseBinded))
	s.Require().NoError(m.Push(PhaseResumed))
	markPause()
	s.Require().NoError(m.Push(PhasePaused))
	s.Require().NoError(m.Push(PhaseResumed))
	markPause()
	s.Require().NoError(m.Push(PhasePaused))
	markUnbind()
	s.Require().NoError(m.Push(PhaseUnbinded))
	s.Require().NoError(m.Push(PhaseBinded))
	markUnbind()
	s.Require().NoError(m.Push(PhaseUnbinded))
	s.Require().NoError(m.Push(PhaseDestroyed))

	s.Require().Equal([]string{
		"create",
		"bind",
		"resume",
		"pauseScopeCleared", "pause",
		"resume",
		"pauseScopeCleared", "pause",
		"unbindScopeCleared", "unbind",
		"bind",
		"unbindScopeCleared", "unbind",
		"destroyScopeCleared", "destroy",
	}, log.events)

	s.Require().Equal(1, log.count("create"))
	s.Require().Equal(2, log.count("bind"))
	s.Require().Equal(2, log.count("resume"))
	s.Require().Equal(2, log.count("pause"))
	s.Require().Equal(2, log.count("unbind"))
	s.Require().Equal(1, log.count("destroy"))
	s.Require().Equal(1, log.count("destroyScopeCleared"))
	s.Require().True(m.IsDestroyed())
}

// Every backward or repeated push must fail unless it is one of the two
// permitted re-entry edges, for every phase pair.
func (s *ModelTestSuite) TestIllegalTransitionMatrix() {
	all := []Phase{PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused, PhaseUnbinded, PhaseDestroyed}
	for _, current := range all {
		for _, next := range all {
			m := New(nil)
			s.Require().NoError(DriveTo(m, current, PathAll))

			err := m.Push(next)
			switch {
			case current == PhaseDestroyed:
				s.Require().ErrorIs(err, ErrIllegalTransition, "inert model accepted %s", next)
			case next > current:
				s.Require().NoError(err, "%s -> %s should advance", current, next)
			case reentry(current, next):
				s.Require().NoError(err, "re-entry %s -> %s rejected", current, next)
			default:
				s.Require().ErrorIs(err, ErrIllegalTransition, "%s -> %s accepted", current, next)
			}
		}
	}
}

func (s *ModelTestSuite) TestPushUnknownAlwaysFails() {
	m := New(nil)
	s.Require().ErrorIs(m.Push(PhaseUnknown), ErrIllegalTransition)
	s.Require().NoError(m.Push(PhaseCreated))
	s.Require().ErrorIs(m.Push(PhaseUnknown), ErrIllegalTransition)
}

// Phase sequences seen by observers are non-decreasing except at the two
// re-entry edges.
func (s *ModelTestSuite) TestObservedSequenceMonotonic() {
	m := New(nil)
	var seen []Phase
	sub := m.ObservePhase(func(p Phase) { seen = append(seen, p) })
	defer sub.Cancel()

	for _, p := range []Phase{PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused, PhaseResumed, PhasePaused, PhaseUnbinded, PhaseBinded, PhaseUnbinded, PhaseDestroyed} {
		s.Require().NoError(m.Push(p))
	}

	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			s.Require().True(reentry(seen[i-1], seen[i]),
				"non-monotonic edge %s -> %s is not a permitted re-entry", seen[i-1], seen[i])
		}
	}
	s.Require().Equal(PhaseDestroyed, seen[len(seen)-1])
}

func (s *ModelTestSuite) TestObservePhaseReplaysLatest() {
	m := New(nil)
	s.Require().NoError(m.Push(PhaseCreated))
	s.Require().NoError(m.Push(PhaseBinded))

	var seen []Phase
	sub := m.ObservePhase(func(p Phase) { seen = append(seen, p) })
	defer sub.Cancel()
	s.Require().Equal([]Phase{PhaseBinded}, seen)
}

func (s *ModelTestSuite) TestForwardJumpIsLegal() {
	// detach from CREATED pushes only DESTROYED, so the validator accepts
	// any forward move
	m := New(nil)
	s.Require().NoError(m.Push(PhaseCreated))
	s.Require().NoError(m.Push(PhaseDestroyed))
	s.Require().True(m.IsDestroyed())
}

func (s *ModelTestSuite) TestInertModelRejectsEverything() {
	m := New(nil)
	s.Require().NoError(DriveTo(m, PhaseDestroyed, PathAll))
	for _, p := range []Phase{PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused, PhaseUnbinded, PhaseDestroyed} {
		s.Require().ErrorIs(m.Push(p), ErrIllegalTransition)
	}
}

func (s *ModelTestSuite) TestDestroyScopeFinal() {
	m := New(nil)
	s.Require().NoError(DriveTo(m, PhaseDestroyed, PathAll))

	fired := false
	m.UntilDestroy().Add(CancelFunc(func() { fired = true }))
	s.Require().True(fired, "destroy scope must cancel immediately once the model is inert")
}

func (s *ModelTestSuite) TestMessagesWithoutParent() {
	m := New(nil)
	var got []Message
	sub := m.ObserveMessages(func(msg Message) { got = append(got, msg) })
	defer sub.Cancel()

	m.SendMessage("navigate")
	s.Require().Equal([]Message{"navigate"}, got)
}

func TestModelTestSuite(t *testing.T) {
	suite.Run(t, new(ModelTestSuite))
}
