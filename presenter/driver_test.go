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

type DriverTestSuite struct {
	suite.Suite
}

// Round-trip: from a fresh model, PathAll reaches exactly each reachable
// phase.
func (s *DriverTestSuite) TestDriveToEveryPhase() {
	for _, target := range []Phase{PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused, PhaseUnbinded, PhaseDestroyed} {
		m := New(nil)
		s.Require().NoError(DriveTo(m, target, PathAll))
		s.Require().Equal(target, m.Phase(), "PathAll did not stop at %s", target)
	}
}

func (s *DriverTestSuite) TestDriveToSynthesizesMinimalSequence() {
	m := New(nil)
	var seen []Phase
	m.ObservePhase(func(p Phase) { seen = append(seen, p) })

	s.Require().NoError(DriveTo(m, PhasePaused, PathAll))
	s.Require().Equal([]Phase{PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused}, seen)

	seen = nil
	s.Require().NoError(DriveTo(m, PhaseDestroyed, PathAll))
	s.Require().Equal([]Phase{PhaseUnbinded, PhaseDestroyed}, seen)
}

func (s *DriverTestSuite) TestDriveToReentry() {
	m := New(nil)
	s.Require().NoError(DriveTo(m, PhasePaused, PathAll))
	s.Require().NoError(DriveTo(m, PhaseResumed, PathAll))
	s.Require().Equal(PhaseResumed, m.Phase())

	n := New(nil)
	s.Require().NoError(DriveTo(n, PhaseUnbinded, PathAll))
	s.Require().NoError(DriveTo(n, PhaseBinded, PathAll))
	s.Require().Equal(PhaseBinded, n.Phase())
}

func (s *DriverTestSuite) TestDriveToBackwardFails() {
	m := New(nil)
	s.Require().NoError(DriveTo(m, PhaseResumed, PathAll))
	s.Require().ErrorIs(DriveTo(m, PhaseCreated, PathAll), ErrIllegalTransition)
	s.Require().ErrorIs(DriveTo(m, PhaseResumed, PathAll), ErrIllegalTransition)
}

func (s *DriverTestSuite) TestBypassBinding() {
	m := New(nil)
	var seen []Phase
	m.ObservePhase(func(p Phase) { seen = append(seen, p) })

	s.Require().NoError(DriveTo(m, PhaseDestroyed, PathBypassBinding))
	s.Require().Equal([]Phase{PhaseCreated, PhaseDestroyed}, seen)
}

func (s *DriverTestSuite) TestBypassResuming() {
	m := New(nil)
	var seen []Phase
	m.ObservePhase(func(p Phase) { seen = append(seen, p) })

	s.Require().NoError(DriveTo(m, PhaseDestroyed, PathBypassResuming))
	s.Require().Equal([]Phase{PhaseCreated, PhaseBinded, PhaseUnbinded, PhaseDestroyed}, seen)
}

func (s *DriverTestSuite) TestTargetOffLadderFails() {
	m := New(nil)
	s.Require().ErrorIs(DriveTo(m, PhaseResumed, PathBypassResuming), ErrIllegalTransition)
	s.Require().ErrorIs(DriveTo(m, PhaseBinded, PathBypassBinding), ErrIllegalTransition)
	s.Require().Equal(PhaseUnknown, m.Phase(), "a rejected drive must not move the model")
}

func (s *DriverTestSuite) TestUnknownMode() {
	m := New(nil)
	s.Require().Error(DriveTo(m, PhaseCreated, PathMode(99)))
}

func TestDriverTestSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}
