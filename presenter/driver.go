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

// PathMode selects which ladder of phases DriveTo is allowed to walk.
type PathMode int

const (
	// PathAll walks the full lifecycle: CREATED, BINDED, RESUMED, PAUSED,
	// UNBINDED, DESTROYED.
	PathAll PathMode = iota
	// PathBypassBinding never binds: only CREATED and DESTROYED are
	// reachable.
	PathBypassBinding
	// PathBypassResuming binds but never resumes: CREATED, BINDED,
	// UNBINDED, DESTROYED.
	PathBypassResuming
)

var pathLadders = map[PathMode][]Phase{
	PathAll:            {PhaseCreated, PhaseBinded, PhaseResumed, PhasePaused, PhaseUnbinded, PhaseDestroyed},
	PathBypassBinding:  {PhaseCreated, PhaseDestroyed},
	PathBypassResuming: {PhaseCreated, PhaseBinded, PhaseUnbinded, PhaseDestroyed},
}

// DriveTo synthesizes and pushes the minimal legal phase sequence from
// m's current phase to target, walking the ladder selected by mode. The
// two re-entry edges are honored: driving a PAUSED model to RESUMED, or
// an UNBINDED model to BINDED, pushes the single re-entry phase.
//
// It fails with ErrIllegalTransition when target is not ahead of the
// current phase (and not a re-entry), or not on the mode's ladder.
func DriveTo(m *Model, target Phase, mode PathMode) error {
	ladder, ok := pathLadders[mode]
	if !ok {
		return fmt.Errorf("unknown path mode %d", mode)
	}
	cur := m.Phase()
	if target <= cur {
		if reentry(cur, target) {
			return m.Push(target)
		}
		return illegalTransition(cur, target)
	}
	onLadder := false
	for _, p := range ladder {
		if p == target {
			onLadder = true
			break
		}
	}
	if !onLadder {
		return fmt.Errorf("%w: %s unreachable via mode %d", ErrIllegalTransition, target, mode)
	}
	for _, p := range ladder {
		if p <= cur || p > target {
			continue
		}
		if err := m.Push(p); err != nil {
			return err
		}
	}
	return nil
}
