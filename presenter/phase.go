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

// Package presenter provides a UI-independent presentation-model core:
// a six-phase lifecycle state machine, phase-scoped resource cleanup,
// lifecycle-gated State/Action/Command channels between a model and its
// view, and a parent-child attachment protocol that derives a child's
// phase stream from its parent's.
package presenter

// Phase is one value of the lifecycle enumeration. The declaration order
// is the total order used for transition validation: a model's phase only
// moves forward, except for the two re-entry edges PhasePaused->PhaseResumed
// and PhaseUnbinded->PhaseBinded. PhaseDestroyed is terminal.
type Phase uint8

const (
	// PhaseUnknown is the zero value: the model has not been driven yet.
	PhaseUnknown Phase = iota
	PhaseCreated
	PhaseBinded
	PhaseResumed
	PhasePaused
	PhaseUnbinded
	PhaseDestroyed
)

var phaseNames = []string{
	"UNKNOWN",
	"CREATED",
	"BINDED",
	"RESUMED",
	"PAUSED",
	"UNBINDED",
	"DESTROYED",
}

func (p Phase) String() string {
	if int(p) >= len(phaseNames) {
		return "INVALID"
	}
	return phaseNames[p]
}

// reentry reports whether moving from to next is one of the two permitted
// backward edges.
func reentry(from, next Phase) bool {
	return (from == PhasePaused && next == PhaseResumed) ||
		(from == PhaseUnbinded && next == PhaseBinded)
}
