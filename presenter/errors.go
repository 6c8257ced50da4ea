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
	"errors"
	"fmt"
)

// All four sentinels indicate a bug in the host code driving the model,
// not a recoverable runtime condition. They are returned synchronously by
// the violating call and are never retried or suppressed inside this
// package. Match with errors.Is.
var (
	// ErrIllegalTransition is returned by Push when the requested phase
	// violates the lifecycle order, and by DriveTo when the target phase
	// is not reachable from the current one.
	ErrIllegalTransition = errors.New("illegal lifecycle transition")

	// ErrAlreadyAttached is returned by Attach when the child has already
	// been attached or driven before. A model must not be reused across
	// parents.
	ErrAlreadyAttached = errors.New("model already attached")

	// ErrInvalidAttachment is returned by Attach when a model is attached
	// to itself.
	ErrInvalidAttachment = errors.New("invalid attachment")

	// ErrParentDestroyed is returned by Attach when the parent has already
	// reached PhaseDestroyed.
	ErrParentDestroyed = errors.New("parent model destroyed")

	// ErrHostClosed is returned by Host operations after Close.
	ErrHostClosed = errors.New("host closed")
)

func illegalTransition(from, to Phase) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
