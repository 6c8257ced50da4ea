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
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/panjf2000/ants/v2"
)

// TaskRunner executes background work bound to model scopes on a shared
// worker pool. The lifecycle core itself never blocks or retries; the
// runner is a collaborator for model logic that needs async work whose
// cancellation rides a phase boundary.
type TaskRunner struct {
	pool    *ants.Pool
	retries uint64
}

// NewTaskRunner builds a runner sized by conf.TaskPoolSize. The pool is
// non-blocking: an overloaded submit is retried with exponential backoff
// up to conf.TaskSubmitRetries times before failing.
func NewTaskRunner(conf *Config) (*TaskRunner, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	pool, err := ants.NewPool(conf.TaskPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &TaskRunner{pool: pool, retries: conf.TaskSubmitRetries}, nil
}

// Submit schedules fn on the pool with a context canceled when scope
// clears. fn must honor ctx; cancellation does not preempt a running
// task, it only signals it.
func (r *TaskRunner) Submit(scope *Scope, fn func(ctx context.Context)) error {
	ctx, cancel := context.WithCancel(context.Background())
	scope.Add(CancelFunc(cancel))
	submit := func() error {
		err := r.pool.Submit(func() {
			defer cancel()
			fn(ctx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, ants.ErrPoolOverload) {
			return err
		}
		return backoff.Permanent(err)
	}
	err := backoff.Retry(submit, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.retries))
	if err != nil {
		cancel()
	}
	return err
}

// Running returns the number of tasks currently executing.
func (r *TaskRunner) Running() int { return r.pool.Running() }

// Close releases the pool. Queued-but-unstarted work is discarded.
func (r *TaskRunner) Close() { r.pool.Release() }

// RunUntilPause schedules fn with cancellation at the model's next PAUSED
// transition.
func (m *Model) RunUntilPause(r *TaskRunner, fn func(ctx context.Context)) error {
	return r.Submit(&m.untilPause, fn)
}

// RunUntilUnbind schedules fn with cancellation at the model's next
// UNBINDED transition.
func (m *Model) RunUntilUnbind(r *TaskRunner, fn func(ctx context.Context)) error {
	return r.Submit(&m.untilUnbind, fn)
}

// RunUntilDestroy schedules fn with cancellation at the model's
// destruction.
func (m *Model) RunUntilDestroy(r *TaskRunner, fn func(ctx context.Context)) error {
	return r.Submit(&m.untilDestroy, fn)
}
