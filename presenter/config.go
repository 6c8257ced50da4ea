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
	"fmt"
	"io"
	"os"
)

// Config carries the tunables shared by models, the task runner and the
// host. Zero-value fields are filled from DefaultConfig.
type Config struct {
	// LogOutput receives the internal logger's output.
	LogOutput io.Writer

	// MaxBufferedCommands caps each Command's pause buffer; when full the
	// oldest withheld value is dropped. 0 means unbounded.
	MaxBufferedCommands int

	// CommandQueueHint is the initial capacity hint for command buffers.
	CommandQueueHint int64

	// TaskPoolSize is the number of workers in the shared task pool.
	TaskPoolSize int

	// TaskSubmitRetries bounds the backoff retries when the task pool is
	// overloaded.
	TaskSubmitRetries uint64

	// DispatchBacklog is the per-model queue depth of the host's
	// serialized dispatch loop.
	DispatchBacklog int

	// HealthGoroutineLimit is the goroutine count above which the host's
	// liveness check fails.
	HealthGoroutineLimit int
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		LogOutput:            os.Stdout,
		MaxBufferedCommands:  0,
		CommandQueueHint:     16,
		TaskPoolSize:         8,
		TaskSubmitRetries:    5,
		DispatchBacklog:      64,
		HealthGoroutineLimit: 10000,
	}
}

// VerifyConfig checks conf for values the runtime cannot work with.
func VerifyConfig(conf *Config) error {
	if conf == nil {
		return fmt.Errorf("config is nil")
	}
	if conf.MaxBufferedCommands < 0 {
		return fmt.Errorf("MaxBufferedCommands must be >= 0, got %d", conf.MaxBufferedCommands)
	}
	if conf.TaskPoolSize <= 0 {
		return fmt.Errorf("TaskPoolSize must be > 0, got %d", conf.TaskPoolSize)
	}
	if conf.DispatchBacklog <= 0 {
		return fmt.Errorf("DispatchBacklog must be > 0, got %d", conf.DispatchBacklog)
	}
	if conf.HealthGoroutineLimit <= 0 {
		return fmt.Errorf("HealthGoroutineLimit must be > 0, got %d", conf.HealthGoroutineLimit)
	}
	return nil
}
