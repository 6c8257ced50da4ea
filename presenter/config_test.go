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

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestVerifyConfig() {
	s.Require().NotNil(VerifyConfig(nil))

	config := DefaultConfig()
	s.Require().Nil(VerifyConfig(config))

	config.MaxBufferedCommands = -1
	s.Require().NotNil(VerifyConfig(config))
	config.MaxBufferedCommands = 0

	config.TaskPoolSize = 0
	s.Require().NotNil(VerifyConfig(config))
	config.TaskPoolSize = 4

	config.DispatchBacklog = 0
	s.Require().NotNil(VerifyConfig(config))
	config.DispatchBacklog = 16

	config.HealthGoroutineLimit = 0
	s.Require().NotNil(VerifyConfig(config))
	config.HealthGoroutineLimit = 100

	s.Require().Nil(VerifyConfig(config))
}

func (s *ConfigTestSuite) TestHostRejectsBrokenConfig() {
	config := DefaultConfig()
	config.TaskPoolSize = -3
	h, err := NewHost(config)
	s.Require().NotNil(err)
	s.Require().Nil(h)
}

func (s *ConfigTestSuite) TestHostWithoutConfig() {
	h, err := NewHost(nil)
	s.Require().Nil(err)
	s.Require().NotNil(h)
	s.Require().Nil(h.Close())
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
