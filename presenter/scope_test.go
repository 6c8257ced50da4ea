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

type ScopeTestSuite struct {
	suite.Suite
}

func (s *ScopeTestSuite) TestClearCancelsInOrderExactlyOnce() {
	var scope Scope
	var canceled []string
	counts := map[string]int{}
	add := func(name string) {
		scope.Add(CancelFunc(func() {
			canceled = append(canceled, name)
			counts[name]++
		}))
	}
	add("a")
	add("b")
	add("c")
	s.Require().Equal(3, scope.Len())

	scope.Clear()
	s.Require().Equal([]string{"a", "b", "c"}, canceled)
	s.Require().Equal(0, scope.Len())

	// a second clear finds nothing to cancel
	scope.Clear()
	for name, n := range counts {
		s.Require().Equal(1, n, "subscription %s canceled more than once", name)
	}
}

func (s *ScopeTestSuite) TestReusableAfterClear() {
	var scope Scope
	fired := 0
	scope.Add(CancelFunc(func() { fired++ }))
	scope.Clear()
	s.Require().Equal(1, fired)

	scope.Add(CancelFunc(func() { fired++ }))
	s.Require().Equal(1, scope.Len())
	scope.Clear()
	s.Require().Equal(2, fired)
}

func (s *ScopeTestSuite) TestClosedScopeCancelsImmediately() {
	var scope Scope
	fired := false
	scope.close()

	scope.Add(CancelFunc(func() { fired = true }))
	s.Require().True(fired)
	s.Require().Equal(0, scope.Len())
}

func TestScopeTestSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}
