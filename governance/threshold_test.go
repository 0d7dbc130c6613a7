// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package governance_test

import (
	"testing"

	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/governance"
	"github.com/stretchr/testify/assert"
)

func TestThreshold(t *testing.T) {
	testDefs := []struct {
		validators int
		expected   int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{6, 5},
		{7, 5},
		{9, 7},
		{10, 7},
		{100, 67},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			governance.Threshold(testDef.validators),
			"N=%d",
			testDef.validators,
		)
	}
}

func TestLiveTallyExcludesRemovedValidators(t *testing.T) {
	active := &governance.Configuration{
		SchemaVersion: governance.CurrentSchemaVersion,
		Validators: map[string][]byte{
			"validator-a": []byte("pubkey-a"),
			"validator-b": []byte("pubkey-b"),
			"validator-c": []byte("pubkey-c"),
		},
	}
	votes := []*models.ConfigVote{
		{Voter: "validator-a"},
		{Voter: "validator-b"},
		// Removed from the active set after casting
		{Voter: "validator-d"},
	}
	assert.Equal(t, 2, governance.LiveTally(votes, active))
}
