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

	"github.com/blinklabs-io/covenant/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProposalConfig(t *testing.T, active *governance.Configuration) *governance.Configuration {
	t.Helper()
	activeHash, err := active.Hash()
	require.NoError(t, err)
	cfg := testConfig()
	cfg.PreviousConfigHash = activeHash
	cfg.Consensus.RoundTimeout = 4000
	return cfg
}

func TestValidateProposal(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		10,
		100,
		active,
		false,
	)
	assert.NoError(t, err)
}

func TestValidateProposalEmptyValidatorSet(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	cfg.Validators = nil
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		10,
		100,
		active,
		false,
	)
	assert.ErrorIs(t, err, governance.ErrEmptyValidatorSet)
	assert.True(t, governance.IsValidationError(err))
}

func TestValidateProposalDuplicateValidatorKey(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	cfg.Validators["validator-d"] = []byte("pubkey-a")
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		10,
		100,
		active,
		false,
	)
	assert.ErrorIs(t, err, governance.ErrDuplicateValidatorKey)
}

func TestValidateProposalActivationHeight(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	// Equal to current height plus the minimum delay is still too soon
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		99,
		99+governance.MinActivationDelay,
		active,
		false,
	)
	assert.ErrorIs(t, err, governance.ErrInvalidActivationHeight)
	err = governance.ValidateProposal(
		cfg,
		"validator-a",
		99,
		99+governance.MinActivationDelay+1,
		active,
		false,
	)
	assert.NoError(t, err)
}

func TestValidateProposalDuplicate(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		10,
		100,
		active,
		true,
	)
	assert.ErrorIs(t, err, governance.ErrDuplicateProposal)
}

func TestValidateProposalUnauthorizedProposer(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	err := governance.ValidateProposal(
		cfg,
		"validator-z",
		10,
		100,
		active,
		false,
	)
	assert.ErrorIs(t, err, governance.ErrUnauthorizedProposer)
}

func TestValidateProposalPreviousConfigMismatch(t *testing.T) {
	active := testConfig()
	cfg := validProposalConfig(t, active)
	cfg.PreviousConfigHash = make([]byte, governance.HashSize)
	err := governance.ValidateProposal(
		cfg,
		"validator-a",
		10,
		100,
		active,
		false,
	)
	assert.ErrorIs(t, err, governance.ErrPreviousConfigMismatch)
}
