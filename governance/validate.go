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

package governance

import (
	"fmt"
)

// MinActivationDelay is the fixed safety margin between the current height
// and the earliest allowed target activation height. It prevents
// retroactive configuration changes.
const MinActivationDelay = 1

// ValidateProposal checks a decoded configuration proposal against the
// currently active configuration. Pure function; the caller supplies
// whether a proposal with the same content hash already exists.
func ValidateProposal(
	config *Configuration,
	proposer string,
	currentHeight uint64,
	targetHeight uint64,
	active *Configuration,
	proposalExists bool,
) error {
	if len(config.Validators) == 0 {
		return ErrEmptyValidatorSet
	}
	seenKeys := make(map[string]struct{}, len(config.Validators))
	for id, pubKey := range config.Validators {
		if id == "" {
			return fmt.Errorf("%w: empty validator ID", ErrMalformedConfig)
		}
		if len(pubKey) == 0 {
			return fmt.Errorf(
				"%w: empty public key for validator %s",
				ErrMalformedConfig,
				id,
			)
		}
		if _, ok := seenKeys[string(pubKey)]; ok {
			return ErrDuplicateValidatorKey
		}
		seenKeys[string(pubKey)] = struct{}{}
	}
	if targetHeight <= currentHeight+MinActivationDelay {
		return fmt.Errorf(
			"%w: target %d, current %d",
			ErrInvalidActivationHeight,
			targetHeight,
			currentHeight,
		)
	}
	if proposalExists {
		return ErrDuplicateProposal
	}
	if !active.IsValidator(proposer) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedProposer, proposer)
	}
	activeHash, err := active.Hash()
	if err != nil {
		return err
	}
	if !HashEqual(config.PreviousConfigHash, activeHash) {
		return fmt.Errorf(
			"%w: got %s, active is %s",
			ErrPreviousConfigMismatch,
			hashString(config.PreviousConfigHash),
			hashString(activeHash),
		)
	}
	return nil
}
