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
	"encoding/hex"
	"errors"
	"fmt"
)

// Validation errors reject a transaction before any state mutation
var (
	ErrSchemaVersion = errors.New(
		"unsupported configuration schema version",
	)
	ErrMalformedConfig = errors.New(
		"configuration payload does not decode",
	)
	ErrEmptyValidatorSet = errors.New(
		"configuration validator set is empty",
	)
	ErrDuplicateValidatorKey = errors.New(
		"configuration contains duplicate validator public keys",
	)
	ErrInvalidActivationHeight = errors.New(
		"target activation height is not far enough in the future",
	)
	ErrDuplicateProposal = errors.New(
		"proposal with identical content hash already exists",
	)
	ErrUnauthorizedProposer = errors.New(
		"proposer is not a member of the active validator set",
	)
	ErrPreviousConfigMismatch = errors.New(
		"previous config hash does not match the active configuration",
	)
)

// Consistency errors reject a vote transaction without mutation
var (
	ErrUnknownProposal = errors.New(
		"vote references an unknown proposal",
	)
	ErrDuplicateVote = errors.New(
		"validator has already voted for this proposal",
	)
	ErrBadSignature = errors.New(
		"vote signature does not verify",
	)
	ErrProposalAlreadyActivated = errors.New(
		"proposal has already been activated",
	)
	ErrProposalExpired = errors.New(
		"proposal has expired",
	)
	ErrVoterNotCurrentValidator = errors.New(
		"voter is not a member of the active validator set",
	)
)

var ErrAlreadyInitialized = errors.New(
	"configuration history already has a genesis entry",
)

// IsValidationError reports whether err is a structural or temporal
// rejection of a Propose transaction
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrSchemaVersion,
		ErrMalformedConfig,
		ErrEmptyValidatorSet,
		ErrDuplicateValidatorKey,
		ErrInvalidActivationHeight,
		ErrDuplicateProposal,
		ErrUnauthorizedProposer,
		ErrPreviousConfigMismatch,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsConsistencyError reports whether err is a rejection of a Vote
// transaction against existing state
func IsConsistencyError(err error) bool {
	for _, e := range []error{
		ErrUnknownProposal,
		ErrDuplicateVote,
		ErrBadSignature,
		ErrProposalAlreadyActivated,
		ErrProposalExpired,
		ErrVoterNotCurrentValidator,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// InvariantViolationError signals state divergence that cannot be resolved
// locally. The caller must halt block processing rather than continue.
type InvariantViolationError struct {
	height uint64
	detail string
}

func NewInvariantViolationError(
	height uint64,
	detail string,
) InvariantViolationError {
	return InvariantViolationError{
		height: height,
		detail: detail,
	}
}

func (e InvariantViolationError) Height() uint64 {
	return e.height
}

func (e InvariantViolationError) Error() string {
	return fmt.Sprintf(
		"invariant violation at height %d: %s",
		e.height,
		e.detail,
	)
}

// IsFatal reports whether err must halt block processing
func IsFatal(err error) bool {
	var iv InvariantViolationError
	return errors.As(err, &iv)
}

func hashString(hash []byte) string {
	return hex.EncodeToString(hash)
}
