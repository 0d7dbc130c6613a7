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

package models

import "errors"

var ErrProposalNotFound = errors.New("proposal not found")

// Proposal status values. A proposal moves Pending -> Scheduled ->
// Activated, or to Expired from either of the first two states.
const (
	ProposalStatusPending   = 0
	ProposalStatusScheduled = 1
	ProposalStatusActivated = 2
	ProposalStatusExpired   = 3
)

// Proposal represents a configuration-change proposal submitted to the
// network. The canonical configuration payload itself lives in the blob
// store, keyed by the content hash.
type Proposal struct {
	ID              uint   `gorm:"primarykey"`
	Hash            []byte `gorm:"uniqueIndex;size:32;not null"`
	Proposer        string `gorm:"size:128;index;not null"`
	SubmittedHeight uint64 `gorm:"index;not null"`
	TargetHeight    uint64 `gorm:"index;not null"`
	Status          uint8  `gorm:"index;not null"`
	// Height and transaction index at which the vote threshold was first
	// reached, kept for audit and for the activation collision policy
	ReachedHeight  *uint64
	ReachedTxIndex *uint32
	// Height at which the activation was scheduled to take effect
	EffectiveHeight *uint64 `gorm:"index"`
	// Height at which the configuration actually activated
	ActivatedHeight *uint64
	// Height at which the proposal was marked expired
	ExpiredHeight *uint64
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
