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

var ErrVoteNotFound = errors.New("vote not found")

// ConfigVote represents a validator's endorsement of a configuration
// proposal. Votes are append-only: a vote is never updated or deleted once
// recorded, even if the voter later leaves the validator set. Exclusion of
// departed validators happens at tally time, not here.
type ConfigVote struct {
	ID           uint   `gorm:"primarykey"`
	ProposalHash []byte `gorm:"uniqueIndex:idx_vote_unique,priority:1;index:idx_vote_proposal;size:32;not null"`
	Voter        string `gorm:"uniqueIndex:idx_vote_unique,priority:2;size:128;not null"`
	Signature    []byte `gorm:"not null"`
	CastHeight   uint64 `gorm:"index;not null"`
	CastTxIndex  uint32 `gorm:"not null"`
}

// TableName returns the table name
func (ConfigVote) TableName() string {
	return "config_vote"
}
