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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/covenant/database/models"
)

// AddVote records a vote on a proposal
func (d *Database) AddVote(
	vote *models.ConfigVote,
	txn *Txn,
) error {
	if vote == nil {
		return errors.New("vote cannot be nil")
	}
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.metadata.AddVote(vote, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to add vote: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit vote: %w", err)
		}
	}
	return nil
}

// GetVote returns the vote cast by a given voter on a proposal, or
// models.ErrVoteNotFound when no vote has been recorded
func (d *Database) GetVote(
	proposalHash []byte,
	voter string,
	txn *Txn,
) (*models.ConfigVote, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	vote, err := d.metadata.GetVote(proposalHash, voter, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	if vote == nil {
		return nil, models.ErrVoteNotFound
	}
	return vote, nil
}

// GetVotes returns all votes recorded for a proposal
func (d *Database) GetVotes(
	proposalHash []byte,
	txn *Txn,
) ([]*models.ConfigVote, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	votes, err := d.metadata.GetVotes(proposalHash, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	return votes, nil
}
