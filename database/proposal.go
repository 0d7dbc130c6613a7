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

// GetProposal returns a proposal by its content hash
func (d *Database) GetProposal(
	hash []byte,
	txn *Txn,
) (*models.Proposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	proposal, err := d.metadata.GetProposal(hash, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return nil, models.ErrProposalNotFound
	}
	return proposal, nil
}

// GetProposalsByStatus returns all proposals with the given status
func (d *Database) GetProposalsByStatus(
	status uint8,
	txn *Txn,
) ([]*models.Proposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	proposals, err := d.metadata.GetProposalsByStatus(status, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get proposals: %w", err)
	}
	return proposals, nil
}

// GetPendingProposalsBelow returns pending proposals whose target
// activation height is at or below the given height
func (d *Database) GetPendingProposalsBelow(
	height uint64,
	txn *Txn,
) ([]*models.Proposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	proposals, err := d.metadata.GetPendingProposalsBelow(
		height,
		txn.Metadata(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending proposals: %w", err)
	}
	return proposals, nil
}

// SetProposal creates or updates a proposal. The canonical configuration
// payload is stored separately in the blob store via SetConfigPayload.
func (d *Database) SetProposal(
	proposal *models.Proposal,
	txn *Txn,
) error {
	if proposal == nil {
		return errors.New("proposal cannot be nil")
	}
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.metadata.SetProposal(proposal, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to set proposal: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit proposal: %w", err)
		}
	}
	return nil
}
