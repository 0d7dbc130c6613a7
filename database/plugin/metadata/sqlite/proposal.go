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

package sqlite

import (
	"errors"

	"github.com/blinklabs-io/covenant/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProposal retrieves a proposal by its content hash. Returns nil when no
// proposal with that hash exists.
func (d *MetadataStoreSqlite) GetProposal(
	hash []byte,
	txn *gorm.DB,
) (*models.Proposal, error) {
	var proposal models.Proposal
	if result := d.resolveDB(txn).Where(
		"hash = ?",
		hash,
	).First(&proposal); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &proposal, nil
}

// GetProposalsByStatus retrieves all proposals with the given status,
// ordered by submission for deterministic iteration.
func (d *MetadataStoreSqlite) GetProposalsByStatus(
	status uint8,
	txn *gorm.DB,
) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	if result := d.resolveDB(txn).Where(
		"status = ?",
		status,
	).Order("submitted_height, id").Find(&proposals); result.Error != nil {
		return nil, result.Error
	}
	return proposals, nil
}

// GetPendingProposalsBelow retrieves pending proposals whose target
// activation height is at or below the given height. These are the
// proposals that expire at that height's commit boundary.
func (d *MetadataStoreSqlite) GetPendingProposalsBelow(
	height uint64,
	txn *gorm.DB,
) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	if result := d.resolveDB(txn).Where(
		"status = ? AND target_height <= ?",
		models.ProposalStatusPending,
		height,
	).Order("submitted_height, id").Find(&proposals); result.Error != nil {
		return nil, result.Error
	}
	return proposals, nil
}

// SetProposal creates or updates a proposal.
func (d *MetadataStoreSqlite) SetProposal(
	proposal *models.Proposal,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{
			{Name: "hash"},
		},
		// Note: proposer, submitted_height and target_height are NOT
		// updated on conflict. They are fixed at submission; only the
		// status lifecycle fields change afterward.
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"reached_height",
			"reached_tx_index",
			"effective_height",
			"activated_height",
			"expired_height",
		}),
	}
	if result := d.resolveDB(txn).Clauses(onConflict).Create(proposal); result.Error != nil {
		return result.Error
	}
	return nil
}
