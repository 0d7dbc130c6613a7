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
)

// AddVote records a vote. Votes are strictly append-only: there is no
// upsert here, and the unique index on (proposal_hash, voter) turns a
// duplicate into a storage error as a backstop behind the application-level
// duplicate check.
func (d *MetadataStoreSqlite) AddVote(
	vote *models.ConfigVote,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(vote); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetVote retrieves a single vote by proposal hash and voter. Returns nil
// when the voter has not voted on that proposal.
func (d *MetadataStoreSqlite) GetVote(
	proposalHash []byte,
	voter string,
	txn *gorm.DB,
) (*models.ConfigVote, error) {
	var vote models.ConfigVote
	if result := d.resolveDB(txn).Where(
		"proposal_hash = ? AND voter = ?",
		proposalHash,
		voter,
	).First(&vote); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &vote, nil
}

// GetVotes retrieves all votes for a proposal in the order they were cast.
func (d *MetadataStoreSqlite) GetVotes(
	proposalHash []byte,
	txn *gorm.DB,
) ([]*models.ConfigVote, error) {
	var votes []*models.ConfigVote
	if result := d.resolveDB(txn).Where(
		"proposal_hash = ?",
		proposalHash,
	).Order("cast_height, cast_tx_index, id").Find(&votes); result.Error != nil {
		return nil, result.Error
	}
	return votes, nil
}
