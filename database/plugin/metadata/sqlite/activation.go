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
	"github.com/blinklabs-io/covenant/database/models"
	"gorm.io/gorm"
)

// AddActivation enqueues a scheduled activation.
func (d *MetadataStoreSqlite) AddActivation(
	activation *models.Activation,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(activation); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetActivationsByHeight retrieves queue entries scheduled for the given
// height, ordered by the (reached_height, reached_tx_index) pair so the
// first entry is the collision-policy winner.
func (d *MetadataStoreSqlite) GetActivationsByHeight(
	height uint64,
	txn *gorm.DB,
) ([]*models.Activation, error) {
	var activations []*models.Activation
	if result := d.resolveDB(txn).Where(
		"height = ?",
		height,
	).Order("reached_height, reached_tx_index, id").Find(&activations); result.Error != nil {
		return nil, result.Error
	}
	return activations, nil
}

// DeleteActivation removes a queue entry by proposal hash. Deleting a
// non-existent entry is not an error.
func (d *MetadataStoreSqlite) DeleteActivation(
	proposalHash []byte,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Where(
		"proposal_hash = ?",
		proposalHash,
	).Delete(&models.Activation{}); result.Error != nil {
		return result.Error
	}
	return nil
}
