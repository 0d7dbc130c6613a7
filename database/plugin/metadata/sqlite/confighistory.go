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

// AddConfigVersion appends an activation entry to the configuration
// history. History is append-only: plain Create, no conflict clause. The
// unique index on height rejects a second activation at the same height.
func (d *MetadataStoreSqlite) AddConfigVersion(
	configVersion *models.ConfigVersion,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(configVersion); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetConfigVersionAt retrieves the configuration active at the given
// height: the nearest activation at or before it. The index on height makes
// this a single indexed lookup rather than a history walk. Returns nil when
// no configuration has activated at or before the height.
func (d *MetadataStoreSqlite) GetConfigVersionAt(
	height uint64,
	txn *gorm.DB,
) (*models.ConfigVersion, error) {
	var configVersion models.ConfigVersion
	if result := d.resolveDB(txn).Where(
		"height <= ?",
		height,
	).Order("height DESC").First(&configVersion); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &configVersion, nil
}

// GetConfigVersionByHeight retrieves the history entry for an exact
// activation height, if one exists.
func (d *MetadataStoreSqlite) GetConfigVersionByHeight(
	height uint64,
	txn *gorm.DB,
) (*models.ConfigVersion, error) {
	var configVersion models.ConfigVersion
	if result := d.resolveDB(txn).Where(
		"height = ?",
		height,
	).First(&configVersion); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &configVersion, nil
}

// GetLatestConfigVersion retrieves the most recent activation, i.e. the
// current configuration. Returns nil when the history is empty.
func (d *MetadataStoreSqlite) GetLatestConfigVersion(
	txn *gorm.DB,
) (*models.ConfigVersion, error) {
	var configVersion models.ConfigVersion
	if result := d.resolveDB(txn).Order(
		"height DESC",
	).First(&configVersion); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &configVersion, nil
}
