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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/covenant/database/models"
)

// Config payloads are stored in the blob store keyed by content hash. The
// metadata store only carries the (height, hash) history index.
func configBlobKey(hash []byte) []byte {
	return []byte("config:" + hex.EncodeToString(hash))
}

// AddConfigVersion appends a new entry to the configuration history and
// stores the canonical payload in the blob store
func (d *Database) AddConfigVersion(
	version *models.ConfigVersion,
	payload []byte,
	txn *Txn,
) error {
	if version == nil {
		return errors.New("config version cannot be nil")
	}
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.metadata.AddConfigVersion(version, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to add config version: %w", err)
	}
	if err := d.blob.Set(txn.Blob(), configBlobKey(version.Hash), payload); err != nil {
		return fmt.Errorf("failed to store config payload: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit config version: %w", err)
		}
	}
	return nil
}

// GetConfigVersionAt returns the configuration version in effect at the
// given height, or models.ErrConfigVersionNotFound when the history is
// empty below that height
func (d *Database) GetConfigVersionAt(
	height uint64,
	txn *Txn,
) (*models.ConfigVersion, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	version, err := d.metadata.GetConfigVersionAt(height, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get config version: %w", err)
	}
	if version == nil {
		return nil, models.ErrConfigVersionNotFound
	}
	return version, nil
}

// GetConfigVersionByHeight returns the configuration version activated at
// exactly the given height, or models.ErrConfigVersionNotFound
func (d *Database) GetConfigVersionByHeight(
	height uint64,
	txn *Txn,
) (*models.ConfigVersion, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	version, err := d.metadata.GetConfigVersionByHeight(height, txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get config version: %w", err)
	}
	if version == nil {
		return nil, models.ErrConfigVersionNotFound
	}
	return version, nil
}

// GetLatestConfigVersion returns the most recently activated configuration
// version, or models.ErrConfigVersionNotFound when no configuration exists
func (d *Database) GetLatestConfigVersion(
	txn *Txn,
) (*models.ConfigVersion, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	version, err := d.metadata.GetLatestConfigVersion(txn.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to get latest config version: %w", err)
	}
	if version == nil {
		return nil, models.ErrConfigVersionNotFound
	}
	return version, nil
}

// SetConfigPayload stores a canonical configuration payload in the blob
// store keyed by its content hash. Content-addressed, so repeat writes of
// the same payload are idempotent.
func (d *Database) SetConfigPayload(
	hash []byte,
	payload []byte,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.blob.Set(txn.Blob(), configBlobKey(hash), payload); err != nil {
		return fmt.Errorf("failed to store config payload: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit config payload: %w", err)
		}
	}
	return nil
}

// GetConfigPayload returns the canonical configuration payload for the
// given content hash
func (d *Database) GetConfigPayload(
	hash []byte,
	txn *Txn,
) ([]byte, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	payload, err := d.blob.Get(txn.Blob(), configBlobKey(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to get config payload: %w", err)
	}
	return payload, nil
}
