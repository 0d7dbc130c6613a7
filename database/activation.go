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

// AddActivation schedules a proposal for activation at a given height
func (d *Database) AddActivation(
	activation *models.Activation,
	txn *Txn,
) error {
	if activation == nil {
		return errors.New("activation cannot be nil")
	}
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.metadata.AddActivation(activation, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to add activation: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit activation: %w", err)
		}
	}
	return nil
}

// GetActivationsByHeight returns all activations scheduled for a height,
// ordered by quorum precedence
func (d *Database) GetActivationsByHeight(
	height uint64,
	txn *Txn,
) ([]*models.Activation, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	activations, err := d.metadata.GetActivationsByHeight(
		height,
		txn.Metadata(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get activations: %w", err)
	}
	return activations, nil
}

// DeleteActivation removes a scheduled activation for a proposal
func (d *Database) DeleteActivation(
	proposalHash []byte,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Release()
	}
	if err := d.metadata.DeleteActivation(proposalHash, txn.Metadata()); err != nil {
		return fmt.Errorf("failed to delete activation: %w", err)
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("failed to commit activation delete: %w", err)
		}
	}
	return nil
}
