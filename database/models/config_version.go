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

var ErrConfigVersionNotFound = errors.New("config version not found")

// ConfigVersion is one entry in the append-only configuration history. Each
// row records the activation of a configuration at a specific height. Rows
// are never updated or deleted; the unique index on height enforces the
// one-active-config-per-height invariant at the storage layer.
//
// The canonical configuration payload is stored in the blob store keyed by
// Hash; this table holds only the chain structure needed for height lookups
// and predecessor-link verification.
type ConfigVersion struct {
	ID            uint   `gorm:"primarykey"`
	Height        uint64 `gorm:"uniqueIndex;not null"`
	Hash          []byte `gorm:"index;size:32;not null"`
	PrevHash      []byte `gorm:"size:32"`
	SchemaVersion uint32 `gorm:"not null"`
	// Hash of the proposal that produced this activation; empty for the
	// genesis configuration
	ProposalHash []byte `gorm:"size:32"`
}

// TableName returns the table name
func (ConfigVersion) TableName() string {
	return "config_version"
}
