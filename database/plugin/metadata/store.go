// Copyright 2025 Blink Labs Software
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

package metadata

import (
	"log/slog"

	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/database/plugin/metadata/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(*gorm.DB, int64) error
	Transaction() *gorm.DB

	// Proposals
	GetProposal(
		[]byte, // hash
		*gorm.DB,
	) (*models.Proposal, error)
	GetProposalsByStatus(
		uint8, // status
		*gorm.DB,
	) ([]*models.Proposal, error)
	GetPendingProposalsBelow(
		uint64, // height
		*gorm.DB,
	) ([]*models.Proposal, error)
	SetProposal(
		*models.Proposal,
		*gorm.DB,
	) error

	// Votes
	AddVote(
		*models.ConfigVote,
		*gorm.DB,
	) error
	GetVote(
		[]byte, // proposalHash
		string, // voter
		*gorm.DB,
	) (*models.ConfigVote, error)
	GetVotes(
		[]byte, // proposalHash
		*gorm.DB,
	) ([]*models.ConfigVote, error)

	// Configuration history
	AddConfigVersion(
		*models.ConfigVersion,
		*gorm.DB,
	) error
	GetConfigVersionAt(
		uint64, // height
		*gorm.DB,
	) (*models.ConfigVersion, error)
	GetConfigVersionByHeight(
		uint64, // height
		*gorm.DB,
	) (*models.ConfigVersion, error)
	GetLatestConfigVersion(*gorm.DB) (*models.ConfigVersion, error)

	// Activation queue
	AddActivation(
		*models.Activation,
		*gorm.DB,
	) error
	GetActivationsByHeight(
		uint64, // height
		*gorm.DB,
	) ([]*models.Activation, error)
	DeleteActivation(
		[]byte, // proposalHash
		*gorm.DB,
	) error
}

// For now, this always returns a sqlite plugin
func New(
	pluginName, dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	return sqlite.New(dataDir, logger, promRegistry)
}
