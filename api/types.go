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

package api

import (
	"encoding/hex"

	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/governance"
)

type RootResponse struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type ConsensusParamsResponse struct {
	RoundTimeout  uint64 `json:"round_timeout"`
	StatusTimeout uint64 `json:"status_timeout"`
	PeersTimeout  uint64 `json:"peers_timeout"`
	TxsBlockLimit uint32 `json:"txs_block_limit"`
	MaxMessageLen uint32 `json:"max_message_len"`
}

type ConfigResponse struct {
	Hash               string                  `json:"hash"`
	SchemaVersion      uint32                  `json:"schema_version"`
	PreviousConfigHash string                  `json:"previous_config_hash"`
	Validators         map[string]string       `json:"validators"`
	Consensus          ConsensusParamsResponse `json:"consensus"`
	ServiceParams      map[string]string       `json:"service_params"`
}

type ProposalResponse struct {
	Hash            string  `json:"hash"`
	Proposer        string  `json:"proposer"`
	SubmittedHeight uint64  `json:"submitted_height"`
	TargetHeight    uint64  `json:"target_height"`
	Status          string  `json:"status"`
	ReachedHeight   *uint64 `json:"reached_height,omitempty"`
	EffectiveHeight *uint64 `json:"effective_height,omitempty"`
	ActivatedHeight *uint64 `json:"activated_height,omitempty"`
	ExpiredHeight   *uint64 `json:"expired_height,omitempty"`
}

type VoteResponse struct {
	ProposalHash string `json:"proposal_hash"`
	Voter        string `json:"voter"`
	Signature    string `json:"signature"`
	CastHeight   uint64 `json:"cast_height"`
	CastTxIndex  uint32 `json:"cast_tx_index"`
}

func newConfigResponse(
	config *governance.Configuration,
	hash []byte,
) ConfigResponse {
	validators := make(map[string]string, len(config.Validators))
	for id, pubKey := range config.Validators {
		validators[id] = hex.EncodeToString(pubKey)
	}
	serviceParams := make(map[string]string, len(config.ServiceParams))
	for name, value := range config.ServiceParams {
		serviceParams[name] = hex.EncodeToString(value)
	}
	return ConfigResponse{
		Hash:               hex.EncodeToString(hash),
		SchemaVersion:      config.SchemaVersion,
		PreviousConfigHash: hex.EncodeToString(config.PreviousConfigHash),
		Validators:         validators,
		Consensus: ConsensusParamsResponse{
			RoundTimeout:  config.Consensus.RoundTimeout,
			StatusTimeout: config.Consensus.StatusTimeout,
			PeersTimeout:  config.Consensus.PeersTimeout,
			TxsBlockLimit: config.Consensus.TxsBlockLimit,
			MaxMessageLen: config.Consensus.MaxMessageLen,
		},
		ServiceParams: serviceParams,
	}
}

func proposalStatusString(status uint8) string {
	switch status {
	case models.ProposalStatusPending:
		return "pending"
	case models.ProposalStatusScheduled:
		return "scheduled"
	case models.ProposalStatusActivated:
		return "activated"
	case models.ProposalStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

func newProposalResponse(proposal *models.Proposal) ProposalResponse {
	return ProposalResponse{
		Hash:            hex.EncodeToString(proposal.Hash),
		Proposer:        proposal.Proposer,
		SubmittedHeight: proposal.SubmittedHeight,
		TargetHeight:    proposal.TargetHeight,
		Status:          proposalStatusString(proposal.Status),
		ReachedHeight:   proposal.ReachedHeight,
		EffectiveHeight: proposal.EffectiveHeight,
		ActivatedHeight: proposal.ActivatedHeight,
		ExpiredHeight:   proposal.ExpiredHeight,
	}
}

func newVoteResponse(vote *models.ConfigVote) VoteResponse {
	return VoteResponse{
		ProposalHash: hex.EncodeToString(vote.ProposalHash),
		Voter:        vote.Voter,
		Signature:    hex.EncodeToString(vote.Signature),
		CastHeight:   vote.CastHeight,
		CastTxIndex:  vote.CastTxIndex,
	}
}
