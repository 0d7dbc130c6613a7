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

package api_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/covenant/api"
	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockState struct {
	config   *governance.Configuration
	hash     []byte
	pending  []*models.Proposal
	proposal *models.Proposal
	votes    []*models.ConfigVote
}

func (m *mockState) CurrentConfig() (*governance.Configuration, []byte, error) {
	if m.config == nil {
		return nil, nil, governance.ErrNotInitialized
	}
	return m.config, m.hash, nil
}

func (m *mockState) ConfigAt(
	height uint64,
) (*governance.Configuration, []byte, error) {
	return m.CurrentConfig()
}

func (m *mockState) PendingProposals() ([]*models.Proposal, error) {
	return m.pending, nil
}

func (m *mockState) Proposal(hash []byte) (*models.Proposal, error) {
	if m.proposal == nil || !bytes.Equal(m.proposal.Hash, hash) {
		return nil, models.ErrProposalNotFound
	}
	return m.proposal, nil
}

func (m *mockState) VotesFor(
	proposalHash []byte,
) ([]*models.ConfigVote, error) {
	return m.votes, nil
}

func testMockState() *mockState {
	config := &governance.Configuration{
		SchemaVersion: governance.CurrentSchemaVersion,
		Validators: map[string][]byte{
			"validator-a": []byte("pubkey-a"),
		},
		Consensus: governance.ConsensusParams{
			RoundTimeout: 3000,
		},
	}
	hash, _ := config.Hash()
	proposalHash := make([]byte, governance.HashSize)
	proposalHash[0] = 0x42
	return &mockState{
		config: config,
		hash:   hash,
		proposal: &models.Proposal{
			Hash:            proposalHash,
			Proposer:        "validator-a",
			SubmittedHeight: 10,
			TargetHeight:    100,
			Status:          models.ProposalStatusPending,
		},
		pending: []*models.Proposal{
			{
				Hash:            proposalHash,
				Proposer:        "validator-a",
				SubmittedHeight: 10,
				TargetHeight:    100,
				Status:          models.ProposalStatusPending,
			},
		},
		votes: []*models.ConfigVote{
			{
				ProposalHash: proposalHash,
				Voter:        "validator-a",
				Signature:    []byte("sig"),
				CastHeight:   20,
			},
		},
	}
}

func doRequest(
	t *testing.T,
	state api.QueryState,
	path string,
) *httptest.ResponseRecorder {
	t.Helper()
	server := api.New(api.Config{}, state, nil)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	w := doRequest(t, testMockState(), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsHealthy)
}

func TestHandleCurrentConfig(t *testing.T) {
	state := testMockState()
	w := doRequest(t, state, "/api/v1/config/current")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, hex.EncodeToString(state.hash), resp.Hash)
	assert.EqualValues(t, 3000, resp.Consensus.RoundTimeout)
	assert.Contains(t, resp.Validators, "validator-a")
}

func TestHandleCurrentConfigUninitialized(t *testing.T) {
	w := doRequest(t, &mockState{}, "/api/v1/config/current")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleConfigAtBadHeight(t *testing.T) {
	w := doRequest(t, testMockState(), "/api/v1/config/notanumber")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleProposals(t *testing.T) {
	w := doRequest(t, testMockState(), "/api/v1/proposals")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []api.ProposalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "pending", resp[0].Status)
	assert.EqualValues(t, 100, resp[0].TargetHeight)
}

func TestHandleProposal(t *testing.T) {
	state := testMockState()
	hashHex := hex.EncodeToString(state.proposal.Hash)
	w := doRequest(t, state, "/api/v1/proposals/"+hashHex)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.ProposalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, hashHex, resp.Hash)

	// Unknown hash
	unknown := hex.EncodeToString(make([]byte, governance.HashSize))
	w = doRequest(t, state, "/api/v1/proposals/"+unknown)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed hash
	w = doRequest(t, state, "/api/v1/proposals/zzzz")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleVotes(t *testing.T) {
	state := testMockState()
	hashHex := hex.EncodeToString(state.proposal.Hash)
	w := doRequest(t, state, "/api/v1/proposals/"+hashHex+"/votes")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []api.VoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "validator-a", resp[0].Voter)
	assert.EqualValues(t, 20, resp[0].CastHeight)
}
