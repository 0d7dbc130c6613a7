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
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/governance"
)

const apiVersion = "0.1.0"

func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		URL:     "https://blinklabs.io/",
		Version: apiVersion,
	})
}

func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleCurrentConfig handles GET /api/v1/config/current and returns the
// active configuration
func (a *Api) handleCurrentConfig(
	w http.ResponseWriter,
	_ *http.Request,
) {
	config, hash, err := a.state.CurrentConfig()
	if err != nil {
		if errors.Is(err, governance.ErrNotInitialized) {
			writeError(
				w,
				http.StatusNotFound,
				"Not Found",
				"no active configuration",
			)
			return
		}
		a.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newConfigResponse(config, hash))
}

// handleConfigAt handles GET /api/v1/config/{height} and returns the
// configuration in effect at the given height
func (a *Api) handleConfigAt(
	w http.ResponseWriter,
	r *http.Request,
) {
	height, err := strconv.ParseUint(r.PathValue("height"), 10, 64)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid height",
		)
		return
	}
	config, hash, err := a.state.ConfigAt(height)
	if err != nil {
		if errors.Is(err, governance.ErrNotInitialized) {
			writeError(
				w,
				http.StatusNotFound,
				"Not Found",
				"no configuration at height",
			)
			return
		}
		a.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newConfigResponse(config, hash))
}

// handleProposals handles GET /api/v1/proposals and returns proposals
// awaiting quorum
func (a *Api) handleProposals(
	w http.ResponseWriter,
	_ *http.Request,
) {
	proposals, err := a.state.PendingProposals()
	if err != nil {
		a.serverError(w, err)
		return
	}
	resp := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		resp = append(resp, newProposalResponse(proposal))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProposal handles GET /api/v1/proposals/{hash}
func (a *Api) handleProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	hash, ok := a.parseHash(w, r)
	if !ok {
		return
	}
	proposal, err := a.state.Proposal(hash)
	if err != nil {
		if errors.Is(err, models.ErrProposalNotFound) {
			writeError(
				w,
				http.StatusNotFound,
				"Not Found",
				"unknown proposal",
			)
			return
		}
		a.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProposalResponse(proposal))
}

// handleVotes handles GET /api/v1/proposals/{hash}/votes and returns the
// recorded votes in cast order
func (a *Api) handleVotes(
	w http.ResponseWriter,
	r *http.Request,
) {
	hash, ok := a.parseHash(w, r)
	if !ok {
		return
	}
	votes, err := a.state.VotesFor(hash)
	if err != nil {
		a.serverError(w, err)
		return
	}
	resp := make([]VoteResponse, 0, len(votes))
	for _, vote := range votes {
		resp = append(resp, newVoteResponse(vote))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *Api) parseHash(
	w http.ResponseWriter,
	r *http.Request,
) ([]byte, bool) {
	hash, err := hex.DecodeString(r.PathValue("hash"))
	if err != nil || len(hash) != governance.HashSize {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"invalid proposal hash",
		)
		return nil, false
	}
	return hash, true
}

func (a *Api) serverError(w http.ResponseWriter, err error) {
	a.logger.Error(
		"query API request failed",
		"error", err,
	)
	writeError(
		w,
		http.StatusInternalServerError,
		"Internal Server Error",
		"unexpected error",
	)
}
