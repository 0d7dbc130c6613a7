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

package database_test

import (
	"testing"

	"github.com/blinklabs-io/covenant/database"
	"github.com/blinklabs-io/covenant/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func testHash(fill byte) []byte {
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = fill
	}
	return hash
}

func TestProposalLifecycle(t *testing.T) {
	db := setupTestDatabase(t)
	hash := testHash(0x01)

	_, err := db.GetProposal(hash, nil)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)

	proposal := &models.Proposal{
		Hash:            hash,
		Proposer:        "validator-a",
		SubmittedHeight: 10,
		TargetHeight:    100,
		Status:          models.ProposalStatusPending,
	}
	require.NoError(t, db.SetProposal(proposal, nil))

	fetched, err := db.GetProposal(hash, nil)
	require.NoError(t, err)
	assert.Equal(t, "validator-a", fetched.Proposer)
	assert.EqualValues(t, models.ProposalStatusPending, fetched.Status)

	// Lifecycle update through the same upsert path
	reachedHeight := uint64(60)
	fetched.Status = models.ProposalStatusScheduled
	fetched.ReachedHeight = &reachedHeight
	require.NoError(t, db.SetProposal(fetched, nil))
	fetched, err = db.GetProposal(hash, nil)
	require.NoError(t, err)
	assert.EqualValues(t, models.ProposalStatusScheduled, fetched.Status)
	require.NotNil(t, fetched.ReachedHeight)
	assert.EqualValues(t, 60, *fetched.ReachedHeight)

	pending, err := db.GetProposalsByStatus(models.ProposalStatusPending, nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
	scheduled, err := db.GetProposalsByStatus(
		models.ProposalStatusScheduled,
		nil,
	)
	require.NoError(t, err)
	assert.Len(t, scheduled, 1)
}

func TestPendingProposalsBelow(t *testing.T) {
	db := setupTestDatabase(t)
	for i, target := range []uint64{50, 100, 150} {
		require.NoError(t, db.SetProposal(&models.Proposal{
			Hash:            testHash(byte(i + 1)),
			Proposer:        "validator-a",
			SubmittedHeight: 10,
			TargetHeight:    target,
			Status:          models.ProposalStatusPending,
		}, nil))
	}
	stale, err := db.GetPendingProposalsBelow(100, nil)
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}

func TestVoteLedger(t *testing.T) {
	db := setupTestDatabase(t)
	hash := testHash(0x02)

	_, err := db.GetVote(hash, "validator-a", nil)
	assert.ErrorIs(t, err, models.ErrVoteNotFound)

	// Insert out of cast order to check ordering on read
	require.NoError(t, db.AddVote(&models.ConfigVote{
		ProposalHash: hash,
		Voter:        "validator-b",
		Signature:    []byte("sig-b"),
		CastHeight:   60,
		CastTxIndex:  0,
	}, nil))
	require.NoError(t, db.AddVote(&models.ConfigVote{
		ProposalHash: hash,
		Voter:        "validator-a",
		Signature:    []byte("sig-a"),
		CastHeight:   50,
		CastTxIndex:  2,
	}, nil))

	vote, err := db.GetVote(hash, "validator-a", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 50, vote.CastHeight)

	votes, err := db.GetVotes(hash, nil)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, "validator-a", votes[0].Voter)
	assert.Equal(t, "validator-b", votes[1].Voter)

	// The unique index is the backstop against double votes
	err = db.AddVote(&models.ConfigVote{
		ProposalHash: hash,
		Voter:        "validator-a",
		Signature:    []byte("sig-a2"),
		CastHeight:   70,
	}, nil)
	assert.Error(t, err)
}

func TestConfigHistory(t *testing.T) {
	db := setupTestDatabase(t)
	hash0 := testHash(0x10)
	hash1 := testHash(0x11)

	_, err := db.GetLatestConfigVersion(nil)
	assert.ErrorIs(t, err, models.ErrConfigVersionNotFound)

	require.NoError(t, db.AddConfigVersion(&models.ConfigVersion{
		Height:        0,
		Hash:          hash0,
		SchemaVersion: 1,
	}, []byte("payload-0"), nil))
	require.NoError(t, db.AddConfigVersion(&models.ConfigVersion{
		Height:        100,
		Hash:          hash1,
		PrevHash:      hash0,
		SchemaVersion: 1,
	}, []byte("payload-1"), nil))

	version, err := db.GetConfigVersionAt(50, nil)
	require.NoError(t, err)
	assert.Equal(t, hash0, version.Hash)
	version, err = db.GetConfigVersionAt(100, nil)
	require.NoError(t, err)
	assert.Equal(t, hash1, version.Hash)
	version, err = db.GetConfigVersionAt(5000, nil)
	require.NoError(t, err)
	assert.Equal(t, hash1, version.Hash)

	version, err = db.GetConfigVersionByHeight(100, nil)
	require.NoError(t, err)
	assert.Equal(t, hash1, version.Hash)
	_, err = db.GetConfigVersionByHeight(99, nil)
	assert.ErrorIs(t, err, models.ErrConfigVersionNotFound)

	latest, err := db.GetLatestConfigVersion(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 100, latest.Height)

	payload, err := db.GetConfigPayload(hash0, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-0"), payload)
}

func TestActivationQueueOrdering(t *testing.T) {
	db := setupTestDatabase(t)
	// Second-reached quorum inserted first
	require.NoError(t, db.AddActivation(&models.Activation{
		Height:         100,
		ProposalHash:   testHash(0x22),
		ReachedHeight:  57,
		ReachedTxIndex: 0,
	}, nil))
	require.NoError(t, db.AddActivation(&models.Activation{
		Height:         100,
		ProposalHash:   testHash(0x21),
		ReachedHeight:  55,
		ReachedTxIndex: 3,
	}, nil))

	activations, err := db.GetActivationsByHeight(100, nil)
	require.NoError(t, err)
	require.Len(t, activations, 2)
	assert.Equal(t, testHash(0x21), activations[0].ProposalHash)
	assert.Equal(t, testHash(0x22), activations[1].ProposalHash)

	require.NoError(t, db.DeleteActivation(testHash(0x21), nil))
	activations, err = db.GetActivationsByHeight(100, nil)
	require.NoError(t, err)
	require.Len(t, activations, 1)
	assert.Equal(t, testHash(0x22), activations[0].ProposalHash)
}

// A transaction that is released without commit leaves no observable
// mutation
func TestTxnRollback(t *testing.T) {
	db := setupTestDatabase(t)
	hash := testHash(0x30)
	txn := db.Transaction(true)
	require.NoError(t, db.SetProposal(&models.Proposal{
		Hash:            hash,
		Proposer:        "validator-a",
		SubmittedHeight: 10,
		TargetHeight:    100,
		Status:          models.ProposalStatusPending,
	}, txn))
	require.NoError(t, db.SetConfigPayload(hash, []byte("payload"), txn))
	txn.Release()

	_, err := db.GetProposal(hash, nil)
	assert.ErrorIs(t, err, models.ErrProposalNotFound)
	_, err = db.GetConfigPayload(hash, nil)
	assert.Error(t, err)
}

func TestTxnCommit(t *testing.T) {
	db := setupTestDatabase(t)
	hash := testHash(0x31)
	txn := db.Transaction(true)
	require.NoError(t, db.SetProposal(&models.Proposal{
		Hash:            hash,
		Proposer:        "validator-a",
		SubmittedHeight: 10,
		TargetHeight:    100,
		Status:          models.ProposalStatusPending,
	}, txn))
	require.NoError(t, db.SetConfigPayload(hash, []byte("payload"), txn))
	require.NoError(t, txn.Commit())

	proposal, err := db.GetProposal(hash, nil)
	require.NoError(t, err)
	assert.Equal(t, hash, proposal.Hash)
	payload, err := db.GetConfigPayload(hash, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), payload)
}
