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

package governance

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/covenant/database"
	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrNotInitialized = errors.New(
	"configuration history has no genesis entry",
)

type StateConfig struct {
	Logger       *slog.Logger
	Database     *database.Database
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Verifier     SignatureVerifier
}

type stateMetrics struct {
	proposalsTotal     prometheus.Counter
	votesTotal         prometheus.Counter
	activationsTotal   prometheus.Counter
	expirationsTotal   prometheus.Counter
	pendingProposals   prometheus.Gauge
	activeConfigHeight prometheus.Gauge
}

// State is the governance decision core. All mutation happens inside the
// host's strictly sequential transaction pipeline: one transaction is
// fully applied before the next begins, and every accept/reject outcome is
// a pure function of (persisted state, incoming transaction). Each inbound
// transaction runs in a single storage transaction; a rejection rolls back
// with zero observable mutation.
type State struct {
	sync.RWMutex
	logger   *slog.Logger
	db       *database.Database
	eventBus *event.EventBus
	verifier SignatureVerifier
	metrics  stateMetrics

	// Cached copy of the active configuration. Authoritative state lives
	// in the config history; the cache is refreshed on activation.
	currentConfig *Configuration
	currentHash   []byte
}

type pendingEvent struct {
	eventType event.EventType
	data      any
}

func NewState(cfg StateConfig) (*State, error) {
	if cfg.Database == nil {
		return nil, errors.New("database is required")
	}
	if cfg.Verifier == nil {
		return nil, errors.New("signature verifier is required")
	}
	s := &State{
		logger:   cfg.Logger,
		db:       cfg.Database,
		eventBus: cfg.EventBus,
		verifier: cfg.Verifier,
	}
	if s.logger == nil {
		// Create logger to throw away logs
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.PromRegistry != nil {
		s.registerMetrics(cfg.PromRegistry)
	}
	if err := s.loadCurrentConfig(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) registerMetrics(registry prometheus.Registerer) {
	factory := promauto.With(registry)
	s.metrics.proposalsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "governance_proposals_total",
		Help: "total accepted configuration proposals",
	})
	s.metrics.votesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "governance_votes_total",
		Help: "total accepted configuration votes",
	})
	s.metrics.activationsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "governance_activations_total",
		Help: "total activated configurations",
	})
	s.metrics.expirationsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "governance_expirations_total",
		Help: "total expired proposals",
	})
	s.metrics.pendingProposals = factory.NewGauge(prometheus.GaugeOpts{
		Name: "governance_pending_proposals",
		Help: "current count of pending proposals",
	})
	s.metrics.activeConfigHeight = factory.NewGauge(prometheus.GaugeOpts{
		Name: "governance_active_config_height",
		Help: "activation height of the active configuration",
	})
}

// loadCurrentConfig restores the active configuration cache from the
// config history on startup
func (s *State) loadCurrentConfig() error {
	txn := s.db.Transaction(false)
	defer txn.Release()
	version, err := s.db.GetLatestConfigVersion(txn)
	if err != nil {
		if errors.Is(err, models.ErrConfigVersionNotFound) {
			// Not yet initialized
			return nil
		}
		return err
	}
	payload, err := s.db.GetConfigPayload(version.Hash, txn)
	if err != nil {
		return err
	}
	config, err := DecodeConfiguration(payload)
	if err != nil {
		return fmt.Errorf("failed to decode active configuration: %w", err)
	}
	s.currentConfig = config
	s.currentHash = version.Hash
	if s.metrics.activeConfigHeight != nil {
		s.metrics.activeConfigHeight.Set(float64(version.Height))
	}
	s.logger.Info(
		"restored active configuration",
		"component", "governance",
		"height", version.Height,
		"hash", hashString(version.Hash),
	)
	return nil
}

// Initialize commits the genesis configuration at height zero. It can run
// exactly once; the genesis entry carries no previous-config hash.
func (s *State) Initialize(genesis *Configuration) error {
	s.Lock()
	defer s.Unlock()
	if s.currentConfig != nil {
		return ErrAlreadyInitialized
	}
	if genesis.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("%w: %d", ErrSchemaVersion, genesis.SchemaVersion)
	}
	if len(genesis.Validators) == 0 {
		return ErrEmptyValidatorSet
	}
	if len(genesis.PreviousConfigHash) != 0 {
		return fmt.Errorf(
			"%w: genesis cannot reference a previous configuration",
			ErrMalformedConfig,
		)
	}
	payload, err := genesis.Encode()
	if err != nil {
		return err
	}
	genesisHash, err := genesis.Hash()
	if err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	defer txn.Release()
	if _, err := s.db.GetLatestConfigVersion(txn); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, models.ErrConfigVersionNotFound) {
		return err
	}
	tmpVersion := &models.ConfigVersion{
		Height:        0,
		Hash:          genesisHash,
		SchemaVersion: genesis.SchemaVersion,
	}
	if err := s.db.AddConfigVersion(tmpVersion, payload, txn); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	s.currentConfig = genesis
	s.currentHash = genesisHash
	if s.metrics.activeConfigHeight != nil {
		s.metrics.activeConfigHeight.Set(0)
	}
	s.logger.Info(
		"initialized genesis configuration",
		"component", "governance",
		"hash", hashString(genesisHash),
		"validators", genesis.ValidatorCount(),
	)
	s.publish(pendingEvent{
		eventType: ConfigActivatedEventType,
		data: ConfigActivatedEvent{
			ConfigHash: genesisHash,
			Height:     0,
		},
	})
	return nil
}

// ApplyPropose processes a Propose transaction at the given height and
// intra-block transaction index. On success the proposal is persisted as
// pending and its content hash returned. Any rejection leaves state
// untouched.
func (s *State) ApplyPropose(
	height uint64,
	txIndex uint32,
	proposer string,
	configBytes []byte,
	targetHeight uint64,
) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	if s.currentConfig == nil {
		return nil, ErrNotInitialized
	}
	config, err := DecodeConfiguration(configBytes)
	if err != nil {
		return nil, err
	}
	contentHash, err := config.Hash()
	if err != nil {
		return nil, err
	}
	txn := s.db.Transaction(true)
	defer txn.Release()
	proposalExists := true
	if _, err := s.db.GetProposal(contentHash, txn); err != nil {
		if !errors.Is(err, models.ErrProposalNotFound) {
			return nil, err
		}
		proposalExists = false
	}
	if err := ValidateProposal(
		config,
		proposer,
		height,
		targetHeight,
		s.currentConfig,
		proposalExists,
	); err != nil {
		return nil, err
	}
	tmpProposal := &models.Proposal{
		Hash:            contentHash,
		Proposer:        proposer,
		SubmittedHeight: height,
		TargetHeight:    targetHeight,
		Status:          models.ProposalStatusPending,
	}
	if err := s.db.SetProposal(tmpProposal, txn); err != nil {
		return nil, err
	}
	// Store the canonical re-encoding, not the submitted bytes, so the
	// payload on every node is byte-identical regardless of how the
	// proposer serialized it
	canonical, err := config.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.db.SetConfigPayload(contentHash, canonical, txn); err != nil {
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	if s.metrics.proposalsTotal != nil {
		s.metrics.proposalsTotal.Inc()
		s.metrics.pendingProposals.Inc()
	}
	s.logger.Info(
		"proposal accepted",
		"component", "governance",
		"hash", hashString(contentHash),
		"proposer", proposer,
		"height", height,
		"tx_index", txIndex,
		"target_height", targetHeight,
	)
	s.publish(pendingEvent{
		eventType: ProposalSubmittedEventType,
		data: ProposalSubmittedEvent{
			ProposalHash:    contentHash,
			Proposer:        proposer,
			SubmittedHeight: height,
			TargetHeight:    targetHeight,
		},
	})
	return contentHash, nil
}

// ApplyVote processes a Vote transaction at the given height and
// intra-block transaction index. The voter must be a member of the set
// active at the moment of voting. After recording, the live tally is
// recomputed; on reaching threshold the proposal is scheduled for
// activation at max(target, height+1).
func (s *State) ApplyVote(
	height uint64,
	txIndex uint32,
	voter string,
	proposalHash []byte,
	signature []byte,
) error {
	s.Lock()
	defer s.Unlock()
	if s.currentConfig == nil {
		return ErrNotInitialized
	}
	txn := s.db.Transaction(true)
	defer txn.Release()
	proposal, err := s.db.GetProposal(proposalHash, txn)
	if err != nil {
		if errors.Is(err, models.ErrProposalNotFound) {
			return fmt.Errorf(
				"%w: %s",
				ErrUnknownProposal,
				hashString(proposalHash),
			)
		}
		return err
	}
	switch proposal.Status {
	case models.ProposalStatusActivated:
		return ErrProposalAlreadyActivated
	case models.ProposalStatusExpired:
		return ErrProposalExpired
	}
	pubKey, ok := s.currentConfig.Validators[voter]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVoterNotCurrentValidator, voter)
	}
	if existing, err := s.db.GetVote(proposalHash, voter, txn); err != nil {
		if !errors.Is(err, models.ErrVoteNotFound) {
			return err
		}
	} else if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateVote, voter)
	}
	if !s.verifier.Verify(
		pubKey,
		VoteSignMessage(proposalHash, voter),
		signature,
	) {
		return fmt.Errorf("%w: voter %s", ErrBadSignature, voter)
	}
	tmpVote := &models.ConfigVote{
		ProposalHash: proposalHash,
		Voter:        voter,
		Signature:    signature,
		CastHeight:   height,
		CastTxIndex:  txIndex,
	}
	if err := s.db.AddVote(tmpVote, txn); err != nil {
		return err
	}
	votes, err := s.db.GetVotes(proposalHash, txn)
	if err != nil {
		return err
	}
	tally := LiveTally(votes, s.currentConfig)
	threshold := Threshold(s.currentConfig.ValidatorCount())
	events := []pendingEvent{
		{
			eventType: VoteRecordedEventType,
			data: VoteRecordedEvent{
				ProposalHash: proposalHash,
				Voter:        voter,
				CastHeight:   height,
				LiveTally:    tally,
				Threshold:    threshold,
			},
		},
	}
	scheduled := false
	var effectiveHeight uint64
	if proposal.Status == models.ProposalStatusPending && tally >= threshold {
		// Quorum. A late-forming quorum is never dropped: the effective
		// height can slip past the target but never below the next
		// unprocessed height.
		effectiveHeight = proposal.TargetHeight
		if height+1 > effectiveHeight {
			effectiveHeight = height + 1
		}
		proposal.Status = models.ProposalStatusScheduled
		proposal.ReachedHeight = &height
		proposal.ReachedTxIndex = &txIndex
		proposal.EffectiveHeight = &effectiveHeight
		if err := s.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		tmpActivation := &models.Activation{
			Height:         effectiveHeight,
			ProposalHash:   proposalHash,
			ReachedHeight:  height,
			ReachedTxIndex: txIndex,
		}
		if err := s.db.AddActivation(tmpActivation, txn); err != nil {
			return err
		}
		scheduled = true
		events = append(events, pendingEvent{
			eventType: QuorumReachedEventType,
			data: QuorumReachedEvent{
				ProposalHash:    proposalHash,
				ReachedHeight:   height,
				ReachedTxIndex:  txIndex,
				EffectiveHeight: effectiveHeight,
			},
		})
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	if s.metrics.votesTotal != nil {
		s.metrics.votesTotal.Inc()
		if scheduled {
			s.metrics.pendingProposals.Dec()
		}
	}
	s.logger.Info(
		"vote recorded",
		"component", "governance",
		"hash", hashString(proposalHash),
		"voter", voter,
		"height", height,
		"tally", tally,
		"threshold", threshold,
	)
	if scheduled {
		s.logger.Info(
			"quorum reached",
			"component", "governance",
			"hash", hashString(proposalHash),
			"effective_height", effectiveHeight,
		)
	}
	s.publish(events...)
	return nil
}

// CommitBlock runs the block-commit boundary hook for the given height:
// scheduled activations for this height are applied (the quorum reached at
// the lowest (height, txIndex) pair wins a collision; losers expire) and
// pending proposals whose target height has passed without quorum expire.
// A returned InvariantViolationError means state divergence; the caller
// must halt block processing.
func (s *State) CommitBlock(height uint64) error {
	s.Lock()
	defer s.Unlock()
	if s.currentConfig == nil {
		return ErrNotInitialized
	}
	txn := s.db.Transaction(true)
	defer txn.Release()
	var events []pendingEvent
	var newConfig *Configuration
	var newHash []byte
	activations, err := s.db.GetActivationsByHeight(height, txn)
	if err != nil {
		return err
	}
	if len(activations) > 0 {
		if _, err := s.db.GetConfigVersionByHeight(height, txn); err == nil {
			return NewInvariantViolationError(
				height,
				"configuration already activated at this height",
			)
		} else if !errors.Is(err, models.ErrConfigVersionNotFound) {
			return err
		}
	}
	activated := false
	for _, activation := range activations {
		proposal, err := s.db.GetProposal(activation.ProposalHash, txn)
		if err != nil {
			if errors.Is(err, models.ErrProposalNotFound) {
				return NewInvariantViolationError(
					height,
					fmt.Sprintf(
						"activation queue references unknown proposal %s",
						hashString(activation.ProposalHash),
					),
				)
			}
			return err
		}
		if proposal.Status != models.ProposalStatusScheduled {
			return NewInvariantViolationError(
				height,
				fmt.Sprintf(
					"activation queue references proposal %s with status %d",
					hashString(proposal.Hash),
					proposal.Status,
				),
			)
		}
		apply := false
		var config *Configuration
		var payload []byte
		if !activated {
			payload, err = s.db.GetConfigPayload(activation.ProposalHash, txn)
			if err != nil {
				return NewInvariantViolationError(
					height,
					fmt.Sprintf(
						"missing payload for scheduled proposal %s",
						hashString(activation.ProposalHash),
					),
				)
			}
			config, err = DecodeConfiguration(payload)
			if err != nil {
				return NewInvariantViolationError(
					height,
					fmt.Sprintf(
						"stored payload for proposal %s does not decode",
						hashString(activation.ProposalHash),
					),
				)
			}
			// The chain may have moved past this proposal's parent if
			// another configuration activated after it was scheduled
			apply = HashEqual(config.PreviousConfigHash, s.currentHash)
		}
		if apply {
			tmpVersion := &models.ConfigVersion{
				Height:        height,
				Hash:          activation.ProposalHash,
				PrevHash:      s.currentHash,
				SchemaVersion: config.SchemaVersion,
				ProposalHash:  activation.ProposalHash,
			}
			if err := s.db.AddConfigVersion(tmpVersion, payload, txn); err != nil {
				return err
			}
			proposal.Status = models.ProposalStatusActivated
			proposal.ActivatedHeight = &height
			if err := s.db.SetProposal(proposal, txn); err != nil {
				return err
			}
			activated = true
			newConfig = config
			newHash = activation.ProposalHash
			events = append(events, pendingEvent{
				eventType: ConfigActivatedEventType,
				data: ConfigActivatedEvent{
					ConfigHash: activation.ProposalHash,
					PrevHash:   s.currentHash,
					Height:     height,
				},
			})
		} else {
			proposal.Status = models.ProposalStatusExpired
			proposal.ExpiredHeight = &height
			if err := s.db.SetProposal(proposal, txn); err != nil {
				return err
			}
			events = append(events, pendingEvent{
				eventType: ProposalExpiredEventType,
				data: ProposalExpiredEvent{
					ProposalHash: proposal.Hash,
					Height:       height,
				},
			})
		}
		if err := s.db.DeleteActivation(activation.ProposalHash, txn); err != nil {
			return err
		}
	}
	// Pending proposals whose target height has passed without quorum can
	// no longer activate; their votes become unreachable for tallying
	stale, err := s.db.GetPendingProposalsBelow(height, txn)
	if err != nil {
		return err
	}
	for _, proposal := range stale {
		proposal.Status = models.ProposalStatusExpired
		proposal.ExpiredHeight = &height
		if err := s.db.SetProposal(proposal, txn); err != nil {
			return err
		}
		events = append(events, pendingEvent{
			eventType: ProposalExpiredEventType,
			data: ProposalExpiredEvent{
				ProposalHash: proposal.Hash,
				Height:       height,
			},
		})
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	if newConfig != nil {
		s.currentConfig = newConfig
		s.currentHash = newHash
		s.logger.Info(
			"configuration activated",
			"component", "governance",
			"height", height,
			"hash", hashString(newHash),
			"validators", newConfig.ValidatorCount(),
		)
	}
	s.updateCommitMetrics(events, len(stale), height, newConfig != nil)
	s.publish(events...)
	return nil
}

func (s *State) updateCommitMetrics(
	events []pendingEvent,
	stalePending int,
	height uint64,
	activated bool,
) {
	if s.metrics.activationsTotal == nil {
		return
	}
	for _, evt := range events {
		if evt.eventType == ProposalExpiredEventType {
			s.metrics.expirationsTotal.Inc()
		}
	}
	if stalePending > 0 {
		s.metrics.pendingProposals.Sub(float64(stalePending))
	}
	if activated {
		s.metrics.activationsTotal.Inc()
		s.metrics.activeConfigHeight.Set(float64(height))
	}
}

func (s *State) publish(events ...pendingEvent) {
	if s.eventBus == nil {
		return
	}
	for _, evt := range events {
		s.eventBus.Publish(
			evt.eventType,
			event.NewEvent(evt.eventType, evt.data),
		)
	}
}

// CurrentConfig returns the active configuration and its content hash
func (s *State) CurrentConfig() (*Configuration, []byte, error) {
	s.RLock()
	defer s.RUnlock()
	if s.currentConfig == nil {
		return nil, nil, ErrNotInitialized
	}
	return s.currentConfig, s.currentHash, nil
}

// ConfigAt resolves the configuration in effect at the given height: the
// nearest activation at or before it
func (s *State) ConfigAt(height uint64) (*Configuration, []byte, error) {
	txn := s.db.Transaction(false)
	defer txn.Release()
	version, err := s.db.GetConfigVersionAt(height, txn)
	if err != nil {
		if errors.Is(err, models.ErrConfigVersionNotFound) {
			return nil, nil, ErrNotInitialized
		}
		return nil, nil, err
	}
	payload, err := s.db.GetConfigPayload(version.Hash, txn)
	if err != nil {
		return nil, nil, err
	}
	config, err := DecodeConfiguration(payload)
	if err != nil {
		return nil, nil, err
	}
	return config, version.Hash, nil
}

// Proposal returns a proposal by content hash
func (s *State) Proposal(hash []byte) (*models.Proposal, error) {
	return s.db.GetProposal(hash, nil)
}

// PendingProposals returns all proposals still awaiting quorum
func (s *State) PendingProposals() ([]*models.Proposal, error) {
	return s.db.GetProposalsByStatus(models.ProposalStatusPending, nil)
}

// VotesFor returns the recorded votes for a proposal in cast order. The
// ledger keeps votes from since-removed validators; callers that need the
// live tally should filter against the active set.
func (s *State) VotesFor(proposalHash []byte) ([]*models.ConfigVote, error) {
	return s.db.GetVotes(proposalHash, nil)
}
