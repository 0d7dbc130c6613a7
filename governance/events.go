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
	"github.com/blinklabs-io/covenant/event"
)

const (
	ProposalSubmittedEventType event.EventType = "governance.proposal-submitted"
	VoteRecordedEventType      event.EventType = "governance.vote-recorded"
	QuorumReachedEventType     event.EventType = "governance.quorum-reached"
	ConfigActivatedEventType   event.EventType = "governance.config-activated"
	ProposalExpiredEventType   event.EventType = "governance.proposal-expired"
)

type ProposalSubmittedEvent struct {
	ProposalHash    []byte
	Proposer        string
	SubmittedHeight uint64
	TargetHeight    uint64
}

type VoteRecordedEvent struct {
	ProposalHash []byte
	Voter        string
	CastHeight   uint64
	LiveTally    int
	Threshold    int
}

type QuorumReachedEvent struct {
	ProposalHash    []byte
	ReachedHeight   uint64
	ReachedTxIndex  uint32
	EffectiveHeight uint64
}

type ConfigActivatedEvent struct {
	ConfigHash []byte
	PrevHash   []byte
	Height     uint64
}

type ProposalExpiredEvent struct {
	ProposalHash []byte
	Height       uint64
}
