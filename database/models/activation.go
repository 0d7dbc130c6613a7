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

// Activation is a queue entry scheduling a proposal's configuration to take
// effect at a specific height. Entries are consumed (deleted) at that
// height's block-commit boundary. ReachedHeight/ReachedTxIndex order
// competing entries when two quorums land on the same height: the pair that
// formed earlier wins.
type Activation struct {
	ID             uint   `gorm:"primarykey"`
	Height         uint64 `gorm:"index;not null"`
	ProposalHash   []byte `gorm:"uniqueIndex;size:32;not null"`
	ReachedHeight  uint64 `gorm:"not null"`
	ReachedTxIndex uint32 `gorm:"not null"`
}

// TableName returns the table name
func (Activation) TableName() string {
	return "activation"
}
