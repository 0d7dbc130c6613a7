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
	"github.com/blinklabs-io/covenant/database/models"
)

// Threshold returns the strict supermajority vote count required against
// a validator set of size n: floor(2n/3) + 1
func Threshold(n int) int {
	return (n*2)/3 + 1
}

// LiveTally counts the distinct recorded voters that are members of the
// currently active validator set. Votes from validators that have since
// been removed stay in the ledger but are excluded here; the ledger is
// never purged.
func LiveTally(
	votes []*models.ConfigVote,
	active *Configuration,
) int {
	count := 0
	for _, vote := range votes {
		if active.IsValidator(vote.Voter) {
			count++
		}
	}
	return count
}
