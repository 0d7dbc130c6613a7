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
	"crypto/ed25519"
)

// SignatureVerifier checks a vote signature against the voter's public key
// taken from the active configuration. Verification is a pure boolean
// capability; the module never signs anything itself.
type SignatureVerifier interface {
	Verify(publicKey []byte, message []byte, signature []byte) bool
}

// VoteSignMessage builds the byte string a validator signs when voting:
// the proposal content hash followed by the voter identity
func VoteSignMessage(proposalHash []byte, voter string) []byte {
	msg := make([]byte, 0, len(proposalHash)+len(voter))
	msg = append(msg, proposalHash...)
	msg = append(msg, []byte(voter)...)
	return msg
}

// Ed25519Verifier verifies Ed25519 vote signatures
type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(
	publicKey []byte,
	message []byte,
	signature []byte,
) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// AcceptAllVerifier accepts every signature. Test use only.
type AcceptAllVerifier struct{}

func (AcceptAllVerifier) Verify(_ []byte, _ []byte, _ []byte) bool {
	return true
}
