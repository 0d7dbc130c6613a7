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
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// CurrentSchemaVersion is the only configuration schema this build accepts
const CurrentSchemaVersion = 1

// HashSize is the length of a configuration content hash in bytes
const HashSize = blake2b.Size256

var (
	canonicalEncMode cbor.EncMode
	strictDecMode    cbor.DecMode
)

func init() {
	var err error
	canonicalEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encode mode: %s", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	strictDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decode mode: %s", err))
	}
}

// ConsensusParams holds the consensus timing parameters carried by a
// configuration. Timeouts are in milliseconds.
type ConsensusParams struct {
	RoundTimeout  uint64 `cbor:"round_timeout"`
	StatusTimeout uint64 `cbor:"status_timeout"`
	PeersTimeout  uint64 `cbor:"peers_timeout"`
	TxsBlockLimit uint32 `cbor:"txs_block_limit"`
	MaxMessageLen uint32 `cbor:"max_message_len"`
}

// Configuration is a network-wide parameter set. It is immutable once
// created; its identity is the BLAKE2b-256 hash of its canonical CBOR
// serialization. Every configuration except genesis links its
// predecessor's hash.
type Configuration struct {
	SchemaVersion      uint32            `cbor:"schema_version"`
	PreviousConfigHash []byte            `cbor:"previous_config_hash"`
	Validators         map[string][]byte `cbor:"validators"`
	Consensus          ConsensusParams   `cbor:"consensus"`
	ServiceParams      map[string][]byte `cbor:"service_params"`
}

// Encode returns the canonical (deterministic) CBOR serialization
func (c *Configuration) Encode() ([]byte, error) {
	data, err := canonicalEncMode.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}

// Hash returns the BLAKE2b-256 content hash of the canonical serialization
func (c *Configuration) Hash() ([]byte, error) {
	data, err := c.Encode()
	if err != nil {
		return nil, err
	}
	tmpHash := blake2b.Sum256(data)
	return tmpHash[:], nil
}

// IsValidator reports whether the given ID is in the validator set
func (c *Configuration) IsValidator(id string) bool {
	_, ok := c.Validators[id]
	return ok
}

// ValidatorCount returns the size of the validator set
func (c *Configuration) ValidatorCount() int {
	return len(c.Validators)
}

// DecodeConfiguration parses a configuration payload. Duplicate CBOR map
// keys and unrecognized schema versions are rejected so that every node
// makes the identical accept decision for identical bytes.
func DecodeConfiguration(data []byte) (*Configuration, error) {
	var config Configuration
	if err := strictDecMode.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}
	if config.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf(
			"%w: %d",
			ErrSchemaVersion,
			config.SchemaVersion,
		)
	}
	return &config, nil
}

// HashEqual compares two content hashes
func HashEqual(a []byte, b []byte) bool {
	return bytes.Equal(a, b)
}
