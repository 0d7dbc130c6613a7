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

package governance_test

import (
	"testing"

	"github.com/blinklabs-io/covenant/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *governance.Configuration {
	return &governance.Configuration{
		SchemaVersion: governance.CurrentSchemaVersion,
		Validators: map[string][]byte{
			"validator-a": []byte("pubkey-a"),
			"validator-b": []byte("pubkey-b"),
			"validator-c": []byte("pubkey-c"),
		},
		Consensus: governance.ConsensusParams{
			RoundTimeout:  3000,
			StatusTimeout: 5000,
			PeersTimeout:  10000,
			TxsBlockLimit: 1000,
			MaxMessageLen: 1048576,
		},
		ServiceParams: map[string][]byte{
			"anchoring.fee": {0x01, 0x02},
		},
	}
}

func TestConfigurationHashDeterministic(t *testing.T) {
	cfg1 := testConfig()
	// Same content, maps built in a different insertion order
	cfg2 := &governance.Configuration{
		SchemaVersion: governance.CurrentSchemaVersion,
		Validators:    map[string][]byte{},
		Consensus:     cfg1.Consensus,
		ServiceParams: map[string][]byte{
			"anchoring.fee": {0x01, 0x02},
		},
	}
	for _, id := range []string{"validator-c", "validator-b", "validator-a"} {
		cfg2.Validators[id] = []byte("pubkey-" + id[len(id)-1:])
	}
	data1, err := cfg1.Encode()
	require.NoError(t, err)
	data2, err := cfg2.Encode()
	require.NoError(t, err)
	assert.Equal(t, data1, data2)
	hash1, err := cfg1.Hash()
	require.NoError(t, err)
	hash2, err := cfg2.Hash()
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
	assert.Len(t, hash1, governance.HashSize)
}

func TestConfigurationHashContentSensitive(t *testing.T) {
	cfg1 := testConfig()
	cfg2 := testConfig()
	cfg2.Consensus.RoundTimeout = 4000
	hash1, err := cfg1.Hash()
	require.NoError(t, err)
	hash2, err := cfg2.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash2)
}

func TestDecodeConfigurationRoundTrip(t *testing.T) {
	cfg := testConfig()
	data, err := cfg.Encode()
	require.NoError(t, err)
	decoded, err := governance.DecodeConfiguration(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestDecodeConfigurationMalformed(t *testing.T) {
	_, err := governance.DecodeConfiguration([]byte{0xff, 0x00, 0x12})
	require.Error(t, err)
	assert.ErrorIs(t, err, governance.ErrMalformedConfig)
	assert.True(t, governance.IsValidationError(err))
}

func TestDecodeConfigurationSchemaVersion(t *testing.T) {
	cfg := testConfig()
	cfg.SchemaVersion = 99
	data, err := cfg.Encode()
	require.NoError(t, err)
	_, err = governance.DecodeConfiguration(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, governance.ErrSchemaVersion)
}

func TestDecodeConfigurationDuplicateMapKey(t *testing.T) {
	// Map with the key "a" twice: {"a": 1, "a": 2}
	raw := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x61, 0x02}
	_, err := governance.DecodeConfiguration(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, governance.ErrMalformedConfig)
}
