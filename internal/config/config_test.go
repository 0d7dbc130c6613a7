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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/covenant/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "covenant.yaml")
	configContent := `
databasePath: /data/covenant
apiPort: 8080
genesisFile: /etc/covenant/genesis.yaml
`
	require.NoError(
		t,
		os.WriteFile(configPath, []byte(configContent), 0o600),
	)
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/data/covenant", cfg.DatabasePath)
	assert.EqualValues(t, 8080, cfg.ApiPort)
	assert.Equal(t, "/etc/covenant/genesis.yaml", cfg.GenesisFile)
	// Untouched values keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.EqualValues(t, 12798, cfg.MetricsPort)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("COVENANT_METRICS_PORT", "9999")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.EqualValues(t, 9999, cfg.MetricsPort)
}

func TestLoadGenesis(t *testing.T) {
	genesisPath := filepath.Join(t.TempDir(), "genesis.yaml")
	genesisContent := `
schemaVersion: 1
validators:
  validator-a: "0102030405060708010203040506070801020304050607080102030405060708"
  validator-b: "1112131415161718111213141516171811121314151617181112131415161718"
consensus:
  roundTimeout: 3000
  statusTimeout: 5000
  peersTimeout: 10000
  txsBlockLimit: 1000
  maxMessageLen: 1048576
serviceParams:
  anchoring.fee: "0102"
`
	require.NoError(
		t,
		os.WriteFile(genesisPath, []byte(genesisContent), 0o600),
	)
	genesis, err := LoadGenesis(genesisPath)
	require.NoError(t, err)
	assert.EqualValues(t, governance.CurrentSchemaVersion, genesis.SchemaVersion)
	assert.Equal(t, 2, genesis.ValidatorCount())
	assert.Len(t, genesis.Validators["validator-a"], 32)
	assert.EqualValues(t, 3000, genesis.Consensus.RoundTimeout)
	assert.Equal(t, []byte{0x01, 0x02}, genesis.ServiceParams["anchoring.fee"])
	assert.Empty(t, genesis.PreviousConfigHash)
}

func TestLoadGenesisBadKey(t *testing.T) {
	genesisPath := filepath.Join(t.TempDir(), "genesis.yaml")
	genesisContent := `
validators:
  validator-a: "nothex"
`
	require.NoError(
		t,
		os.WriteFile(genesisPath, []byte(genesisContent), 0o600),
	)
	_, err := LoadGenesis(genesisPath)
	assert.Error(t, err)
}
