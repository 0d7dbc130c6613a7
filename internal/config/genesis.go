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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/blinklabs-io/covenant/governance"
	"gopkg.in/yaml.v3"
)

type genesisConsensus struct {
	RoundTimeout  uint64 `yaml:"roundTimeout"`
	StatusTimeout uint64 `yaml:"statusTimeout"`
	PeersTimeout  uint64 `yaml:"peersTimeout"`
	TxsBlockLimit uint32 `yaml:"txsBlockLimit"`
	MaxMessageLen uint32 `yaml:"maxMessageLen"`
}

type genesisFile struct {
	SchemaVersion uint32            `yaml:"schemaVersion"`
	Validators    map[string]string `yaml:"validators"`
	Consensus     genesisConsensus  `yaml:"consensus"`
	ServiceParams map[string]string `yaml:"serviceParams"`
}

// LoadGenesis reads a genesis configuration file. Validator public keys
// and service parameter values are hex-encoded in the file.
func LoadGenesis(path string) (*governance.Configuration, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading genesis file: %w", err)
	}
	var tmpGenesis genesisFile
	if err := yaml.Unmarshal(buf, &tmpGenesis); err != nil {
		return nil, fmt.Errorf("error parsing genesis file: %w", err)
	}
	validators := make(map[string][]byte, len(tmpGenesis.Validators))
	for id, keyHex := range tmpGenesis.Validators {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid public key for validator %s: %w",
				id,
				err,
			)
		}
		validators[id] = key
	}
	serviceParams := make(map[string][]byte, len(tmpGenesis.ServiceParams))
	for name, valueHex := range tmpGenesis.ServiceParams {
		value, err := hex.DecodeString(valueHex)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid value for service param %s: %w",
				name,
				err,
			)
		}
		serviceParams[name] = value
	}
	schemaVersion := tmpGenesis.SchemaVersion
	if schemaVersion == 0 {
		schemaVersion = governance.CurrentSchemaVersion
	}
	return &governance.Configuration{
		SchemaVersion: schemaVersion,
		Validators:    validators,
		Consensus: governance.ConsensusParams{
			RoundTimeout:  tmpGenesis.Consensus.RoundTimeout,
			StatusTimeout: tmpGenesis.Consensus.StatusTimeout,
			PeersTimeout:  tmpGenesis.Consensus.PeersTimeout,
			TxsBlockLimit: tmpGenesis.Consensus.TxsBlockLimit,
			MaxMessageLen: tmpGenesis.Consensus.MaxMessageLen,
		},
		ServiceParams: serviceParams,
	}, nil
}
