// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/governance"
	"github.com/econia-labs/econia-sub003/stake"
)

// Config is the genesis configuration, usually loaded from YAML.
type Config struct {
	Coin              CoinConfig         `yaml:"coin"`
	EpochIntervalSecs uint64             `yaml:"epochIntervalSecs"`
	ValidatorSet      ValidatorSetConfig `yaml:"validatorSet"`
	Governance        GovernanceConfig   `yaml:"governance"`
	Accounts          []Account          `yaml:"accounts"`
	Validators        []Validator        `yaml:"validators"`
}

type CoinConfig struct {
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Decimals    uint8  `yaml:"decimals"`
	TrackSupply bool   `yaml:"trackSupply"`
}

type ValidatorSetConfig struct {
	MinimumStake                uint64 `yaml:"minimumStake"`
	MaximumStake                uint64 `yaml:"maximumStake"`
	RecurringLockupDurationSecs uint64 `yaml:"recurringLockupDurationSecs"`
	AllowValidatorSetChange     bool   `yaml:"allowValidatorSetChange"`
	RewardsRate                 uint64 `yaml:"rewardsRate"`
	RewardsRateDenominator      uint64 `yaml:"rewardsRateDenominator"`
	// LockupRenewal is "if-expired" (default) or "always".
	LockupRenewal string `yaml:"lockupRenewal"`
}

type GovernanceConfig struct {
	// MinVotingThreshold is a decimal u128.
	MinVotingThreshold    string `yaml:"minVotingThreshold"`
	RequiredProposerStake uint64 `yaml:"requiredProposerStake"`
	VotingPeriodSecs      uint64 `yaml:"votingPeriodSecs"`
}

// Account is an initial ledger balance.
type Account struct {
	Address chain.Address `yaml:"address"`
	Balance uint64        `yaml:"balance"`
}

// Validator is a member of the first active set. Operator and voter default
// to the owner.
type Validator struct {
	Owner             chain.Address  `yaml:"owner"`
	ConsensusPubkey   hexutil.Bytes  `yaml:"consensusPubkey"`
	ProofOfPossession hexutil.Bytes  `yaml:"proofOfPossession"`
	NetworkAddresses  string         `yaml:"networkAddresses"`
	FullnodeAddresses string         `yaml:"fullnodeAddresses"`
	Stake             uint64         `yaml:"stake"`
	Operator          *chain.Address `yaml:"operator,omitempty"`
	Voter             *chain.Address `yaml:"voter,omitempty"`
}

// LoadConfig reads a YAML genesis configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML genesis configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks what the bootstrap entry points do not.
func (c *Config) Validate() error {
	if c.EpochIntervalSecs == 0 {
		return errors.New("epochIntervalSecs must be positive")
	}
	if len(c.Validators) == 0 {
		return errors.New("at least one validator")
	}
	seen := make(map[chain.Address]bool)
	for i, v := range c.Validators {
		if v.Owner.IsZero() {
			return errors.Errorf("validator %d: owner must be set", i)
		}
		if seen[v.Owner] {
			return errors.Errorf("validator %d: duplicated owner %s", i, v.Owner)
		}
		seen[v.Owner] = true
		if v.Stake == 0 {
			return errors.Errorf("validator %s: stake must be positive", v.Owner)
		}
	}
	if _, err := c.lockupRenewal(); err != nil {
		return err
	}
	if _, err := c.minVotingThreshold(); err != nil {
		return err
	}
	return nil
}

func (c *Config) lockupRenewal() (stake.LockupRenewal, error) {
	switch c.ValidatorSet.LockupRenewal {
	case "", "if-expired":
		return stake.RenewIfExpired, nil
	case "always":
		return stake.RenewAlways, nil
	default:
		return 0, errors.Errorf("unknown lockupRenewal %q", c.ValidatorSet.LockupRenewal)
	}
}

func (c *Config) minVotingThreshold() (*uint256.Int, error) {
	if c.Governance.MinVotingThreshold == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(c.Governance.MinVotingThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "minVotingThreshold")
	}
	if v.BitLen() > 128 {
		return nil, errors.New("minVotingThreshold exceeds u128")
	}
	return v, nil
}

// StakeConfig converts to the staking configuration.
func (c *Config) StakeConfig() (stake.ValidatorSetConfiguration, error) {
	renewal, err := c.lockupRenewal()
	if err != nil {
		return stake.ValidatorSetConfiguration{}, err
	}
	v := c.ValidatorSet
	return stake.ValidatorSetConfiguration{
		MinimumStake:                v.MinimumStake,
		MaximumStake:                v.MaximumStake,
		RecurringLockupDurationSecs: v.RecurringLockupDurationSecs,
		AllowValidatorSetChange:     v.AllowValidatorSetChange,
		RewardsRate:                 v.RewardsRate,
		RewardsRateDenominator:      v.RewardsRateDenominator,
		LockupRenewal:               renewal,
	}, nil
}

// GovernanceConfig converts to the governance configuration.
func (c *Config) GovernanceConfig() (governance.Config, error) {
	threshold, err := c.minVotingThreshold()
	if err != nil {
		return governance.Config{}, err
	}
	return governance.Config{
		MinVotingThreshold:    threshold,
		RequiredProposerStake: c.Governance.RequiredProposerStake,
		VotingPeriodSecs:      c.Governance.VotingPeriodSecs,
	}, nil
}
