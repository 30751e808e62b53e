// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/pop"
)

// DevValidator is a validator of the development network.
type DevValidator struct {
	Owner      chain.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevValidators derives n deterministic validator keys. The owner address is
// the hash of the compressed consensus key.
func DevValidators(n int) []DevValidator {
	vals := make([]DevValidator, 0, n)
	for i := 0; i < n; i++ {
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], uint64(i))
		pk, err := crypto.ToECDSA(chain.Blake2b([]byte("epochd-dev-validator"), seed[:]).Bytes())
		if err != nil {
			panic(err)
		}
		vals = append(vals, DevValidator{
			Owner:      chain.Address(chain.Blake2b(crypto.CompressPubkey(&pk.PublicKey))),
			PrivateKey: pk,
		})
	}
	return vals
}

// DevConfig returns the genesis of a development network with n validators
// of equal stake and short epochs.
func DevConfig(n int) *Config {
	cfg := &Config{
		Coin: CoinConfig{
			Name:        "Aptos Coin",
			Symbol:      "APT",
			Decimals:    8,
			TrackSupply: true,
		},
		EpochIntervalSecs: 60,
		ValidatorSet: ValidatorSetConfig{
			MinimumStake:                1_000_000,
			MaximumStake:                1_000_000_000,
			RecurringLockupDurationSecs: 3600,
			AllowValidatorSetChange:     true,
			RewardsRate:                 1,
			RewardsRateDenominator:      1000,
		},
		Governance: GovernanceConfig{
			MinVotingThreshold:    "1000000",
			RequiredProposerStake: 1_000_000,
			VotingPeriodSecs:      600,
		},
	}
	for i, v := range DevValidators(n) {
		pubkey, proof, err := pop.Prove(v.PrivateKey)
		if err != nil {
			panic(err)
		}
		cfg.Validators = append(cfg.Validators, Validator{
			Owner:             v.Owner,
			ConsensusPubkey:   pubkey,
			ProofOfPossession: proof,
			NetworkAddresses:  fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", 6180+i),
			FullnodeAddresses: fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", 6190+i),
			Stake:             10_000_000,
		})
		cfg.Accounts = append(cfg.Accounts, Account{Address: v.Owner, Balance: 1_000_000})
	}
	return cfg
}
