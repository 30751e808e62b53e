// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis bootstraps the ledger: framework resources, initial
// balances and the first validator set.
package genesis

import (
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/block"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/governance"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/reconfig"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/timestamp"
)

var logger = log.WithContext("pkg", "genesis")

// Genesis describes a built genesis.
type Genesis struct {
	ID         chain.Bytes32
	Validators int
}

// Build applies cfg to an empty state. The changes are left staged in st for
// the caller to commit.
func Build(st *state.State, verifier pop.Verifier, cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stakeCfg, err := cfg.StakeConfig()
	if err != nil {
		return nil, err
	}
	govCfg, err := cfg.GovernanceConfig()
	if err != nil {
		return nil, err
	}

	var (
		coins    = coin.New(st)
		clock    = timestamp.New(st)
		staker   = stake.New(st, coins, clock, verifier)
		rc       = reconfig.New(st, clock, staker)
		blk      = block.New(st, clock, staker, rc)
		gov      = governance.New(st, clock, staker, coins)
		core     = chain.CoreResourceAddress
		interval = cfg.EpochIntervalSecs * chain.MicroConversionFactor
	)
	if interval/chain.MicroConversionFactor != cfg.EpochIntervalSecs {
		return nil, errors.New("epochIntervalSecs overflows")
	}

	mintCap, _, err := coins.Initialize(core, cfg.Coin.Name, cfg.Coin.Symbol, cfg.Coin.Decimals, cfg.Coin.TrackSupply)
	if err != nil {
		return nil, errors.Wrap(err, "initialize coin")
	}
	if err := staker.InitializeValidatorSet(core, stakeCfg); err != nil {
		return nil, errors.Wrap(err, "initialize validator set")
	}
	if err := staker.StoreMintCapability(core, mintCap); err != nil {
		return nil, errors.Wrap(err, "store mint capability")
	}
	if err := gov.Initialize(core, govCfg); err != nil {
		return nil, errors.Wrap(err, "initialize governance")
	}
	if err := rc.Initialize(core); err != nil {
		return nil, errors.Wrap(err, "initialize reconfiguration")
	}
	if err := blk.Initialize(core, interval); err != nil {
		return nil, errors.Wrap(err, "initialize block")
	}

	mint := func(to chain.Address, amount uint64) error {
		registered, err := coins.IsRegistered(to)
		if err != nil {
			return err
		}
		if !registered {
			if err := coins.Register(to); err != nil {
				return err
			}
		}
		m, err := coins.BorrowMintCapability(core)
		if err != nil {
			return err
		}
		c, err := coins.Mint(amount, m)
		if err != nil {
			return err
		}
		return coins.Deposit(to, &c)
	}

	for _, acc := range cfg.Accounts {
		if err := mint(acc.Address, acc.Balance); err != nil {
			return nil, errors.Wrapf(err, "account %s", acc.Address)
		}
	}

	for _, v := range cfg.Validators {
		if err := createValidator(staker, mint, &v); err != nil {
			return nil, errors.Wrapf(err, "validator %s", v.Owner)
		}
	}

	if err := staker.OnNewEpoch(); err != nil {
		return nil, errors.Wrap(err, "seed validator set")
	}
	if err := clock.SetTimeHasStarted(core); err != nil {
		return nil, err
	}
	if err := rc.EmitGenesisReconfigurationEvent(); err != nil {
		return nil, err
	}

	id := st.Stage().Hash()
	logger.Info("genesis built", "id", id, "validators", len(cfg.Validators))
	return &Genesis{ID: id, Validators: len(cfg.Validators)}, nil
}

func createValidator(staker *stake.Stake, mint func(chain.Address, uint64) error, v *Validator) error {
	if err := mint(v.Owner, v.Stake); err != nil {
		return err
	}
	if err := staker.RegisterValidatorCandidate(
		v.Owner,
		v.ConsensusPubkey,
		v.ProofOfPossession,
		[]byte(v.NetworkAddresses),
		[]byte(v.FullnodeAddresses),
	); err != nil {
		return err
	}
	if err := staker.AddStake(v.Owner, v.Stake); err != nil {
		return err
	}
	operator := v.Owner
	if v.Operator != nil && *v.Operator != v.Owner {
		operator = *v.Operator
		if err := staker.SetOperator(v.Owner, operator); err != nil {
			return err
		}
	}
	if v.Voter != nil && *v.Voter != v.Owner {
		if err := staker.SetDelegatedVoter(v.Owner, *v.Voter); err != nil {
			return err
		}
	}
	if err := staker.IncreaseLockup(v.Owner); err != nil {
		return err
	}
	return staker.JoinValidatorSet(operator, v.Owner)
}
