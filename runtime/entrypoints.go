// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/econia-labs/econia-sub003/block"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/governance"
)

// Staking.

func (r *Runtime) RegisterValidatorCandidate(owner chain.Address, pubkey, proof, networkAddrs, fullnodeAddrs []byte) error {
	return r.exec("register_validator_candidate", func() error {
		return r.staker.RegisterValidatorCandidate(owner, pubkey, proof, networkAddrs, fullnodeAddrs)
	})
}

func (r *Runtime) AddStake(owner chain.Address, amount uint64) error {
	return r.exec("add_stake", func() error {
		return r.staker.AddStake(owner, amount)
	})
}

func (r *Runtime) Unlock(owner chain.Address, amount uint64) error {
	return r.exec("unlock", func() error {
		return r.staker.Unlock(owner, amount)
	})
}

func (r *Runtime) Withdraw(owner chain.Address, amount uint64) error {
	return r.exec("withdraw", func() error {
		return r.staker.Withdraw(owner, amount)
	})
}

func (r *Runtime) IncreaseLockup(owner chain.Address) error {
	return r.exec("increase_lockup", func() error {
		return r.staker.IncreaseLockup(owner)
	})
}

func (r *Runtime) SetOperator(owner, operator chain.Address) error {
	return r.exec("set_operator", func() error {
		return r.staker.SetOperator(owner, operator)
	})
}

func (r *Runtime) SetDelegatedVoter(owner, voter chain.Address) error {
	return r.exec("set_delegated_voter", func() error {
		return r.staker.SetDelegatedVoter(owner, voter)
	})
}

// TransferOwnerCap moves the owner capability held by from to to.
func (r *Runtime) TransferOwnerCap(from, to chain.Address) error {
	return r.exec("transfer_owner_cap", func() error {
		capability, err := r.staker.ExtractOwnerCap(from)
		if err != nil {
			return err
		}
		return r.staker.DepositOwnerCap(to, capability)
	})
}

func (r *Runtime) RotateConsensusKey(operator, pool chain.Address, pubkey, proof []byte) error {
	return r.exec("rotate_consensus_key", func() error {
		return r.staker.RotateConsensusKey(operator, pool, pubkey, proof)
	})
}

func (r *Runtime) UpdateNetworkAndFullnodeAddresses(operator, pool chain.Address, networkAddrs, fullnodeAddrs []byte) error {
	return r.exec("update_network_and_fullnode_addresses", func() error {
		return r.staker.UpdateNetworkAndFullnodeAddresses(operator, pool, networkAddrs, fullnodeAddrs)
	})
}

func (r *Runtime) JoinValidatorSet(operator, pool chain.Address) error {
	return r.exec("join_validator_set", func() error {
		return r.staker.JoinValidatorSet(operator, pool)
	})
}

func (r *Runtime) LeaveValidatorSet(operator, pool chain.Address) error {
	return r.exec("leave_validator_set", func() error {
		return r.staker.LeaveValidatorSet(operator, pool)
	})
}

func (r *Runtime) UpdateRequiredStake(account chain.Address, minimum, maximum uint64) error {
	return r.exec("update_required_stake", func() error {
		return r.staker.UpdateRequiredStake(account, minimum, maximum)
	})
}

func (r *Runtime) UpdateRecurringLockupDuration(account chain.Address, secs uint64) error {
	return r.exec("update_recurring_lockup_duration", func() error {
		return r.staker.UpdateRecurringLockupDuration(account, secs)
	})
}

func (r *Runtime) UpdateRewardsRate(account chain.Address, rate, denominator uint64) error {
	return r.exec("update_rewards_rate", func() error {
		return r.staker.UpdateRewardsRate(account, rate, denominator)
	})
}

func (r *Runtime) SetAllowValidatorSetChange(account chain.Address, allow bool) error {
	return r.exec("set_allow_validator_set_change", func() error {
		return r.staker.SetAllowValidatorSetChange(account, allow)
	})
}

// Governance.

func (r *Runtime) CreateProposal(proposer, pool chain.Address, executionHash, metadataLocation, metadataHash []byte) (uint64, error) {
	var id uint64
	err := r.exec("create_proposal", func() (err error) {
		id, err = r.gov.CreateProposal(proposer, pool, executionHash, metadataLocation, metadataHash)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Runtime) Vote(voter, pool chain.Address, id uint64, shouldPass bool) error {
	return r.exec("vote", func() error {
		return r.gov.Vote(voter, pool, id, shouldPass)
	})
}

// Resolve releases the content of a succeeded proposal to the script whose
// hash is scriptHash.
func (r *Runtime) Resolve(id uint64, scriptHash []byte) (governance.GovernanceProposal, error) {
	var content governance.GovernanceProposal
	err := r.exec("resolve", func() (err error) {
		content, err = r.gov.Resolve(id, governance.ScriptHash(scriptHash))
		return err
	})
	if err != nil {
		return governance.GovernanceProposal{}, err
	}
	return content, nil
}

func (r *Runtime) UpdateGovernanceConfig(account chain.Address, cfg governance.Config) error {
	return r.exec("update_governance_config", func() error {
		return r.gov.UpdateGovernanceConfig(account, cfg)
	})
}

// Reconfiguration.

func (r *Runtime) ForceReconfigure(account chain.Address) error {
	return r.exec("force_reconfigure", func() error {
		return r.reconfig.ForceReconfigure(account)
	})
}

func (r *Runtime) DisableReconfiguration(account chain.Address) error {
	return r.exec("disable_reconfiguration", func() error {
		return r.reconfig.DisableReconfiguration(account)
	})
}

func (r *Runtime) EnableReconfiguration(account chain.Address) error {
	return r.exec("enable_reconfiguration", func() error {
		return r.reconfig.EnableReconfiguration(account)
	})
}

// Blocks.

// Prologue runs the block prologue on behalf of the VM.
func (r *Runtime) Prologue(meta block.Metadata) error {
	return r.exec("block_prologue", func() error {
		return r.block.Prologue(chain.VMAddress, meta)
	})
}

func (r *Runtime) UpdateEpochInterval(account chain.Address, intervalMicros uint64) error {
	return r.exec("update_epoch_interval", func() error {
		return r.block.UpdateEpochInterval(account, intervalMicros)
	})
}

// Coins.

func (r *Runtime) RegisterCoinStore(addr chain.Address) error {
	return r.exec("register_coin_store", func() error {
		return r.coins.Register(addr)
	})
}

func (r *Runtime) Transfer(from, to chain.Address, amount uint64) error {
	return r.exec("transfer", func() error {
		return r.coins.Transfer(from, to, amount)
	})
}
