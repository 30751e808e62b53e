// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/state"
)

// OwnerCapability grants owner authority over one stake pool. It is only
// obtained from ExtractOwnerCap and is consumed by DepositOwnerCap. Copies
// of a token become useless once the original is deposited or extracted again.
type OwnerCapability struct {
	pool       chain.Address
	generation uint64
	live       bool
}

// PoolAddress returns the pool the capability controls.
func (c *OwnerCapability) PoolAddress() chain.Address {
	return c.pool
}

// ownerCapHolding is kept at the holder address.
type ownerCapHolding struct {
	PoolAddress chain.Address
}

// ownerCapCustody is kept at the pool address and tracks where the single
// capability of the pool lives.
type ownerCapCustody struct {
	Holder     chain.Address
	InCustody  bool
	Generation uint64
}

var (
	capHoldings  = state.NewResource[ownerCapHolding]("stake::OwnerCapability")
	capCustodies = state.NewResource[ownerCapCustody]("stake::OwnerCapabilityCustody")
)

func (s *Stake) custody(pool chain.Address) (*ownerCapCustody, error) {
	c, exist, err := capCustodies.Get(s.state, pool)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ESTAKE_POOL_NOT_FOUND, "no stake pool at %s", pool.ShortString())
	}
	return c, nil
}

// issueOwnerCap creates the capability of a new pool in the custody of holder.
func (s *Stake) issueOwnerCap(holder, pool chain.Address) error {
	exists, err := capHoldings.Exists(s.state, holder)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EOWNER_CAP_ALREADY_EXISTS, "%s already holds an owner capability", holder.ShortString())
	}
	if err := capHoldings.Put(s.state, holder, &ownerCapHolding{PoolAddress: pool}); err != nil {
		return err
	}
	return capCustodies.Put(s.state, pool, &ownerCapCustody{Holder: holder, InCustody: true})
}

// ownedPool resolves the pool controlled by the capability held at holder.
func (s *Stake) ownedPool(holder chain.Address) (chain.Address, error) {
	h, exist, err := capHoldings.Get(s.state, holder)
	if err != nil {
		return chain.Address{}, err
	}
	if !exist {
		return chain.Address{}, throw.NotFound(EOWNER_CAP_NOT_FOUND, "%s holds no owner capability", holder.ShortString())
	}
	return h.PoolAddress, nil
}

// checkCap verifies that capability is the live token of pool.
func (s *Stake) checkCap(capability *OwnerCapability, pool chain.Address) error {
	if capability == nil || !capability.live {
		return throw.PermissionDenied(ENOT_OWNER, "invalid owner capability")
	}
	if capability.pool != pool {
		return throw.PermissionDenied(ENOT_OWNER, "capability of %s presented for %s", capability.pool.ShortString(), pool.ShortString())
	}
	c, err := s.custody(pool)
	if err != nil {
		return err
	}
	if c.InCustody || c.Generation != capability.generation {
		return throw.PermissionDenied(ENOT_OWNER, "stale owner capability of %s", pool.ShortString())
	}
	return nil
}

// ExtractOwnerCap takes the capability out of holder's custody.
func (s *Stake) ExtractOwnerCap(holder chain.Address) (*OwnerCapability, error) {
	pool, err := s.ownedPool(holder)
	if err != nil {
		return nil, err
	}
	c, err := s.custody(pool)
	if err != nil {
		return nil, err
	}
	if _, err := capHoldings.Remove(s.state, holder); err != nil {
		return nil, err
	}
	c.InCustody = false
	c.Generation++
	if err := capCustodies.Put(s.state, pool, c); err != nil {
		return nil, err
	}
	logger.Debug("owner capability extracted", "pool", pool, "holder", holder)
	return &OwnerCapability{pool: pool, generation: c.Generation, live: true}, nil
}

// DepositOwnerCap places the capability in the custody of holder and consumes it.
func (s *Stake) DepositOwnerCap(holder chain.Address, capability *OwnerCapability) error {
	if capability == nil {
		return throw.PermissionDenied(ENOT_OWNER, "invalid owner capability")
	}
	if err := s.checkCap(capability, capability.pool); err != nil {
		return err
	}
	exists, err := capHoldings.Exists(s.state, holder)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(EOWNER_CAP_ALREADY_EXISTS, "%s already holds an owner capability", holder.ShortString())
	}
	if err := capHoldings.Put(s.state, holder, &ownerCapHolding{PoolAddress: capability.pool}); err != nil {
		return err
	}
	if err := capCustodies.Put(s.state, capability.pool, &ownerCapCustody{
		Holder:     holder,
		InCustody:  true,
		Generation: capability.generation,
	}); err != nil {
		return err
	}
	logger.Debug("owner capability deposited", "pool", capability.pool, "holder", holder)
	*capability = OwnerCapability{}
	return nil
}

// OwnerCapHolder returns who keeps the capability of pool, false while it is extracted.
func (s *Stake) OwnerCapHolder(pool chain.Address) (chain.Address, bool, error) {
	c, err := s.custody(pool)
	if err != nil {
		return chain.Address{}, false, err
	}
	return c.Holder, c.InCustody, nil
}
