// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timestamp keeps the on-ledger wall clock. The clock is absent
// during genesis and advanced by the block prologue afterwards.
package timestamp

import (
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/state"
)

const throw = reverts.Thrower("timestamp")

// abort reasons
const (
	ENOT_OPERATING     uint64 = 1
	ETIMESTAMP         uint64 = 2
	ENOT_GENESIS       uint64 = 3
	ENOT_CORE_RESOURCE uint64 = 4
	EVM_ADDRESS        uint64 = 5
)

// CurrentTimeMicroseconds is the ledger clock.
type CurrentTimeMicroseconds struct {
	Microseconds uint64
}

var clocks = state.NewResource[CurrentTimeMicroseconds]("timestamp::CurrentTimeMicroseconds")

// Clock reads the current ledger time.
type Clock interface {
	NowSeconds() (uint64, error)
	NowMicroseconds() (uint64, error)
}

// Oracle is the Clock backed by ledger state.
type Oracle struct {
	state *state.State
}

var _ Clock = (*Oracle)(nil)

// New creates an oracle over st.
func New(st *state.State) *Oracle {
	return &Oracle{state: st}
}

// IsGenesis reports whether the clock has not started yet.
func (o *Oracle) IsGenesis() (bool, error) {
	exists, err := clocks.Exists(o.state, chain.FrameworkAddress)
	return !exists, err
}

// IsOperating reports whether the clock has started.
func (o *Oracle) IsOperating() (bool, error) {
	return clocks.Exists(o.state, chain.FrameworkAddress)
}

// SetTimeHasStarted marks the end of genesis. The clock starts at zero.
func (o *Oracle) SetTimeHasStarted(account chain.Address) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	genesis, err := o.IsGenesis()
	if err != nil {
		return err
	}
	if !genesis {
		return throw.InvalidState(ENOT_GENESIS, "time has already started")
	}
	return clocks.Put(o.state, chain.FrameworkAddress, &CurrentTimeMicroseconds{})
}

// UpdateGlobalTime advances the clock. A block proposed by the VM itself
// (nil block) must keep the time unchanged, any other block must move it forward.
func (o *Oracle) UpdateGlobalTime(account, proposer chain.Address, micros uint64) error {
	if account != chain.VMAddress {
		return throw.PermissionDenied(EVM_ADDRESS, "%s is not the vm", account.ShortString())
	}
	clock, err := o.current()
	if err != nil {
		return err
	}
	if proposer == chain.VMAddress {
		if clock.Microseconds != micros {
			return throw.InvalidArgument(ETIMESTAMP, "nil block must keep time %d, got %d", clock.Microseconds, micros)
		}
	} else if clock.Microseconds >= micros {
		return throw.InvalidArgument(ETIMESTAMP, "time must advance past %d, got %d", clock.Microseconds, micros)
	}
	clock.Microseconds = micros
	return clocks.Put(o.state, chain.FrameworkAddress, clock)
}

func (o *Oracle) current() (*CurrentTimeMicroseconds, error) {
	clock, exist, err := clocks.Get(o.state, chain.FrameworkAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.InvalidState(ENOT_OPERATING, "time has not started")
	}
	return clock, nil
}

// NowMicroseconds returns the ledger time in microseconds.
func (o *Oracle) NowMicroseconds() (uint64, error) {
	clock, err := o.current()
	if err != nil {
		return 0, err
	}
	return clock.Microseconds, nil
}

// NowSeconds returns the ledger time in seconds.
func (o *Oracle) NowSeconds() (uint64, error) {
	micros, err := o.NowMicroseconds()
	if err != nil {
		return 0, err
	}
	return micros / chain.MicroConversionFactor, nil
}
