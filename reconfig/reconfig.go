// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reconfig keeps the epoch counter and commits new epochs.
package reconfig

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/state"
)

const throw = reverts.Thrower("reconfig")

// abort reasons
const (
	ECONFIGURATION      uint64 = 1
	ECONFIG             uint64 = 2
	EINVALID_BLOCK_TIME uint64 = 4
	ENOT_CORE_RESOURCE  uint64 = 5
	EOVERFLOW           uint64 = 6
)

var (
	logger      = log.WithContext("pkg", "reconfig")
	metricEpoch = metrics.LazyLoadGauge("reconfig_epoch")
)

// Configuration is the epoch bookkeeping.
type Configuration struct {
	Epoch                   uint64
	LastReconfigurationTime uint64
	Events                  events.Handle
}

// NewEpochEvent is emitted for every committed epoch.
type NewEpochEvent struct {
	Epoch uint64 `json:"epoch"`
}

type disableReconfiguration struct{}

var (
	configurations = state.NewResource[Configuration]("reconfig::Configuration")
	disabled       = state.NewResource[disableReconfiguration]("reconfig::DisableReconfiguration")
)

// Clock is the time source of reconfiguration.
type Clock interface {
	IsGenesis() (bool, error)
	NowMicroseconds() (uint64, error)
}

// EpochHandler runs the validator set transition of a new epoch.
type EpochHandler interface {
	OnNewEpoch() error
}

// Reconfig drives epoch changes.
type Reconfig struct {
	state   *state.State
	clock   Clock
	handler EpochHandler
}

// New create a new instance.
func New(st *state.State, clock Clock, handler EpochHandler) *Reconfig {
	return &Reconfig{state: st, clock: clock, handler: handler}
}

func assertCoreResource(account chain.Address) error {
	if account != chain.CoreResourceAddress {
		return throw.PermissionDenied(ENOT_CORE_RESOURCE, "%s is not the core resource account", account.ShortString())
	}
	return nil
}

// Initialize publishes the configuration at epoch zero. Genesis only.
func (r *Reconfig) Initialize(account chain.Address) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	genesis, err := r.clock.IsGenesis()
	if err != nil {
		return err
	}
	if !genesis {
		return throw.InvalidState(ECONFIGURATION, "configuration can only be initialized at genesis")
	}
	exists, err := configurations.Exists(r.state, chain.CoreResourceAddress)
	if err != nil {
		return err
	}
	if exists {
		return throw.AlreadyExists(ECONFIGURATION, "configuration already initialized")
	}
	handle, err := events.NewHandle(r.state, chain.CoreResourceAddress)
	if err != nil {
		return err
	}
	return configurations.Put(r.state, chain.CoreResourceAddress, &Configuration{Events: handle})
}

func (r *Reconfig) configuration() (*Configuration, error) {
	c, exist, err := configurations.Get(r.state, chain.CoreResourceAddress)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, throw.NotFound(ECONFIGURATION, "configuration not initialized")
	}
	return c, nil
}

// ReconfigurationEnabled reports whether epochs can change.
func (r *Reconfig) ReconfigurationEnabled() (bool, error) {
	d, err := disabled.Exists(r.state, chain.CoreResourceAddress)
	return !d, err
}

// DisableReconfiguration stops epoch changes until enabled again.
func (r *Reconfig) DisableReconfiguration(account chain.Address) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	enabled, err := r.ReconfigurationEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return throw.InvalidState(ECONFIG, "reconfiguration already disabled")
	}
	return disabled.Put(r.state, chain.CoreResourceAddress, &disableReconfiguration{})
}

// EnableReconfiguration resumes epoch changes.
func (r *Reconfig) EnableReconfiguration(account chain.Address) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	enabled, err := r.ReconfigurationEnabled()
	if err != nil {
		return err
	}
	if enabled {
		return throw.InvalidState(ECONFIG, "reconfiguration already enabled")
	}
	_, err = disabled.Remove(r.state, chain.CoreResourceAddress)
	return err
}

// Reconfigure commits a new epoch. It does nothing during genesis, before the
// clock moved, while disabled or when an epoch was already committed at the
// current time.
func (r *Reconfig) Reconfigure() error {
	genesis, err := r.clock.IsGenesis()
	if err != nil || genesis {
		return err
	}
	now, err := r.clock.NowMicroseconds()
	if err != nil || now == 0 {
		return err
	}
	enabled, err := r.ReconfigurationEnabled()
	if err != nil || !enabled {
		return err
	}
	cfg, err := r.configuration()
	if err != nil {
		return err
	}
	if now == cfg.LastReconfigurationTime {
		return nil
	}
	if now < cfg.LastReconfigurationTime {
		return throw.InvalidState(EINVALID_BLOCK_TIME, "time %d before last reconfiguration %d", now, cfg.LastReconfigurationTime)
	}

	if err := r.handler.OnNewEpoch(); err != nil {
		return err
	}

	epoch, overflow := math.SafeAdd(cfg.Epoch, 1)
	if overflow {
		return throw.OutOfRange(EOVERFLOW, "epoch overflows")
	}
	cfg.Epoch = epoch
	cfg.LastReconfigurationTime = now
	events.Emit(r.state, &cfg.Events, "NewEpochEvent", &NewEpochEvent{Epoch: epoch})
	if err := configurations.Put(r.state, chain.CoreResourceAddress, cfg); err != nil {
		return err
	}
	metricEpoch().Set(int64(epoch))
	logger.Info("new epoch", "epoch", epoch, "time", now)
	return nil
}

// ForceReconfigure runs Reconfigure on behalf of the core resource account.
func (r *Reconfig) ForceReconfigure(account chain.Address) error {
	if err := assertCoreResource(account); err != nil {
		return err
	}
	return r.Reconfigure()
}

// EmitGenesisReconfigurationEvent announces the first epoch.
func (r *Reconfig) EmitGenesisReconfigurationEvent() error {
	cfg, err := r.configuration()
	if err != nil {
		return err
	}
	if cfg.Epoch != 0 || cfg.LastReconfigurationTime != 0 {
		return throw.InvalidState(ECONFIGURATION, "genesis reconfiguration already emitted")
	}
	cfg.Epoch = 1
	events.Emit(r.state, &cfg.Events, "NewEpochEvent", &NewEpochEvent{Epoch: cfg.Epoch})
	return configurations.Put(r.state, chain.CoreResourceAddress, cfg)
}

// CurrentEpoch returns the epoch number.
func (r *Reconfig) CurrentEpoch() (uint64, error) {
	cfg, err := r.configuration()
	if err != nil {
		return 0, err
	}
	return cfg.Epoch, nil
}

// LastReconfigurationTime returns when the current epoch started, in microseconds.
func (r *Reconfig) LastReconfigurationTime() (uint64, error) {
	cfg, err := r.configuration()
	if err != nil {
		return 0, err
	}
	return cfg.LastReconfigurationTime, nil
}
