// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime is the transactional surface of the engine. Every entry
// point runs to completion under one lock and either commits all of its
// changes or none of them.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/block"
	"github.com/econia-labs/econia-sub003/coin"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/genesis"
	"github.com/econia-labs/econia-sub003/governance"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/reconfig"
	"github.com/econia-labs/econia-sub003/reverts"
	"github.com/econia-labs/econia-sub003/stake"
	"github.com/econia-labs/econia-sub003/state"
	"github.com/econia-labs/econia-sub003/timestamp"
)

var logger = log.WithContext("pkg", "runtime")

// Runtime owns the ledger state and the modules operating on it.
type Runtime struct {
	mu sync.RWMutex

	state    *state.State
	verifier pop.Verifier
	coins    *coin.Ledger
	clock    *timestamp.Oracle
	staker   *stake.Stake
	reconfig *reconfig.Reconfig
	block    *block.Block
	gov      *governance.Governance
	sink     events.Sink
}

// New create a runtime over st. Events of committed entry points are written
// to sink, which may be nil.
func New(st *state.State, sink events.Sink, verifier pop.Verifier) *Runtime {
	coins := coin.New(st)
	clock := timestamp.New(st)
	staker := stake.New(st, coins, clock, verifier)
	rc := reconfig.New(st, clock, staker)
	return &Runtime{
		state:    st,
		verifier: verifier,
		coins:    coins,
		clock:    clock,
		staker:   staker,
		reconfig: rc,
		block:    block.New(st, clock, staker, rc),
		gov:      governance.New(st, clock, staker, coins),
		sink:     sink,
	}
}

// exec runs fn as one entry point.
func (r *Runtime) exec(name string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	rev := r.state.NewCheckpoint()
	err := fn()
	if err == nil {
		if err = r.state.Stage().Commit(); err != nil {
			err = errors.Wrap(err, "commit")
		}
	}
	if err != nil {
		r.state.RevertTo(rev)
		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
		metricEntryPoints().AddWithLabel(1, map[string]string{"name": name, "result": result})
		logger.Debug("entry point aborted", "name", name, "err", err)
		return err
	}

	evs := r.state.TakeEvents()
	if r.sink != nil && len(evs) > 0 {
		if serr := r.sink.Write(context.Background(), evs); serr != nil {
			logger.Warn("failed to write events", "name", name, "count", len(evs), "err", serr)
		}
	}
	metricEntryPoints().AddWithLabel(1, map[string]string{"name": name, "result": "ok"})
	metricEntryDuration().Observe(time.Since(start).Milliseconds())
	return nil
}

// Genesis bootstraps an empty ledger.
func (r *Runtime) Genesis(cfg *genesis.Config) (*genesis.Genesis, error) {
	var gen *genesis.Genesis
	err := r.exec("genesis", func() (err error) {
		gen, err = genesis.Build(r.state, r.verifier, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// Initialized reports whether the ledger was bootstrapped.
func (r *Runtime) Initialized() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clock.IsOperating()
}

// View gives read access to the ledger. fn must not retain the reader.
func (r *Runtime) View(fn func(*Reader) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(&Reader{r})
}
