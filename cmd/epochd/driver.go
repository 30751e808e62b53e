// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/block"
	"github.com/econia-labs/econia-sub003/runtime"
)

// driver proposes blocks on behalf of the active validators, rotating the
// proposer each round.
type driver struct {
	rt       *runtime.Runtime
	now      func() uint64 // microseconds
	missRate float64
	rng      *rand.Rand
	round    uint64
}

func newDriver(rt *runtime.Runtime, now func() uint64, missRate float64, seed int64) *driver {
	return &driver{
		rt:       rt,
		now:      now,
		missRate: missRate,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// wallClock returns the wall time in microseconds.
func wallClock() uint64 {
	return uint64(time.Now().UnixMicro())
}

// simulatedClock advances by step on every call.
func simulatedClock(step time.Duration) func() uint64 {
	var t uint64
	return func() uint64 {
		t += uint64(step.Microseconds())
		return t
	}
}

// next assembles the metadata of the next block.
func (d *driver) next() (block.Metadata, error) {
	var meta block.Metadata
	err := d.rt.View(func(rd *runtime.Reader) error {
		info, err := rd.Epoch()
		if err != nil {
			return err
		}
		set, err := rd.ValidatorSet()
		if err != nil {
			return err
		}
		active := set.ActiveValidators
		if len(active) == 0 {
			return errors.New("empty active validator set")
		}

		ts := d.now()
		if ts <= info.NowMicroseconds {
			ts = info.NowMicroseconds + 1
		}
		proposer := active[d.round%uint64(len(active))]
		meta = block.Metadata{
			Epoch:              info.Epoch,
			Round:              d.round,
			Proposer:           proposer.Addr,
			TimestampMicros:    ts,
			PreviousBlockVotes: make([]bool, len(active)),
		}
		for i, v := range active {
			if v.Addr != proposer.Addr && d.rng.Float64() < d.missRate {
				meta.MissedVotes = append(meta.MissedVotes, v.Config.ValidatorIndex)
				continue
			}
			meta.PreviousBlockVotes[i] = true
		}
		return nil
	})
	return meta, err
}

// step drives one block and reports whether it started a new epoch.
func (d *driver) step() (bool, error) {
	meta, err := d.next()
	if err != nil {
		return false, err
	}
	if err := d.rt.Prologue(meta); err != nil {
		return false, errors.Wrapf(err, "block prologue round %d", d.round)
	}
	d.round++

	var epoch uint64
	if err := d.rt.View(func(rd *runtime.Reader) error {
		info, err := rd.Epoch()
		if err != nil {
			return err
		}
		epoch = info.Epoch
		return nil
	}); err != nil {
		return false, err
	}
	return epoch != meta.Epoch, nil
}

// run drives a block every interval until ctx is done.
func (d *driver) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			newEpoch, err := d.step()
			if err != nil {
				return err
			}
			if newEpoch {
				logger.Info("entered new epoch", "round", d.round)
			}
		}
	}
}
