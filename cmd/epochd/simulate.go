// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/runtime"
	"github.com/econia-labs/econia-sub003/state"
)

// simulation drives blocks over an in-memory ledger.
type simulation struct {
	rt     *runtime.Runtime
	sink   *events.MemSink
	driver *driver
	epochs uint64
}

func newSimulation(cfgCtx *cli.Context) (*simulation, func(), error) {
	cfg, err := loadGenesisConfig(cfgCtx)
	if err != nil {
		return nil, nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	sink := &events.MemSink{}
	rt := runtime.New(state.New(db), sink, pop.Secp256k1Verifier{})
	if _, err := rt.Genesis(cfg); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "build genesis")
	}
	d := newDriver(rt,
		simulatedClock(cfgCtx.Duration(simulatedIntervalFlag.Name)),
		cfgCtx.Float64(missRateFlag.Name),
		cfgCtx.Int64(seedFlag.Name))
	return &simulation{rt: rt, sink: sink, driver: d}, func() { db.Close() }, nil
}

func (s *simulation) run(blocks uint64, progress func()) error {
	for i := uint64(0); i < blocks; i++ {
		newEpoch, err := s.driver.step()
		if err != nil {
			return err
		}
		if newEpoch {
			s.epochs++
		}
		if progress != nil {
			progress()
		}
	}
	return nil
}

func (s *simulation) printSummary() error {
	return s.rt.View(func(rd *runtime.Reader) error {
		info, err := rd.Epoch()
		if err != nil {
			return err
		}
		set, err := rd.ValidatorSet()
		if err != nil {
			return err
		}
		supply, _, err := rd.Supply()
		if err != nil {
			return err
		}
		fmt.Printf("height %d, epoch %d (%d reconfigurations), supply %s\n",
			info.Height, info.Epoch, s.epochs, supply.Dec())
		fmt.Printf("events: %d block, %d rewards\n",
			len(s.sink.OfType("NewBlockEvent")), len(s.sink.OfType("DistributeRewardsEvent")))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tPOOL\tVOTING POWER\tACTIVE\tLOCKED UNTIL")
		for _, v := range set.ActiveValidators {
			pool, _, err := rd.Pool(v.Addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n",
				v.Config.ValidatorIndex, v.Addr.ShortString(), v.VotingPower, pool.Stake.Active, pool.LockedUntilSecs)
		}
		return w.Flush()
	})
}

func simulateAction(ctx *cli.Context) error {
	initLogger(ctx)

	sim, closeSim, err := newSimulation(ctx)
	if err != nil {
		return err
	}
	defer closeSim()

	blocks := ctx.Uint64(blocksFlag.Name)
	bar := pb.New64(int64(blocks)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	if err := sim.run(blocks, func() { bar.Add64(1) }); err != nil {
		return err
	}
	bar.Finish()
	return sim.printSummary()
}
