// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/econia-labs/econia-sub003/api"
	"github.com/econia-labs/econia-sub003/api/node"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "epochd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "epochd",
		Usage:   "Validator lifecycle, epoch reconfiguration and governance node",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			devValidatorsFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			blockIntervalFlag,
			missRateFlag,
			seedFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			ntpServerFlag,
			cacheFlag,
		},
		Action: runAction,
		Commands: []cli.Command{
			{
				Name:  "init",
				Usage: "build the genesis ledger into the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					devValidatorsFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: initAction,
			},
			{
				Name:  "simulate",
				Usage: "drive blocks over an in-memory ledger and print a summary",
				Flags: []cli.Flag{
					genesisFlag,
					devValidatorsFlag,
					blocksFlag,
					simulatedIntervalFlag,
					missRateFlag,
					seedFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: simulateAction,
			},
			{
				Name:  "dump",
				Usage: "print the validator set and staking state of the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					cacheFlag,
					verbosityFlag,
				},
				Action: dumpAction,
			},
			{
				Name:   "genkey",
				Usage:  "generate a consensus key and its proof of possession",
				Flags:  []cli.Flag{outFlag},
				Action: genkeyAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	built, err := n.bootstrap(ctx)
	if err != nil {
		return err
	}
	if !built {
		return errors.New("data dir already holds a ledger")
	}
	return nil
}

func runAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	reportSystem()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer closeMetrics()
		logger.Info("metrics server started", "url", url)
	}

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	if _, err := n.bootstrap(ctx); err != nil {
		return err
	}

	interval := ctx.Duration(blockIntervalFlag.Name)
	if interval <= 0 {
		return fmt.Errorf("invalid --%s %v", blockIntervalFlag.Name, interval)
	}
	checkClockOffset(ctx.String(ntpServerFlag.Name), interval)

	handler, closeSubs := api.New(n.rt, n.logDB, n.feed, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		Info:            node.Info{Version: fullVersion()},
	})
	defer closeSubs()

	listener, err := listen(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	logger.Info("API server started", "url", "http://"+listener.Addr().String()+"/")

	group, groupCtx := errgroup.WithContext(handleExitSignal())
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		d := newDriver(n.rt, wallClock, ctx.Float64(missRateFlag.Name), ctx.Int64(seedFlag.Name))
		return d.run(groupCtx, interval)
	})
	return group.Wait()
}
