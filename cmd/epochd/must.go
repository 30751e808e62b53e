// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/econia-labs/econia-sub003/api/utils/fpath"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/genesis"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/logdb"
	"github.com/econia-labs/econia-sub003/lvldb"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/pop"
	"github.com/econia-labs/econia-sub003/runtime"
	"github.com/econia-labs/econia-sub003/state"
)

const defaultBlockInterval = time.Second

func defaultDataDir() string {
	return fpath.DataDir(".epochd")
}

func initLogger(ctx *cli.Context) {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, isTerminal(os.Stderr))
	}
	log.SetDefault(log.NewLogger(handler))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	if size, err := fpath.SizeOfDir(dataDir); err == nil {
		logger.Debug("data dir", "path", dataDir, "sizeMB", size/1024/1024)
	}
	return dataDir, nil
}

func loadGenesisConfig(ctx *cli.Context) (*genesis.Config, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.LoadConfig(path)
	}
	n := ctx.Int(devValidatorsFlag.Name)
	if n <= 0 {
		return nil, fmt.Errorf("invalid --%s %d", devValidatorsFlag.Name, n)
	}
	return genesis.DevConfig(n), nil
}

// normalizeCacheSize limits the ledger cache to half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func reportSystem() {
	var (
		mem  gosigar.Mem
		load gosigar.LoadAverage
	)
	if err := mem.Get(); err == nil {
		logger.Info("system memory", "totalMB", mem.Total/1024/1024, "freeMB", mem.ActualFree/1024/1024)
	}
	if err := load.Get(); err == nil {
		logger.Debug("system load", "1m", load.One, "5m", load.Five, "15m", load.Fifteen)
	}
}

func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger database [%v]", dir)
	}
	return db, nil
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(dataDir, "events.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", dir)
	}
	return db, nil
}

// epochNode bundles the opened stores and the runtime.
type epochNode struct {
	mainDB *lvldb.LevelDB
	logDB  *logdb.LogDB
	feed   *events.Feed
	rt     *runtime.Runtime
}

func openNode(ctx *cli.Context) (*epochNode, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}
	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return nil, err
	}
	logDB, err := openLogDB(dataDir)
	if err != nil {
		mainDB.Close()
		return nil, err
	}
	feed := events.NewFeed()
	return &epochNode{
		mainDB: mainDB,
		logDB:  logDB,
		feed:   feed,
		rt:     runtime.New(state.New(mainDB), events.MultiSink{logDB, feed}, pop.Secp256k1Verifier{}),
	}, nil
}

func (n *epochNode) Close() {
	logger.Info("closing event database...")
	if err := n.logDB.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Info("closing ledger database...")
	n.mainDB.Close()
}

// bootstrap builds genesis unless the ledger already holds one.
func (n *epochNode) bootstrap(ctx *cli.Context) (bool, error) {
	ok, err := n.rt.Initialized()
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	cfg, err := loadGenesisConfig(ctx)
	if err != nil {
		return false, err
	}
	gen, err := n.rt.Genesis(cfg)
	if err != nil {
		return false, errors.Wrap(err, "build genesis")
	}
	logger.Info("genesis built", "id", gen.ID, "validators", gen.Validators)
	return true, nil
}

func listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen [%v]", addr)
	}
	return l, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	l, err := listen(addr)
	if err != nil {
		return "", nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	return "http://" + l.Addr().String() + "/metrics", func() { srv.Close() }, nil
}

// checkClockOffset warns when the local clock drifts by more than half a block interval.
func checkClockOffset(server string, interval time.Duration) {
	if server == "" {
		return
	}
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > interval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
