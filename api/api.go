// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/econia-labs/econia-sub003/api/accounts"
	"github.com/econia-labs/econia-sub003/api/events"
	"github.com/econia-labs/econia-sub003/api/governance"
	"github.com/econia-labs/econia-sub003/api/node"
	"github.com/econia-labs/econia-sub003/api/subscriptions"
	"github.com/econia-labs/econia-sub003/api/validators"
	evs "github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
	"github.com/econia-labs/econia-sub003/logdb"
	"github.com/econia-labs/econia-sub003/metrics"
	"github.com/econia-labs/econia-sub003/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	LogsLimit       uint64
	Info            node.Info
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	feed *evs.Feed,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	node.New(rt, opts.Info).
		Mount(router, "/node")
	// the epoch is also served at the root for convenience
	router.Path("/epoch").Methods(http.MethodGet).Handler(
		http.RedirectHandler("/node/epoch", http.StatusTemporaryRedirect))

	validators.New(rt).
		Mount(router, "/validators")
	accounts.New(rt).
		Mount(router, "/accounts", "/pools")
	governance.New(rt).
		Mount(router, "/governance")
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(feed, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
