// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/runtime"
)

type Validators struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Validators {
	return &Validators{rt}
}

func (v *Validators) handleGetSet(w http.ResponseWriter, _ *http.Request) error {
	var set *ValidatorSet
	if err := v.rt.View(func(rd *runtime.Reader) error {
		s, err := rd.ValidatorSet()
		if err != nil {
			return err
		}
		set = convertValidatorSet(s)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, set)
}

func (v *Validators) handleGetPerformance(w http.ResponseWriter, _ *http.Request) error {
	var perf *Performance
	if err := v.rt.View(func(rd *runtime.Reader) error {
		p, err := rd.Performance()
		if err != nil {
			return err
		}
		perf = &Performance{NumBlocks: p.NumBlocks, MissedVotes: p.MissedVotes}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, perf)
}

func (v *Validators) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *Config
	if err := v.rt.View(func(rd *runtime.Reader) error {
		c, err := rd.StakeConfig()
		if err != nil {
			return err
		}
		cfg = convertConfig(c)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

func (v *Validators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("validators_get_set").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetSet))
	sub.Path("/performance").
		Methods(http.MethodGet).
		Name("validators_get_performance").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetPerformance))
	sub.Path("/config").
		Methods(http.MethodGet).
		Name("validators_get_config").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetConfig))
}
