// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/runtime"
)

type Governance struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Governance {
	return &Governance{rt}
}

func (g *Governance) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *Config
	if err := g.rt.View(func(rd *runtime.Reader) error {
		c, err := rd.GovernanceConfig()
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

func (g *Governance) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(req)["id"], 0)
	if err != nil {
		return err
	}
	var res *Proposal
	if err := g.rt.View(func(rd *runtime.Reader) error {
		p, st, err := rd.Proposal(id)
		if err != nil {
			return err
		}
		res = convertProposal(id, p, st)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (g *Governance) handleHasVoted(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint(mux.Vars(req)["id"], 0)
	if err != nil {
		return err
	}
	pool, err := utils.ParseAddress(mux.Vars(req)["pool"])
	if err != nil {
		return err
	}
	var voted bool
	if err := g.rt.View(func(rd *runtime.Reader) error {
		if _, _, err := rd.Proposal(id); err != nil {
			return err
		}
		voted, err = rd.HasVoted(pool, id)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"voted": voted})
}

func (g *Governance) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("governance_get_config").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetConfig))
	sub.Path("/proposals/{id}").
		Methods(http.MethodGet).
		Name("governance_get_proposal").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetProposal))
	sub.Path("/proposals/{id}/votes/{pool}").
		Methods(http.MethodGet).
		Name("governance_get_vote").
		HandlerFunc(utils.WrapHandlerFunc(g.handleHasVoted))
}
