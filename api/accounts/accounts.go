// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/runtime"
)

type Balance struct {
	Address chain.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var (
		bal   uint64
		found bool
	)
	if err := a.rt.View(func(rd *runtime.Reader) (err error) {
		bal, found, err = rd.Balance(addr)
		return err
	}); err != nil {
		return err
	}
	if !found {
		return utils.NotFound(errors.New("coin store not registered"))
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Balance: bal})
}

func (a *Accounts) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var (
		pool  *runtime.PoolInfo
		found bool
	)
	if err := a.rt.View(func(rd *runtime.Reader) (err error) {
		pool, found, err = rd.Pool(addr)
		return err
	}); err != nil {
		return err
	}
	if !found {
		return utils.NotFound(errors.New("stake pool not registered"))
	}
	return utils.WriteJSON(w, pool)
}

// Mount registers the balance route under pathPrefix and the pool route under poolPrefix.
func (a *Accounts) Mount(root *mux.Router, pathPrefix, poolPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{address}/balance").
		Methods(http.MethodGet).
		Name("accounts_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))

	pools := root.PathPrefix(poolPrefix).Subrouter()
	pools.Path("/{address}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetPool))
}
