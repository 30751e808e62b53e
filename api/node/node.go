// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/runtime"
)

// Info is static information about the running node.
type Info struct {
	Version string `json:"version"`
}

type Node struct {
	rt   *runtime.Runtime
	info Info
}

func New(rt *runtime.Runtime, info Info) *Node {
	return &Node{
		rt,
		info,
	}
}

func (n *Node) handleEpoch(w http.ResponseWriter, _ *http.Request) error {
	var info *runtime.EpochInfo
	if err := n.rt.View(func(rd *runtime.Reader) (err error) {
		info, err = rd.Epoch()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.info)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/epoch").
		Methods(http.MethodGet).
		Name("node_get_epoch").
		HandlerFunc(utils.WrapHandlerFunc(n.handleEpoch))
	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
