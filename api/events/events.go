// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	q := req.URL.Query()
	filter := &logdb.EventFilter{Type: q.Get("type")}

	if s := q.Get("creator"); s != "" {
		creator, err := utils.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		filter.Creator = &creator
	}
	var err error
	if filter.From, err = utils.ParseUint(q.Get("from"), 0); err != nil {
		return nil, err
	}
	if filter.Limit, err = utils.ParseUint(q.Get("limit"), e.limit); err != nil {
		return nil, err
	}
	if filter.Limit > e.limit {
		return nil, utils.Forbidden(errors.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	switch order := logdb.Order(q.Get("order")); order {
	case "", logdb.ASC, logdb.DESC:
		filter.Order = order
	default:
		return nil, utils.BadRequest(errors.Errorf("invalid order %q", order))
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	evs, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if evs == nil {
		evs = []*logdb.Event{}
	}
	return utils.WriteJSON(w, evs)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_filter").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
