// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/api/utils"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	subscriptionBuffer = 256
	writeTimeout       = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 7) / 10
)

var errShuttingDown = errors.New("subscriptions are shutting down")

type Subscriptions struct {
	feed      *events.Feed
	upgrader  *websocket.Upgrader
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex // guards closing and wg.Add
	closing   bool
	wg        sync.WaitGroup
}

func New(feed *events.Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseFilter(req *http.Request) (*EventFilter, error) {
	q := req.URL.Query()
	filter := &EventFilter{Type: q.Get("type")}
	if s := q.Get("creator"); s != "" {
		creator, err := utils.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		filter.Creator = &creator
	}
	return filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}
	if !s.track() {
		return utils.HTTPError(errShuttingDown, http.StatusServiceUnavailable)
	}
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	id := uuid.New()
	sub := s.feed.Subscribe(subscriptionBuffer)
	defer sub.Unsubscribe()
	logger.Debug("subscriber connected", "id", id, "remote", req.RemoteAddr)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeTimeout))
			return nil
		case <-closed:
			logger.Debug("subscriber disconnected", "id", id)
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return nil
			}
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			if !filter.Match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(&Message{SubscriptionID: id, Event: ev, Dropped: sub.Dropped()}); err != nil {
				logger.Debug("write failed", "id", id, "err", err)
				return nil
			}
		}
	}
}

// track registers a handler unless Close has started.
func (s *Subscriptions) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

// Close disconnects all subscribers and waits for their handlers to return.
// It is safe to call more than once.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		close(s.done)
		s.mu.Unlock()
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
