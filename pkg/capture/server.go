// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// feedBuffer is the number of Records queued per WebSocket client. Further
// Records are dropped for this client.
const feedBuffer = 64

// Server offers a Store over HTTP.
//
//	GET /captures          lists Items, filtered by ?accepted=bool and ?since=RFC3339
//	GET /captures/{id}     returns a Record
//	GET /ws                streams new Records as JSON text messages
//	GET /metrics           serves the Prometheus metrics
type Server struct {
	store  *Store
	router *mux.Router

	upgrader websocket.Upgrader

	clientsMutex sync.Mutex
	clients      map[*feedClient]struct{}
}

// NewServer for a Store. Metrics are gathered from gatherer.
func NewServer(store *Store, gatherer prometheus.Gatherer) *Server {
	srv := &Server{
		store:  store,
		router: mux.NewRouter(),

		upgrader: websocket.Upgrader{},

		clients: make(map[*feedClient]struct{}),
	}

	srv.router.HandleFunc("/captures", srv.handleList).Methods(http.MethodGet)
	srv.router.HandleFunc("/captures/{id}", srv.handleGet).Methods(http.MethodGet)
	srv.router.HandleFunc("/ws", srv.handleFeed).Methods(http.MethodGet)
	srv.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return srv
}

// ServeHTTP is a http.Handler to be bound to a HTTP server.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to write HTTP response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{err.Error()})
}

// handleList processes /captures GET requests.
func (srv *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		items []Item
		err   error
	)

	query := r.URL.Query()
	if accepted := query.Get("accepted"); accepted != "" {
		var b bool
		if b, err = strconv.ParseBool(accepted); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		items, err = srv.store.QueryAccepted(b)
	} else {
		var since time.Time
		if s := query.Get("since"); s != "" {
			if since, err = time.Parse(time.RFC3339, s); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}
		items, err = srv.store.QuerySince(since)
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGet processes /captures/{id} GET requests.
func (srv *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := srv.store.QueryId(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	rec, err := item.Load()
	if err != nil {
		log.WithError(err).WithField("capture", id).Warn("Failed to load stored capture")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// feedClient is a WebSocket connection receiving new Records.
type feedClient struct {
	conn    *websocket.Conn
	records chan Record
}

// handleFeed upgrades /ws requests and streams Records until the client
// disconnects.
func (srv *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Upgrading HTTP request to WebSocket errored")
		return
	}

	client := &feedClient{
		conn:    conn,
		records: make(chan Record, feedBuffer),
	}
	logger := log.WithField("feed client", conn.RemoteAddr().String())

	srv.clientsMutex.Lock()
	srv.clients[client] = struct{}{}
	srv.clientsMutex.Unlock()
	logger.Info("Feed client connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				logger.WithError(err).Debug("Feed client's reader errored")
				return
			}
		}
	}()

	defer func() {
		srv.clientsMutex.Lock()
		delete(srv.clients, client)
		srv.clientsMutex.Unlock()

		_ = conn.Close()
		logger.Info("Feed client disconnected")
	}()

	for {
		select {
		case <-closed:
			return

		case rec := <-client.records:
			if err := conn.WriteJSON(rec); err != nil {
				logger.WithError(err).Warn("Writing Record to feed client errored")
				return
			}
		}
	}
}

// Broadcast a Record to all connected feed clients.
func (srv *Server) Broadcast(rec Record) {
	srv.clientsMutex.Lock()
	defer srv.clientsMutex.Unlock()

	for client := range srv.clients {
		select {
		case client.records <- rec:
		default:
			log.WithField("feed client", client.conn.RemoteAddr().String()).Debug("Feed client is congested, dropping Record")
		}
	}
}

// NofClients is the number of connected feed clients.
func (srv *Server) NofClients() int {
	srv.clientsMutex.Lock()
	defer srv.clientsMutex.Unlock()

	return len(srv.clients)
}
