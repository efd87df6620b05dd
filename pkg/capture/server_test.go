// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

func setupServer(t *testing.T) (*Store, *Metrics, *httptest.Server, *Server, func()) {
	dir := setupStoreDir(t)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	srv := NewServer(store, reg)
	httpSrv := httptest.NewServer(srv)

	return store, metrics, httpSrv, srv, func() {
		httpSrv.Close()
		_ = store.Close()
		_ = os.RemoveAll(dir)
	}
}

func getJSON(t *testing.T, url string, status int, v interface{}) {
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != status {
		t.Fatalf("GET %s returned %d, expected %d", url, resp.StatusCode, status)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
}

func TestServerCaptures(t *testing.T) {
	store, _, httpSrv, _, cleanup := setupServer(t)
	defer cleanup()

	raw, results := sampleMessage(t, 1)
	item, err := store.Push(NewRecord(raw, true, results, time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	var items []Item
	getJSON(t, httpSrv.URL+"/captures", http.StatusOK, &items)
	if len(items) != 1 || items[0].Id != item.Id {
		t.Fatalf("Listed %v", items)
	}

	getJSON(t, httpSrv.URL+"/captures?accepted=false", http.StatusOK, &items)
	if len(items) != 0 {
		t.Fatalf("Listed %d rejected items", len(items))
	}

	getJSON(t, httpSrv.URL+"/captures?accepted=maybe", http.StatusBadRequest, nil)
	getJSON(t, httpSrv.URL+"/captures?since=yesterday", http.StatusBadRequest, nil)

	var rec Record
	getJSON(t, httpSrv.URL+"/captures/"+item.Id, http.StatusOK, &rec)
	if !rec.Accepted || rec.Symbol != 1 || len(rec.Sections) != 1 || string(rec.Raw) != string(raw) {
		t.Fatalf("Fetched record %v", rec)
	}

	getJSON(t, httpSrv.URL+"/captures/unknown", http.StatusNotFound, nil)
}

func TestServerMetrics(t *testing.T) {
	_, metrics, httpSrv, _, cleanup := setupServer(t)
	defer cleanup()

	metrics.Observe(true, 2)
	metrics.Observe(false, 0)
	metrics.ObserveStored()

	resp, err := http.Get(httpSrv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{
		`ofh_uplane_messages_total{outcome="accepted"} 1`,
		`ofh_uplane_messages_total{outcome="rejected"} 1`,
		`ofh_uplane_sections_total 2`,
		`ofh_capture_stored_total 1`,
	} {
		if !strings.Contains(string(body), line) {
			t.Fatalf("Metrics lack %q:\n%s", line, body)
		}
	}
}

func TestServerFeed(t *testing.T) {
	_, _, httpSrv, srv, cleanup := setupServer(t)
	defer cleanup()

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	for i := 0; srv.NofClients() != 1; i++ {
		if i == 100 {
			t.Fatal("Feed client was not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	raw, results := sampleMessage(t, 6)
	srv.Broadcast(NewRecord(raw, true, results, time.Now()))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var rec Record
	if err := conn.ReadJSON(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Symbol != 6 || !rec.Accepted {
		t.Fatalf("Received record %v", rec)
	}

	_ = conn.Close()
	for i := 0; srv.NofClients() != 0; i++ {
		if i == 100 {
			t.Fatal("Feed client was not unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
