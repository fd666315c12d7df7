/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	events  [][]Event
	crashes [][]byte
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		var batch []Event
		_ = json.NewDecoder(req.Body).Decode(&batch)
		r.mu.Lock()
		r.events = append(r.events, batch)
		r.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.crashes = append(r.crashes, b)
		r.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_BatchesEventsOnFlush(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash", Interval: time.Hour})
	defer c.Close()
	if !c.Enabled() {
		t.Fatalf("expected client to be enabled")
	}

	c.Event("layout.move", map[string]any{"parts": 3})
	c.Event("layout.zoom", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Flush(ctx)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 || len(rec.events[0]) != 2 {
		t.Fatalf("expected one batch of two events, got %v", rec.events)
	}
	ev := rec.events[0][0]
	if ev.Name != "layout.move" || ev.TS == "" || ev.Version == "" {
		t.Fatalf("event = %+v", ev)
	}
	if v, ok := ev.Props["parts"].(float64); !ok || v != 3 {
		t.Fatalf("props = %v", ev.Props)
	}
}

func TestClient_BatchSizeTriggersSend(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", BatchSize: 2, Interval: time.Hour})
	c.Event("a", nil)
	c.Event("b", nil)
	c.Event("c", nil)
	c.Close()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	total := 0
	for _, b := range rec.events {
		total += len(b)
	}
	if total != 3 {
		t.Fatalf("batches = %v", rec.events)
	}
}

func TestClient_UploadCrash(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := New(Config{OptIn: true, CrashURL: srv.URL + "/crash"})
	defer c.Close()
	c.UploadCrash([]byte("STACKTRACE"))
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.crashes) != 1 || string(rec.crashes[0]) != "STACKTRACE" {
		t.Fatalf("crashes = %q", rec.crashes)
	}
}

func TestClient_DisabledSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, CrashURL: srv.URL})
	if c.Enabled() {
		t.Fatalf("expected disabled client")
	}
	c.Event("ignored", nil)
	c.UploadCrash([]byte("ignored"))
	c.Flush(context.Background())
	c.Close()

	c2 := New(Config{OptIn: true, EventsURL: srv.URL})
	c2.Event("", nil)
	c2.Close()
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}

	var nilClient *Client
	nilClient.Event("x", nil)
	nilClient.UploadCrash(nil)
	nilClient.Close()
}

func TestFromEnvAndDefault(t *testing.T) {
	t.Setenv(EnvOptIn, "yes")
	t.Setenv(EnvEventsURL, " http://127.0.0.1:0 ")
	t.Setenv(EnvCrashURL, "")
	t.Setenv(EnvTimeoutMs, "100")

	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://127.0.0.1:0" || cfg.Timeout != 100*time.Millisecond {
		t.Fatalf("FromEnv did not parse correctly: %+v", cfg)
	}
	c := New(cfg)
	prev := SetDefault(c)
	defer func() {
		SetDefault(prev)
		c.Close()
	}()
	if Default() != c || !Default().Enabled() {
		t.Fatalf("default client not installed")
	}
}
