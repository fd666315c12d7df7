/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous usage events about layout
// operations and optional crash reports. Nothing is sent unless the user opts
// in and an endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	applog "godockshell/internal/log"
	"godockshell/internal/version"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "GDS_TELEMETRY_OPT_IN"
	EnvEventsURL = "GDS_TELEMETRY_URL"
	EnvCrashURL  = "GDS_CRASH_UPLOAD_URL"
	EnvTimeoutMs = "GDS_TELEMETRY_TIMEOUT_MS"
	EnvDebug     = "GDS_TELEMETRY_DEBUG"
)

// Config holds runtime configuration for events and crash uploads.
type Config struct {
	OptIn     bool
	EventsURL string
	CrashURL  string
	Timeout   time.Duration
	// BatchSize events are posted together; Interval flushes partial batches.
	BatchSize int
	Interval  time.Duration
	Debug     bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:     parseBool(os.Getenv(EnvOptIn)),
		EventsURL: strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:  strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:   1500 * time.Millisecond,
		Debug:     os.Getenv(EnvDebug) != "",
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvTimeoutMs))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Event is one usage record. Props must never carry part titles or paths.
type Event struct {
	Name    string         `json:"name"`
	TS      string         `json:"ts"`
	Version string         `json:"version"`
	OS      string         `json:"os"`
	Arch    string         `json:"arch"`
	Props   map[string]any `json:"props,omitempty"`
}

// Client batches events on a background goroutine and drops them on any
// error. Event never blocks.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan Event
	flush  chan chan struct{}
	closed chan struct{}
	done   chan struct{}
	once   sync.Once
}

func New(cfg Config) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 16
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan Event, 64),
		flush:  make(chan chan struct{}),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events are sent at all.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues name with props. A full queue drops the event.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	ev := Event{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if len(props) > 0 {
		ev.Props = make(map[string]any, len(props))
		for k, v := range props {
			ev.Props[k] = v
		}
	}
	select {
	case c.q <- ev:
	default:
	}
}

// Flush sends everything queued so far and waits for it, or for ctx.
func (c *Client) Flush(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	ack := make(chan struct{})
	select {
	case c.flush <- ack:
	case <-ctx.Done():
		return
	case <-c.done:
		return
	}
	select {
	case <-ack:
	case <-ctx.Done():
	}
}

// Close sends what is queued and stops the background goroutine.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.closed) })
	<-c.done
}

func (c *Client) loop() {
	defer close(c.done)
	tick := time.NewTicker(c.cfg.Interval)
	defer tick.Stop()
	var batch []Event
	send := func() {
		if len(batch) == 0 {
			return
		}
		if c.Enabled() {
			c.post(c.cfg.EventsURL, "application/json", batch)
		}
		batch = nil
	}
	drain := func() {
		for {
			select {
			case ev := <-c.q:
				batch = append(batch, ev)
			default:
				return
			}
		}
	}
	for {
		select {
		case <-c.closed:
			drain()
			send()
			return
		case ev := <-c.q:
			batch = append(batch, ev)
			if len(batch) >= c.cfg.BatchSize {
				send()
			}
		case ack := <-c.flush:
			drain()
			send()
			close(ack)
		case <-tick.C:
			send()
		}
	}
}

func (c *Client) post(url, contentType string, body any) {
	var buf []byte
	switch b := body.(type) {
	case []byte:
		buf = b
	default:
		var err error
		if buf, err = json.Marshal(b); err != nil {
			return
		}
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.Debug {
			c.log.Debug("telemetry post failed", slog.String("url", url), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.Debug {
		c.log.Debug("telemetry posted", slog.String("url", url), slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a serialized crash report synchronously when opted in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", append([]byte(nil), report...))
}

var (
	defaultClient *Client
	defaultMu     sync.Mutex
)

// Default returns the package client, built from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault installs c as the package client and returns the previous one.
func SetDefault(c *Client) *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultClient
	defaultClient = c
	return prev
}

// UploadCrash uses the default client.
func UploadCrash(report []byte) { Default().UploadCrash(report) }
