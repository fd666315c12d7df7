/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workbench

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"godockshell/internal/dock"
	"godockshell/internal/telemetry"
)

func TestTelemetryEventsPerCommittedOperation(t *testing.T) {
	var (
		mu    sync.Mutex
		names []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []telemetry.Event
		_ = json.NewDecoder(r.Body).Decode(&batch)
		mu.Lock()
		for _, ev := range batch {
			names = append(names, ev.Name)
		}
		mu.Unlock()
	}))
	defer srv.Close()

	tel := telemetry.New(telemetry.Config{OptIn: true, EventsURL: srv.URL, Interval: time.Hour})
	defer tel.Close()
	s, err := Demo(Options{IDs: &dock.SequentialAllocator{}})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	s.tel = tel

	if err := s.ToggleZoom("editor"); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	if err := s.Hide("nope"); err == nil {
		t.Fatalf("expected unknown pane error")
	}
	if err := s.Hide("outline"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	tel.Flush(ctx)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"layout.zoom", "layout.hide"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("events = %v, want %v", names, want)
	}
}

func TestAutosave(t *testing.T) {
	dir := t.TempDir()
	s, err := Demo(Options{IDs: &dock.SequentialAllocator{}, AutosaveDir: dir})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	path, err := s.Autosave()
	if err != nil {
		t.Fatalf("autosave: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("autosave file: %v", err)
	}

	other, err := Demo(Options{IDs: &dock.SequentialAllocator{}})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if err := other.Hide("console"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if err := other.LoadFile(path); err != nil {
		t.Fatalf("load autosave: %v", err)
	}
	if snapshot(t, other) != snapshot(t, s) {
		t.Fatalf("autosave did not restore the layout")
	}
}

func TestHideTabReturnsToItsGroup(t *testing.T) {
	s := demo(t)
	console := s.Pane("console")
	g, ok := console.Container().(*dock.TabGroup)
	if !ok || g.IndexOf(console) != 0 {
		t.Fatalf("console should lead a tab group")
	}

	if err := s.Hide("console"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if console.Container() != nil || g.IndexOf(console) >= 0 || g.Len() != 1 {
		t.Fatalf("console still held after hide")
	}
	if h := s.Hidden(); len(h) != 1 || h[0].ID() != "console" {
		t.Fatalf("hidden = %v", h)
	}

	if err := s.Show("console"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if console.Container() != dock.Container(g) || g.IndexOf(console) != 0 || g.Selected() != dock.Part(console) {
		t.Fatalf("console not back in front of its group")
	}
	if s.Container().IsChild(console) || len(s.Hidden()) != 0 {
		t.Fatalf("console placed twice")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo show: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo hide: %v", err)
	}
	if s.Container().FindPart("console") == nil {
		t.Fatalf("undo did not bring console back")
	}
}

func TestShowRejectsPaneAlreadyInAGroup(t *testing.T) {
	s := demo(t)
	editor := s.Pane("editor")
	g := editor.Container().(*dock.TabGroup)
	before := snapshot(t, s)

	if err := s.Show("editor"); !errors.Is(err, dock.ErrAlreadyChild) {
		t.Fatalf("show of a live tab: %v", err)
	}
	if snapshot(t, s) != before || s.CanUndo() {
		t.Fatalf("failed show changed the layout")
	}

	if err := s.Close("editor"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if g.IndexOf(editor) >= 0 || editor.Container() != nil {
		t.Fatalf("closed tab still listed by its group")
	}
}
