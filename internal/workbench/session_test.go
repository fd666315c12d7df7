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
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
	"godockshell/internal/storage"
)

func demo(t *testing.T) *Session {
	t.Helper()
	s, err := Demo(Options{IDs: &dock.SequentialAllocator{}})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	return s
}

func snapshot(t *testing.T, s *Session) string {
	t.Helper()
	b, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return string(b)
}

func rootRatio(t *testing.T, s *Session) float64 {
	t.Helper()
	f, ok := s.Container().Root().(*dock.Fork)
	if !ok {
		t.Fatalf("root is not a fork")
	}
	return f.Sash().Ratio()
}

func TestDemoLayout(t *testing.T) {
	s := demo(t)
	if n := len(s.Panes()); n != 6 {
		t.Fatalf("registered panes = %d", n)
	}
	if h := s.Hidden(); len(h) != 0 {
		t.Fatalf("hidden = %v", h)
	}
	f := s.Frame()
	if len(f.Boxes) != 4 || len(f.Bars) != 3 {
		t.Fatalf("frame boxes=%d bars=%d", len(f.Boxes), len(f.Bars))
	}
	if got := s.Pane("project").Bounds(); got != geom.R(0, 0, 264, 800) {
		t.Fatalf("project bounds = %v", got)
	}
	if got := s.Pane("outline").Bounds(); got != geom.R(970, 0, 230, 560) {
		t.Fatalf("outline bounds = %v", got)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := demo(t)
	if !errors.Is(s.Redo(), ErrNothingToRedo) {
		t.Fatalf("fresh session must have nothing to redo")
	}
	before := snapshot(t, s)
	if err := s.Close("outline"); err != nil {
		t.Fatalf("close: %v", err)
	}
	after := snapshot(t, s)
	if before == after {
		t.Fatalf("close did not change the layout")
	}
	if s.Container().FindPart("outline") != nil {
		t.Fatalf("outline still in layout")
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := snapshot(t, s); got != before {
		t.Fatalf("undo mismatch:\n got %s\nwant %s", got, before)
	}
	if got := s.Pane("outline").Bounds(); got != geom.R(970, 0, 230, 560) {
		t.Fatalf("outline bounds after undo = %v", got)
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := snapshot(t, s); got != after {
		t.Fatalf("redo mismatch")
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo again: %v", err)
	}
	if !errors.Is(s.Undo(), ErrNothingToUndo) {
		t.Fatalf("history should be exhausted")
	}
}

func TestRejectedOperationLeavesNoHistory(t *testing.T) {
	s := demo(t)
	if err := s.Move("project", dock.Left, "project"); !errors.Is(err, dock.ErrSamePart) {
		t.Fatalf("move onto itself: %v", err)
	}
	if err := s.Close("nope"); !errors.Is(err, ErrUnknownPane) {
		t.Fatalf("unknown pane: %v", err)
	}
	if s.CanUndo() {
		t.Fatalf("rejected operations must not be undoable")
	}
}

func TestResizeUndo(t *testing.T) {
	s := demo(t)
	if got := rootRatio(t, s); math.Abs(got-0.22) > 1e-9 {
		t.Fatalf("initial ratio = %v", got)
	}
	if err := s.BeginResize(geom.Pt(265, 400)); err != nil {
		t.Fatalf("begin resize: %v", err)
	}
	if pos, err := s.DragResize(geom.Pt(5, 400)); err != nil || pos != 120 {
		t.Fatalf("drag clamp = %d, %v", pos, err)
	}
	if err := s.EndResize(geom.Pt(300, 400)); err != nil {
		t.Fatalf("end resize: %v", err)
	}
	if got := rootRatio(t, s); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("ratio after drag = %v", got)
	}
	if s.Resizing() {
		t.Fatalf("resize should be finished")
	}
	// A second drag right away coalesces with the first.
	if err := s.BeginResize(geom.Pt(301, 400)); err != nil {
		t.Fatalf("begin second resize: %v", err)
	}
	if err := s.EndResize(geom.Pt(360, 400)); err != nil {
		t.Fatalf("end second resize: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := rootRatio(t, s); math.Abs(got-0.22) > 1e-9 {
		t.Fatalf("ratio after undo = %v", got)
	}
	if s.CanUndo() {
		t.Fatalf("coalesced drags should undo in one step")
	}
	if err := s.BeginResize(geom.Pt(100, 100)); !errors.Is(err, ErrNoResize) {
		t.Fatalf("press off a sash: %v", err)
	}
}

func TestDragAndDropMove(t *testing.T) {
	s := demo(t)
	if err := s.BeginDrag("outline", geom.Pt(1000, 300)); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if _, tracking := s.DragTo(geom.Pt(1003, 302)); tracking {
		t.Fatalf("inside hysteresis must not track")
	}
	if _, tracking := s.DragTo(geom.Pt(5, 400)); !tracking {
		t.Fatalf("expected tracking")
	}
	ev, err := s.Drop(geom.Pt(5, 400))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ev.DropTarget == nil || ev.DropTarget.ID() != "project" {
		t.Fatalf("drop target = %v", ev.DropTarget)
	}
	out := s.Pane("outline").Bounds()
	if out.X != 0 || out.H != 800 {
		t.Fatalf("outline bounds after drop = %v", out)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := s.Pane("outline").Bounds(); got != geom.R(970, 0, 230, 560) {
		t.Fatalf("outline bounds after undo = %v", got)
	}
}

func TestRejectedDropIsNotRecorded(t *testing.T) {
	s := demo(t)
	if err := s.BeginDrag("project", geom.Pt(100, 400)); err != nil {
		t.Fatalf("arm: %v", err)
	}
	s.DragTo(geom.Pt(130, 400))
	if _, err := s.Drop(geom.Pt(130, 400)); err == nil {
		t.Fatalf("drop onto itself must fail")
	}
	if s.CanUndo() {
		t.Fatalf("rejected drop must not be undoable")
	}
	// A new gesture starts from a clean tracker.
	if err := s.BeginDrag("outline", geom.Pt(1000, 300)); err != nil {
		t.Fatalf("re-arm: %v", err)
	}
	s.CancelDrag()
}

func TestHideShow(t *testing.T) {
	s := demo(t)
	want := s.Pane("outline").Bounds()
	if err := s.Hide("outline"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if h := s.Hidden(); len(h) != 1 || h[0].ID() != "outline" {
		t.Fatalf("hidden = %v", h)
	}
	if s.Pane("outline").Visible() {
		t.Fatalf("hidden pane still visible")
	}
	if err := s.Show("outline"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if got := s.Pane("outline").Bounds(); got != want {
		t.Fatalf("outline came back at %v, want %v", got, want)
	}
}

func TestZoomToggleAndTabs(t *testing.T) {
	s := demo(t)
	if err := s.ToggleZoom("preview"); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	z := s.Container().Zoomed()
	if z == nil || z.Bounds() != DemoBounds {
		t.Fatalf("zoomed = %v", z)
	}
	if err := s.ToggleZoom(""); err != nil {
		t.Fatalf("unzoom: %v", err)
	}
	if s.Container().IsZoomed() {
		t.Fatalf("still zoomed")
	}

	if err := s.Close("preview"); err != nil {
		t.Fatalf("close tab: %v", err)
	}
	g, ok := s.Pane("editor").Container().(*dock.TabGroup)
	if !ok || g.Len() != 1 {
		t.Fatalf("editor group after close = %v", g)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	g, ok = s.Pane("editor").Container().(*dock.TabGroup)
	if !ok || g.Len() != 2 {
		t.Fatalf("editor group after undo = %v", g)
	}
	if g.Selected() != dock.Part(s.Pane("editor")) {
		t.Fatalf("selection not restored: %v", g.Selected())
	}
	if err := s.Select("preview"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if g.Selected() != dock.Part(s.Pane("preview")) {
		t.Fatalf("select failed")
	}
}

func TestStackAndOpen(t *testing.T) {
	s := demo(t)
	if err := s.Stack("outline", "project"); err != nil {
		t.Fatalf("stack: %v", err)
	}
	g, ok := s.Pane("project").Container().(*dock.TabGroup)
	if !ok || g.Len() != 2 || g.Selected() != dock.Part(s.Pane("outline")) {
		t.Fatalf("project group = %v", g)
	}
	notes := dock.NewPane("notes", "Notes", geom.Size{W: 80, H: 40})
	if err := s.Open(notes, dock.Bottom, 0.6, "outline"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Pane("notes") != notes {
		t.Fatalf("open must register the pane")
	}
	if b := notes.Bounds(); b.X != 0 || b.Y == 0 {
		t.Fatalf("notes bounds = %v", b)
	}
	if err := s.Open(dock.NewPane("x", "X", geom.Size{}), dock.Left, 0.5, "missing"); !errors.Is(err, ErrUnknownPane) {
		t.Fatalf("open beside unknown: %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	s := demo(t)
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := New(Options{Bounds: DemoBounds, IDs: &dock.SequentialAllocator{}})
	if err := fresh.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, want := snapshot(t, fresh), snapshot(t, s); got != want {
		t.Fatalf("loaded layout differs:\n got %s\nwant %s", got, want)
	}
	if p := fresh.Pane("console"); p == nil || p.Title() != "Console" {
		t.Fatalf("console pane not created from document: %v", p)
	}
	if !fresh.CanUndo() {
		t.Fatalf("load should be undoable")
	}

	strict := New(Options{Bounds: DemoBounds, Strict: true})
	if err := strict.LoadFile(path); err == nil {
		t.Fatalf("strict load should report tabs without parts")
	}
	if n := len(strict.Container().VisibleParts()); n != 0 {
		t.Fatalf("strict load should restore placeholders only, got %d visible", n)
	}
	strict.Register(dock.NewPane("project", "Project", geom.Size{}))
	if err := strict.Show("project"); err != nil {
		t.Fatalf("show into placeholder: %v", err)
	}
	if got := strict.Pane("project").Bounds(); got != DemoBounds {
		t.Fatalf("only visible part should fill the layout, got %v", got)
	}
}

func TestPerspectives(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "p.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s, err := Demo(Options{Store: st, Keep: 2, Now: func() time.Time { clock = clock.Add(time.Second); return clock }})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if errors.Is(New(Options{}).LoadPerspective(ctx, "x"), ErrNoStore) == false {
		t.Fatalf("expected ErrNoStore")
	}
	want := snapshot(t, s)
	for i := 0; i < 3; i++ {
		if _, err := s.SavePerspective(ctx, ""); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	hist, err := st.History(ctx, "demo", 10)
	if err != nil || len(hist) != 2 {
		t.Fatalf("history after prune = %d, %v", len(hist), err)
	}
	if err := s.Close("project"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.LoadPerspective(ctx, "demo"); err != nil {
		t.Fatalf("load perspective: %v", err)
	}
	if got := snapshot(t, s); got != want {
		t.Fatalf("perspective mismatch")
	}
	if err := s.LoadPerspective(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing perspective: %v", err)
	}
}
