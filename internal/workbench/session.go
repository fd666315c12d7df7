/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package workbench is the host side of the layout engine: a Session owns a
// sash container, the panes it shows, an undo history and an optional
// perspective store, and exposes every user-level layout operation as one
// undoable call.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"godockshell/internal/dnd"
	"godockshell/internal/dock"
	"godockshell/internal/export"
	"godockshell/internal/geom"
	applog "godockshell/internal/log"
	"godockshell/internal/persist"
	"godockshell/internal/storage"
	"godockshell/internal/telemetry"
	"godockshell/internal/undo"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrUnknownPane   = errors.New("unknown pane")
	ErrNoStore       = errors.New("no perspective store configured")
	ErrNoResize      = errors.New("no sash under the pointer")
)

// DefaultMinSize is given to panes created while loading a layout.
var DefaultMinSize = geom.Size{W: 60, H: 40}

// Options configures a Session. Zero values take defaults.
type Options struct {
	Workspace  string
	Bounds     geom.Rect
	IDs        dock.IDAllocator
	Undo       *undo.Manager
	Store      storage.Store
	Keep       int // snapshots kept per perspective; 0 keeps all
	Hysteresis int
	// Strict restores unknown pane ids as placeholders instead of creating panes.
	Strict bool
	Logger *slog.Logger
	Now    func() time.Time
	// Telemetry receives one "layout.<op>" event per committed operation.
	Telemetry *telemetry.Client
	// AutosaveDir receives crash autosaves; empty means the temp dir.
	AutosaveDir string
}

// Session is single-threaded like the container it owns.
type Session struct {
	c       *dock.SashContainer
	tracker *dnd.Tracker
	panes   map[string]*dock.Pane
	undo    *undo.Manager
	store   storage.Store
	keep    int
	ws      string
	strict  bool
	log     *slog.Logger
	now     func() time.Time
	tel     *telemetry.Client
	saveDir string

	resizeBefore []byte
	// tabSpots remembers where hidden tabs sat so Show can put them back.
	tabSpots map[string]tabSpot
}

type tabSpot struct {
	group string
	index int
}

func New(opts Options) *Session {
	s := &Session{
		panes:  map[string]*dock.Pane{},

		tabSpots: map[string]tabSpot{},
		undo:   opts.Undo,
		store:  opts.Store,
		keep:   opts.Keep,
		ws:     opts.Workspace,
		strict: opts.Strict,
		log:    opts.Logger,
		now:    opts.Now,
		tel:    opts.Telemetry,

		saveDir: opts.AutosaveDir,
	}
	if s.ws == "" {
		s.ws = "default"
	}
	if s.undo == nil {
		s.undo = undo.NewManager(undo.Config{MaxDepth: 100, CoalesceWindow: 400 * time.Millisecond})
	}
	if s.log == nil {
		s.log = applog.WithComponent("workbench")
	}
	s.log = s.log.With(slog.String("workspace", s.ws))
	if s.now == nil {
		s.now = time.Now
	}
	s.c = dock.NewSashContainer(dock.Options{IDs: opts.IDs, Logger: applog.WithComponent("dock")})
	s.tracker = dnd.NewTracker(s.c, dnd.TrackerOptions{Hysteresis: opts.Hysteresis})
	if !opts.Bounds.Empty() {
		s.c.SetBounds(opts.Bounds)
	}
	return s
}

func (s *Session) Container() *dock.SashContainer { return s.c }
func (s *Session) Tracker() *dnd.Tracker          { return s.tracker }
func (s *Session) Workspace() string              { return s.ws }
func (s *Session) Store() storage.Store           { return s.store }

// SetBounds resizes the layout. Window resizes are not undoable.
func (s *Session) SetBounds(r geom.Rect) { s.c.SetBounds(r) }

// Register makes p known to the session without placing it.
func (s *Session) Register(p *dock.Pane) {
	if p != nil {
		s.panes[p.ID()] = p
	}
}

// Pane returns the registered pane with id, or nil.
func (s *Session) Pane(id string) *dock.Pane { return s.panes[id] }

// Panes lists registered panes ordered by id.
func (s *Session) Panes() []*dock.Pane {
	ids := slices.Sorted(maps.Keys(s.panes))
	out := make([]*dock.Pane, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.panes[id])
	}
	return out
}

// Hidden lists registered panes that are not currently shown.
func (s *Session) Hidden() []*dock.Pane {
	var out []*dock.Pane
	for _, p := range s.Panes() {
		if s.c.FindPart(p.ID()) != p {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) part(id string) (dock.Part, error) {
	if p := s.c.FindPart(id); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPane, id)
}

// Snapshot serializes the current layout as a JSON layout document.
func (s *Session) Snapshot() ([]byte, error) {
	return persist.Marshal(persist.EncodeRecord(s.c), persist.JSON)
}

// mutate runs fn and, when it changed the layout, records the prior state
// under label.
func (s *Session) mutate(label string, fn func() error) error {
	before, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot before %s: %w", label, err)
	}
	if err := fn(); err != nil {
		s.log.Debug("layout operation rejected", slog.String("op", label), slog.Any("err", err))
		return err
	}
	s.undo.Push(undo.Snapshot{Workspace: s.ws, Label: label, Blob: before, TS: s.now()})
	s.emit(label)
	return nil
}

func (s *Session) emit(label string) {
	if !s.tel.Enabled() {
		return
	}
	s.tel.Event("layout."+label, map[string]any{
		"parts":  len(s.c.VisibleParts()),
		"zoomed": s.c.IsZoomed(),
	})
}

// Open registers p and places it at rel of the part relativeID, or via the
// default placement when relativeID is empty.
func (s *Session) Open(p *dock.Pane, rel dock.Relationship, ratio float64, relativeID string) error {
	if p == nil {
		return dock.ErrNilPart
	}
	return s.mutate("open", func() error {
		var err error
		if relativeID == "" {
			err = s.c.Add(p)
		} else {
			var relative dock.Part
			if relative, err = s.part(relativeID); err == nil {
				err = s.c.AddRelative(p, rel, ratio, s.c.TopLevel(relative))
			}
		}
		if err == nil {
			s.Register(p)
		}
		return err
	})
}

// Close takes a part out of the layout, from the tree or from its tab group.
// The pane stays registered so Show and Undo can bring it back.
func (s *Session) Close(id string) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	return s.mutate("close", func() error {
		if s.c.IsChild(p) {
			return s.c.Remove(p)
		}
		return s.c.Detach(p)
	})
}

// Hide swaps a part for a placeholder that remembers its position. A tab is
// taken out of its group instead, and its group and index are remembered.
func (s *Session) Hide(id string) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	return s.mutate("hide", func() error {
		g, ok := p.Container().(*dock.TabGroup)
		if !ok || !s.c.IsChild(g) {
			return s.c.Hide(p)
		}
		i := g.IndexOf(p)
		if err := s.c.Detach(p); err != nil {
			return err
		}
		s.tabSpots[id] = tabSpot{group: g.ID(), index: i}
		return nil
	})
}

// Show puts a registered pane back: into the tab group it was hidden from
// while that group is still laid out, else into its placeholder, else at the
// default spot.
func (s *Session) Show(id string) error {
	p := s.panes[id]
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPane, id)
	}
	return s.mutate("show", func() error {
		spot, ok := s.tabSpots[id]
		if !ok {
			return s.c.Add(p)
		}
		g, isGroup := s.c.FindPart(spot.group).(*dock.TabGroup)
		if !isGroup || s.c.TopLevel(p) != nil {
			if err := s.c.Add(p); err != nil {
				return err
			}
			delete(s.tabSpots, id)
			return nil
		}
		if err := s.c.Stack(p, g); err != nil {
			return err
		}
		delete(s.tabSpots, id)
		return g.MoveTab(p, min(spot.index, g.Len()-1))
	})
}

func (s *Session) Move(id string, rel dock.Relationship, relativeID string) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	relative, err := s.part(relativeID)
	if err != nil {
		return err
	}
	return s.mutate("move", func() error {
		return s.c.Move(s.c.TopLevel(p), rel, s.c.TopLevel(relative))
	})
}

// Stack puts id into a tab group with refID.
func (s *Session) Stack(id, refID string) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	ref, err := s.part(refID)
	if err != nil {
		return err
	}
	return s.mutate("stack", func() error { return s.c.Stack(p, s.c.TopLevel(ref)) })
}

// Select brings a tab to the front of its group. Selection is not undoable.
func (s *Session) Select(id string) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	g, ok := p.Container().(*dock.TabGroup)
	if !ok {
		return nil
	}
	return g.Select(p)
}

// ToggleZoom zooms the top-level part holding id, or restores the layout when
// something is zoomed already.
func (s *Session) ToggleZoom(id string) error {
	if s.c.IsZoomed() {
		return s.mutate("zoom", s.c.ZoomOut)
	}
	p, err := s.part(id)
	if err != nil {
		return err
	}
	return s.mutate("zoom", func() error { return s.c.ZoomIn(s.c.TopLevel(p)) })
}

// BeginResize starts a sash drag at pt.
func (s *Session) BeginResize(pt geom.Point) error {
	sash := s.c.SashAt(pt)
	if sash == nil {
		return ErrNoResize
	}
	before, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := s.c.BeginSashDrag(sash); err != nil {
		return err
	}
	s.resizeBefore = before
	return nil
}

// DragResize returns the clamped bar position for pt.
func (s *Session) DragResize(pt geom.Point) (int, error) { return s.c.DragSash(pt) }

// EndResize commits the drag. Consecutive resizes inside the undo coalescing
// window undo as one step.
func (s *Session) EndResize(pt geom.Point) error {
	if err := s.c.EndSashDrag(pt); err != nil {
		return err
	}
	s.undo.Push(undo.Snapshot{Workspace: s.ws, Label: "resize", Blob: s.resizeBefore, TS: s.now(), Coalesce: true})
	s.resizeBefore = nil
	s.emit("resize")
	return nil
}

func (s *Session) CancelResize() {
	s.c.CancelSashDrag()
	s.resizeBefore = nil
}

// Resizing reports whether a sash drag is active.
func (s *Session) Resizing() bool { return s.resizeBefore != nil }

// BeginDrag arms the drag tracker on the part with id.
func (s *Session) BeginDrag(id string, pt geom.Point) error {
	p, err := s.part(id)
	if err != nil {
		return err
	}
	if !s.tracker.Busy() {
		s.tracker.Reset()
	}
	return s.tracker.Arm(p, pt)
}

// DragTo feeds a pointer position to the tracker.
func (s *Session) DragTo(pt geom.Point) (dnd.DropEvent, bool) { return s.tracker.Move(pt) }

// Drop releases the drag at pt, applying it when the policy allows.
func (s *Session) Drop(pt geom.Point) (dnd.DropEvent, error) {
	var ev dnd.DropEvent
	err := s.mutate("drop", func() error {
		var err error
		ev, err = s.tracker.Release(pt)
		return err
	})
	return ev, err
}

// CancelDrag aborts an active drag gesture.
func (s *Session) CancelDrag() { s.tracker.Cancel() }

// Undo restores the layout before the last operation.
func (s *Session) Undo() error {
	cur, err := s.Snapshot()
	if err != nil {
		return err
	}
	snap, ok := s.undo.Undo(s.ws, cur)
	if !ok {
		return ErrNothingToUndo
	}
	s.log.Debug("undo", slog.String("op", snap.Label))
	return s.restoreBlob(snap.Blob)
}

// Redo reapplies the last undone operation.
func (s *Session) Redo() error {
	cur, err := s.Snapshot()
	if err != nil {
		return err
	}
	snap, ok := s.undo.Redo(s.ws, cur)
	if !ok {
		return ErrNothingToRedo
	}
	s.log.Debug("redo", slog.String("op", snap.Label))
	return s.restoreBlob(snap.Blob)
}

func (s *Session) CanUndo() bool { return s.undo.CanUndo(s.ws) }
func (s *Session) CanRedo() bool { return s.undo.CanRedo(s.ws) }

func (s *Session) restoreBlob(blob []byte) error {
	rec, err := persist.Unmarshal(blob, persist.JSON)
	if err != nil {
		return err
	}
	return errors.Join(s.restore(rec)...)
}

// factory resolves layout ids to registered panes, creating panes for
// unknown ids unless the session is strict.
func (s *Session) factory(id string, info persist.PartInfo) dock.Part {
	if p, ok := s.panes[id]; ok {
		if info.Title != "" && p.Title() == "" {
			p.SetTitle(info.Title)
		}
		return p
	}
	if s.strict {
		return nil
	}
	title := info.Title
	if title == "" {
		title = id
	}
	p := dock.NewPane(id, title, DefaultMinSize)
	s.panes[id] = p
	return p
}

// restore replaces the whole layout with rec.
func (s *Session) restore(rec *persist.Record) []error {
	s.c.CancelSashDrag()
	s.tracker.Cancel()
	s.tracker.Reset()
	s.resizeBefore = nil
	s.c.Dispose()
	for _, p := range s.panes {
		p.SetContainer(nil)
		p.SetVisible(false)
	}
	errs := persist.Decode(rec, s.c, s.factory)
	s.c.Layout()
	for _, err := range errs {
		s.log.Warn("layout record skipped", slog.Any("err", err))
	}
	return errs
}

// Apply replaces the layout with rec as one undoable step. Records that could
// not be restored are reported but do not stop the rest.
func (s *Session) Apply(rec *persist.Record) error {
	var errs []error
	err := s.mutate("load", func() error {
		errs = s.restore(rec)
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// SaveFile writes the layout to path; the extension picks JSON, YAML or TOML.
func (s *Session) SaveFile(path string) error {
	if err := persist.WriteFile(path, persist.EncodeRecord(s.c)); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	s.log.Info("layout saved", slog.String("path", path))
	return nil
}

// LoadFile replaces the layout with the document at path.
func (s *Session) LoadFile(path string) error {
	rec, err := persist.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	s.log.Info("layout loaded", slog.String("path", path))
	return s.Apply(rec)
}

// SavePerspective stores the layout under name and prunes old versions.
func (s *Session) SavePerspective(ctx context.Context, name string) (int64, error) {
	if s.store == nil {
		return 0, ErrNoStore
	}
	if name == "" {
		name = s.ws
	}
	blob, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	id, err := s.store.Save(ctx, name, blob, s.now())
	if err != nil {
		return 0, err
	}
	if s.keep > 0 {
		if _, err := s.store.Prune(ctx, name, s.keep); err != nil {
			s.log.Warn("prune perspective failed", slog.String("name", name), slog.Any("err", err))
		}
	}
	return id, nil
}

// LoadPerspective replaces the layout with the newest version of name.
func (s *Session) LoadPerspective(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if name == "" {
		name = s.ws
	}
	snap, err := s.store.Latest(ctx, name)
	if err != nil {
		return err
	}
	rec, err := persist.Unmarshal(snap.Blob, persist.JSON)
	if err != nil {
		return fmt.Errorf("perspective %q: %w", name, err)
	}
	return s.Apply(rec)
}

// Frame captures the current geometry for rendering.
func (s *Session) Frame() export.Frame { return export.FrameOf(s.c) }

// Autosave writes the layout as JSON to the autosave directory and returns
// the path. Used by crash recovery.
func (s *Session) Autosave() (string, error) {
	dir := s.saveDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-autosave-%s.json", s.ws, s.now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := s.SaveFile(path); err != nil {
		return "", err
	}
	return path, nil
}
