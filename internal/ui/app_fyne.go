//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"godockshell/internal/dnd"
	"godockshell/internal/dock"
	"godockshell/internal/export"
	"godockshell/internal/geom"
	applog "godockshell/internal/log"
	"godockshell/internal/version"
	"godockshell/internal/workbench"
)

// headerHeight is the strip at the top of a box that starts a pane drag.
const headerHeight = 22

// Run opens a window showing the session and blocks until it is closed.
func Run(ctx context.Context, s *workbench.Session, opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	a := app.NewWithID("org.godockshell.app")
	w := a.NewWindow("DockShell " + version.String())
	dc := NewDockCanvas(s)
	status := widget.NewLabel("drag a header to move a pane, drag a border to resize")
	dc.OnStatus = status.SetText

	save := func() {
		var err error
		if opts.SavePath != "" {
			err = s.SaveFile(opts.SavePath)
		} else {
			_, err = s.SavePerspective(ctx, "")
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("layout saved")
	}
	act := func(op string, fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				status.SetText(fmt.Sprintf("%s: %v", op, err))
				l.Debug("operation failed", slog.String("op", op), slog.Any("err", err))
			}
			dc.Refresh()
		}
	}
	undo := act("undo", s.Undo)
	redo := act("redo", s.Redo)
	zoom := act("zoom", func() error { return s.ToggleZoom(dc.FocusTarget()) })
	hide := act("hide", func() error { return s.Hide(dc.FocusTarget()) })

	var showItems []*fyne.MenuItem
	for _, p := range s.Panes() {
		id := p.ID()
		showItems = append(showItems, fyne.NewMenuItem(p.Title(), act("show", func() error { return s.Show(id) })))
	}
	showMenu := fyne.NewMenuItem("Show", nil)
	showMenu.ChildMenu = fyne.NewMenu("", showItems...)

	saveItem := fyne.NewMenuItem("Save Layout", save)
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
	undoItem := fyne.NewMenuItem("Undo", undo)
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redoItem := fyne.NewMenuItem("Redo", redo)
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	zoomItem := fyne.NewMenuItem("Toggle Zoom", zoom)
	zoomItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyM, Modifier: fyne.KeyModifierShortcutDefault}
	hideItem := fyne.NewMenuItem("Hide Focused", hide)

	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", saveItem),
		fyne.NewMenu("Edit", undoItem, redoItem),
		fyne.NewMenu("View", zoomItem, hideItem, showMenu),
	))
	for _, it := range []*fyne.MenuItem{saveItem, undoItem, redoItem, zoomItem} {
		action := it.Action
		w.Canvas().AddShortcut(it.Shortcut, func(fyne.Shortcut) { action() })
	}
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			dc.Cancel()
		}
	})

	w.SetContent(container.NewBorder(nil, status, nil, nil, dc))
	b := s.Container().Bounds()
	if b.Empty() {
		b = workbench.DemoBounds
	}
	w.Resize(fyne.NewSize(float32(b.W), float32(b.H+40)))

	go func() {
		<-ctx.Done()
		fyne.Do(w.Close)
	}()
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

var (
	colBackground = color.RGBA{R: 40, G: 42, B: 46, A: 255}
	colPane       = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	colHeader     = color.RGBA{R: 210, G: 222, B: 240, A: 255}
	colFocus      = color.RGBA{R: 0, G: 150, B: 220, A: 255}
	colTarget     = color.RGBA{R: 240, G: 160, B: 0, A: 255}
	colBar        = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	colText       = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// DockCanvas draws a session frame and turns pointer gestures into sash
// drags and pane drags.
type DockCanvas struct {
	widget.BaseWidget

	s      *workbench.Session
	focus  string
	target string

	gesture   gesture
	lastPoint geom.Point

	OnStatus func(string)
}

type gesture int

const (
	gestureNone gesture = iota
	gestureResize
	gestureMove
	gestureIgnored
)

func NewDockCanvas(s *workbench.Session) *DockCanvas {
	dc := &DockCanvas{s: s}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (d *DockCanvas) status(msg string) {
	if d.OnStatus != nil {
		d.OnStatus(msg)
	}
}

// FocusTarget is the pane keyboard actions apply to: the selected tab of a
// focused group, else the focused pane.
func (d *DockCanvas) FocusTarget() string {
	if g, ok := d.s.Container().FindPart(d.focus).(*dock.TabGroup); ok && g.Selected() != nil {
		return g.Selected().ID()
	}
	return d.focus
}

func toPoint(p fyne.Position) geom.Point { return geom.Pt(int(p.X), int(p.Y)) }

func (d *DockCanvas) boxAt(pt geom.Point) (export.Box, bool) {
	for _, b := range d.s.Frame().Boxes {
		if b.Rect.Contains(pt) {
			return b, true
		}
	}
	return export.Box{}, false
}

// Tapped focuses the box under the pointer.
func (d *DockCanvas) Tapped(e *fyne.PointEvent) {
	b, ok := d.boxAt(toPoint(e.Position))
	if !ok {
		return
	}
	d.focus = b.ID
	d.Refresh()
}

// Dragged starts a gesture on its first event: over a sash it resizes, over
// a header it moves the part, anywhere else it is ignored.
func (d *DockCanvas) Dragged(e *fyne.DragEvent) {
	pt := toPoint(e.Position)
	if d.gesture == gestureNone {
		start := toPoint(e.Position.Subtract(fyne.NewPos(e.Dragged.DX, e.Dragged.DY)))
		d.gesture = d.begin(start)
	}
	d.lastPoint = pt
	switch d.gesture {
	case gestureResize:
		if _, err := d.s.DragResize(pt); err != nil {
			d.status(err.Error())
		}
	case gestureMove:
		if ev, ok := d.s.DragTo(pt); ok {
			d.preview(ev)
		}
	}
	d.Refresh()
}

func (d *DockCanvas) begin(start geom.Point) gesture {
	if err := d.s.BeginResize(start); err == nil {
		return gestureResize
	}
	b, ok := d.boxAt(start)
	if !ok || start.Y >= b.Rect.Y+headerHeight {
		return gestureIgnored
	}
	d.focus = b.ID
	if err := d.s.BeginDrag(b.ID, start); err != nil {
		d.status(err.Error())
		return gestureIgnored
	}
	return gestureMove
}

func (d *DockCanvas) preview(ev dnd.DropEvent) {
	d.target = ""
	if ev.DropTarget != nil {
		d.target = d.s.Container().TopLevel(ev.DropTarget).ID()
		d.status(fmt.Sprintf("drop %s of %s", ev.RelativePosition, ev.DropTarget.ID()))
		return
	}
	d.status("drop " + ev.RelativePosition.String())
}

func (d *DockCanvas) DragEnd() {
	switch d.gesture {
	case gestureResize:
		if err := d.s.EndResize(d.lastPoint); err != nil {
			d.status(err.Error())
		}
	case gestureMove:
		if _, err := d.s.Drop(d.lastPoint); err != nil && !errors.Is(err, dnd.ErrCancelled) {
			d.status(err.Error())
		}
	}
	d.gesture, d.target = gestureNone, ""
	d.Refresh()
}

// Cancel aborts an active gesture.
func (d *DockCanvas) Cancel() {
	d.s.CancelResize()
	d.s.CancelDrag()
	d.gesture, d.target = gestureIgnored, ""
	d.status("cancelled")
	d.Refresh()
}

func (d *DockCanvas) MinSize() fyne.Size { return fyne.NewSize(200, 150) }

func (d *DockCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &dockRenderer{d: d, bg: canvas.NewRectangle(colBackground)}
	r.Refresh()
	return r
}

type dockRenderer struct {
	d       *DockCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
	size    fyne.Size
}

func (r *dockRenderer) Layout(size fyne.Size) {
	if size != r.size {
		r.size = size
		r.d.s.SetBounds(geom.R(0, 0, int(size.Width), int(size.Height)))
	}
	r.bg.Resize(size)
	r.rebuild()
}

func (r *dockRenderer) MinSize() fyne.Size { return r.d.MinSize() }

func (r *dockRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.d)
}

func (r *dockRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *dockRenderer) Destroy() {}

func place(o fyne.CanvasObject, rc geom.Rect) {
	o.Move(fyne.NewPos(float32(rc.X), float32(rc.Y)))
	o.Resize(fyne.NewSize(float32(rc.W), float32(rc.H)))
}

func (r *dockRenderer) rebuild() {
	f := r.d.s.Frame()
	objs := []fyne.CanvasObject{r.bg}
	for _, b := range f.Boxes {
		body := canvas.NewRectangle(colPane)
		body.StrokeColor = colBar
		body.StrokeWidth = 1
		switch b.ID {
		case r.d.target:
			body.StrokeColor, body.StrokeWidth = colTarget, 3
		case r.d.focus:
			body.StrokeColor, body.StrokeWidth = colFocus, 2
		}
		place(body, b.Rect)

		head := canvas.NewRectangle(colHeader)
		place(head, geom.R(b.Rect.X, b.Rect.Y, b.Rect.W, min(headerHeight, b.Rect.H)))

		label := b.Label()
		if b.Zoomed {
			label += " (zoomed)"
		}
		text := canvas.NewText(label, colText)
		text.TextSize = 12
		text.Move(fyne.NewPos(float32(b.Rect.X+6), float32(b.Rect.Y+3)))
		objs = append(objs, body, head, text)
	}
	for _, bar := range f.Bars {
		rc := canvas.NewRectangle(colBar)
		place(rc, bar.Rect)
		objs = append(objs, rc)
	}
	r.objects = objs
}
