/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui is a terminal front end for a layout session. Every terminal
// cell stands for a block of layout pixels; mouse drags on pane headers move
// panes, drags on borders between panes resize them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"godockshell/internal/dnd"
	"godockshell/internal/dock"
	"godockshell/internal/export"
	"godockshell/internal/geom"
	applog "godockshell/internal/log"
	"godockshell/internal/workbench"
)

// DefaultCell is the pixel size of one terminal cell.
var DefaultCell = geom.Size{W: 8, H: 16}

// Options configures the model.
type Options struct {
	Cell geom.Size
	// SavePath receives the layout on "s"; without it "s" saves the
	// session's workspace perspective.
	SavePath string
}

// Model is the bubbletea model driving a session.
type Model struct {
	ctx  context.Context
	s    *workbench.Session
	opts Options
	log  *slog.Logger

	cols, rows int
	frame      export.Frame
	focus      string

	dragging bool
	bar      int
	target   string

	status string
	failed bool
}

func New(ctx context.Context, s *workbench.Session, opts Options) Model {
	if opts.Cell.W <= 0 || opts.Cell.H <= 0 {
		opts.Cell = DefaultCell
	}
	m := Model{ctx: ctx, s: s, opts: opts, log: applog.WithComponent("tui"), bar: -1}
	m.refresh()
	if len(m.frame.Boxes) > 0 {
		m.focus = m.frame.Boxes[0].ID
	}
	m.status = "tab focus · z zoom · h hide · x close · u/r undo/redo · s save · q quit"
	return m
}

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, s *workbench.Session, opts Options) error {
	p := tea.NewProgram(New(ctx, s, opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) refresh() { m.frame = m.s.Frame() }

// pixel maps a cell to the layout pixel at its center.
func (m Model) pixel(x, y int) geom.Point {
	cs := m.opts.Cell
	return geom.Pt(x*cs.W+cs.W/2, y*cs.H+cs.H/2)
}

func (m Model) boxAt(x, y int) (export.Box, bool) {
	for _, b := range m.frame.Boxes {
		x0, y0, x1, y1 := cellRect(b.Rect, m.opts.Cell)
		if x >= x0 && x < x1 && y >= y0 && y < y1 {
			return b, true
		}
	}
	return export.Box{}, false
}

// barAt finds a bar within half a cell of the cell at x, y and returns a
// point on it.
func (m Model) barAt(x, y int) (int, geom.Point, bool) {
	pt := m.pixel(x, y)
	cs := m.opts.Cell
	for i, b := range m.frame.Bars {
		hit := b.Rect
		if b.Orientation == dock.Vertical {
			hit = hit.Inset(-cs.W/2, 0)
		} else {
			hit = hit.Inset(0, -cs.H/2)
		}
		if !hit.Contains(pt) {
			continue
		}
		c := b.Rect.Center()
		if b.Orientation == dock.Vertical {
			return i, geom.Pt(c.X, pt.Y), true
		}
		return i, geom.Pt(pt.X, c.Y), true
	}
	return -1, geom.Point{}, false
}

// targetID resolves the focused box to the pane acted on: the selected tab of
// a group, else the box itself.
func (m Model) targetID() string {
	if g, ok := m.s.Container().FindPart(m.focus).(*dock.TabGroup); ok {
		if sel := g.Selected(); sel != nil {
			return sel.ID()
		}
	}
	return m.focus
}

func (m *Model) report(op string, err error) {
	if err != nil {
		m.status, m.failed = fmt.Sprintf("%s: %v", op, err), true
		m.log.Debug("operation failed", slog.String("op", op), slog.Any("err", err))
		return
	}
	m.status, m.failed = op, false
}

func (m *Model) cycleFocus(step int) {
	n := len(m.frame.Boxes)
	if n == 0 {
		m.focus = ""
		return
	}
	idx := 0
	for i, b := range m.frame.Boxes {
		if b.ID == m.focus {
			idx = i
			break
		}
	}
	m.focus = m.frame.Boxes[((idx+step)%n+n)%n].ID
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		h := max(m.rows-1, 1)
		m.s.SetBounds(geom.R(0, 0, m.cols*m.opts.Cell.W, h*m.opts.Cell.H))
	case tea.KeyMsg:
		if cmd := m.key(msg.String()); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	m.refresh()
	if _, ok := m.boxByID(m.focus); !ok {
		m.cycleFocus(0)
	}
	return m, nil
}

func (m Model) boxByID(id string) (export.Box, bool) {
	for _, b := range m.frame.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return export.Box{}, false
}

func (m *Model) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "esc":
		m.s.CancelDrag()
		m.s.CancelResize()
		m.dragging, m.bar, m.target = false, -1, ""
		m.report("cancelled", nil)
	case "z":
		m.report("zoom", m.s.ToggleZoom(m.targetID()))
	case "h":
		m.report("hide "+m.targetID(), m.s.Hide(m.targetID()))
	case "x":
		m.report("close "+m.targetID(), m.s.Close(m.targetID()))
	case "u":
		m.report("undo", m.s.Undo())
	case "r":
		m.report("redo", m.s.Redo())
	case "s":
		m.report("save", m.save())
	}
	return nil
}

func (m *Model) save() error {
	if m.opts.SavePath != "" {
		return m.s.SaveFile(m.opts.SavePath)
	}
	_, err := m.s.SavePerspective(m.ctx, "")
	return err
}

func (m *Model) mouse(msg tea.MouseMsg) {
	pt := m.pixel(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if i, on, ok := m.barAt(msg.X, msg.Y); ok {
			if err := m.s.BeginResize(on); err != nil {
				m.report("resize", err)
				return
			}
			m.bar = i
			return
		}
		b, ok := m.boxAt(msg.X, msg.Y)
		if !ok {
			return
		}
		m.focus = b.ID
		_, y0, _, _ := cellRect(b.Rect, m.opts.Cell)
		if msg.Y != y0 {
			return
		}
		if err := m.s.BeginDrag(b.ID, pt); err != nil {
			m.report("drag", err)
			return
		}
		m.dragging = true
	case tea.MouseActionMotion:
		switch {
		case m.s.Resizing():
			if _, err := m.s.DragResize(pt); err != nil {
				m.report("resize", err)
			}
		case m.dragging:
			if ev, ok := m.s.DragTo(pt); ok {
				m.preview(ev)
			}
		}
	case tea.MouseActionRelease:
		switch {
		case m.s.Resizing():
			m.report("resize", m.s.EndResize(pt))
			m.bar = -1
		case m.dragging:
			ev, err := m.s.Drop(pt)
			m.dragging, m.target = false, ""
			if errors.Is(err, dnd.ErrCancelled) {
				return
			}
			m.report("drop "+describe(ev), err)
		}
	}
}

func (m *Model) preview(ev dnd.DropEvent) {
	m.target = ""
	if ev.DropTarget != nil {
		m.target = m.s.Container().TopLevel(ev.DropTarget).ID()
	}
	m.report("drop "+describe(ev)+"?", nil)
}

func describe(ev dnd.DropEvent) string {
	if ev.DropTarget == nil {
		return ev.RelativePosition.String()
	}
	return ev.RelativePosition.String() + " of " + ev.DropTarget.ID()
}

func (m Model) View() string {
	if m.cols == 0 || m.rows == 0 {
		return "starting…"
	}
	g := render(m.frame, m.cols, m.rows-1, m.opts.Cell, paint{focus: m.focus, target: m.target, bar: m.bar})
	status := m.status
	if w := m.cols; len([]rune(status)) > w {
		status = string([]rune(status)[:w])
	}
	status += strings.Repeat(" ", max(m.cols-len([]rune(status)), 0))
	st := statusStyle
	if m.failed {
		st = errorStyle
	}
	return g.styled() + "\n" + st.Render(status)
}
