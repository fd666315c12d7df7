/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"godockshell/internal/export"
	"godockshell/internal/geom"
)

type role uint8

const (
	roleEmpty role = iota
	roleBorder
	roleTitle
	roleFocus
	roleTarget
	roleBar
)

type cell struct {
	r    rune
	role role
}

// grid is the terminal picture of a frame, one cell per character.
type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: max(cols, 0), rows: max(rows, 0)}
	g.cells = make([]cell, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *grid) set(x, y int, r rune, ro role) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = cell{r: r, role: ro}
}

func (g *grid) at(x, y int) cell { return g.cells[y*g.cols+x] }

// cellRect maps a pixel rectangle to [x0,x1) x [y0,y1) cell bounds.
func cellRect(r geom.Rect, cs geom.Size) (x0, y0, x1, y1 int) {
	round := func(v, d int) int { return (v + d/2) / d }
	return round(r.X, cs.W), round(r.Y, cs.H), round(r.X+r.W, cs.W), round(r.Y+r.H, cs.H)
}

type paint struct {
	focus  string
	target string
	bar    int // index into Frame.Bars being dragged, or -1
}

func render(f export.Frame, cols, rows int, cs geom.Size, p paint) *grid {
	g := newGrid(cols, rows)
	for _, b := range f.Boxes {
		x0, y0, x1, y1 := cellRect(b.Rect, cs)
		x1, y1 = min(x1, cols), min(y1, rows)
		if x1-x0 < 2 || y1-y0 < 2 {
			continue
		}
		edge := roleBorder
		switch b.ID {
		case p.target:
			edge = roleTarget
		case p.focus:
			edge = roleFocus
		}
		for x := x0 + 1; x < x1-1; x++ {
			g.set(x, y0, '─', edge)
			g.set(x, y1-1, '─', edge)
		}
		for y := y0 + 1; y < y1-1; y++ {
			g.set(x0, y, '│', edge)
			g.set(x1-1, y, '│', edge)
		}
		g.set(x0, y0, '┌', edge)
		g.set(x1-1, y0, '┐', edge)
		g.set(x0, y1-1, '└', edge)
		g.set(x1-1, y1-1, '┘', edge)

		label := b.Label()
		if b.Zoomed {
			label += " (zoomed)"
		}
		title := roleTitle
		if b.ID == p.focus {
			title = roleFocus
		}
		x := x0 + 1
		for _, r := range label {
			if x >= x1-1 {
				break
			}
			g.set(x, y0, r, title)
			x++
		}
	}
	if p.bar >= 0 && p.bar < len(f.Bars) {
		bar := f.Bars[p.bar]
		x0, y0, x1, y1 := cellRect(bar.Rect, cs)
		if x1 == x0 {
			x1 = x0 + 1
		}
		if y1 == y0 {
			y1 = y0 + 1
		}
		r := '┃'
		if bar.Rect.W > bar.Rect.H {
			r = '━'
		}
		for y := y0; y < min(y1, rows); y++ {
			for x := x0; x < min(x1, cols); x++ {
				g.set(x, y, r, roleBar)
			}
		}
	}
	return g
}

// lines returns the grid as plain text rows.
func (g *grid) lines() []string {
	out := make([]string, g.rows)
	var sb strings.Builder
	for y := 0; y < g.rows; y++ {
		sb.Reset()
		for x := 0; x < g.cols; x++ {
			sb.WriteRune(g.at(x, y).r)
		}
		out[y] = sb.String()
	}
	return out
}

var (
	colorDim    = lipgloss.Color("240")
	colorText   = lipgloss.Color("252")
	colorFocus  = lipgloss.Color("86")
	colorTarget = lipgloss.Color("214")

	styles = map[role]lipgloss.Style{
		roleEmpty:  lipgloss.NewStyle(),
		roleBorder: lipgloss.NewStyle().Foreground(colorDim),
		roleTitle:  lipgloss.NewStyle().Foreground(colorText).Bold(true),
		roleFocus:  lipgloss.NewStyle().Foreground(colorFocus).Bold(true),
		roleTarget: lipgloss.NewStyle().Foreground(colorTarget).Bold(true),
		roleBar:    lipgloss.NewStyle().Foreground(colorTarget),
	}
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("250"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("124"))
)

// styled joins runs of equally styled cells.
func (g *grid) styled() string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		cur := roleEmpty
		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(styles[cur].Render(run.String()))
				run.Reset()
			}
		}
		for x := 0; x < g.cols; x++ {
			c := g.at(x, y)
			if c.role != cur {
				flush()
				cur = c.role
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return sb.String()
}
