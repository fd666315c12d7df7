/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"fmt"
	"slices"

	"godockshell/internal/geom"
)

// TabGroup is a container-capable part holding an ordered list of tabs with at
// most one selected. The selected tab receives the group's full bounds; the
// others are hidden.
type TabGroup struct {
	id        string
	tabs      []Part
	selected  int
	bounds    geom.Rect
	visible   bool
	zoomed    bool
	disposed  bool
	container Container
}

// NewTabGroup returns a group holding tabs in order with the first selected.
func NewTabGroup(id string, tabs ...Part) *TabGroup {
	g := &TabGroup{id: id, selected: -1}
	for _, t := range tabs {
		_ = g.Add(t)
	}
	return g
}

func (g *TabGroup) ID() string { return g.id }
func (g *TabGroup) Visible() bool { return g.visible }
func (g *TabGroup) Bounds() geom.Rect { return g.bounds }
func (g *TabGroup) Container() Container { return g.container }
func (g *TabGroup) SetContainer(c Container) { g.container = c }
func (g *TabGroup) IsContainerCapable() bool { return true }
func (g *TabGroup) Zoomed() bool { return g.zoomed }
func (g *TabGroup) SetZoomed(z bool) { g.zoomed = z }
func (g *TabGroup) Len() int { return len(g.tabs) }
func (g *TabGroup) Disposed() bool { return g.disposed }

// MinSize is the largest minimum of any tab, since only one is shown at a time.
func (g *TabGroup) MinSize() geom.Size {
	var s geom.Size
	for _, t := range g.tabs {
		m := t.MinSize()
		s.W = max(s.W, m.W)
		s.H = max(s.H, m.H)
	}
	return s
}

func (g *TabGroup) SetVisible(v bool) {
	g.visible = v
	g.refresh()
}

func (g *TabGroup) SetBounds(r geom.Rect) {
	g.bounds = r
	g.refresh()
}

func (g *TabGroup) Children() []Part { return slices.Clone(g.tabs) }

// Selected returns the selected tab or nil for an empty group.
func (g *TabGroup) Selected() Part {
	if g.selected < 0 || g.selected >= len(g.tabs) {
		return nil
	}
	return g.tabs[g.selected]
}

func (g *TabGroup) IndexOf(p Part) int {
	for i, t := range g.tabs {
		if t == p {
			return i
		}
	}
	return -1
}

// Add appends p. The first tab added becomes the selection.
func (g *TabGroup) Add(p Part) error {
	return g.Insert(p, len(g.tabs))
}

// Insert places p at index, clamped to the tab range.
func (g *TabGroup) Insert(p Part, index int) error {
	if p == nil {
		return ErrNilPart
	}
	if g.IndexOf(p) >= 0 {
		return ErrAlreadyChild
	}
	index = min(max(index, 0), len(g.tabs))
	g.tabs = slices.Insert(g.tabs, index, p)
	p.SetContainer(g)
	switch {
	case g.selected < 0:
		g.selected = index
	case index <= g.selected:
		g.selected++
	}
	g.refresh()
	return nil
}

// Remove detaches p. When the selected tab goes, its right neighbour (or the
// new last tab) takes the selection.
func (g *TabGroup) Remove(p Part) error {
	i := g.IndexOf(p)
	if i < 0 {
		return notAChild("remove tab", p)
	}
	g.tabs = slices.Delete(g.tabs, i, i+1)
	p.SetContainer(nil)
	p.SetVisible(false)
	switch {
	case len(g.tabs) == 0:
		g.selected = -1
	case i < g.selected:
		g.selected--
	case i == g.selected:
		g.selected = min(i, len(g.tabs)-1)
	}
	g.refresh()
	return nil
}

func (g *TabGroup) Replace(old, new Part) error {
	if old == nil || new == nil {
		return ErrNilPart
	}
	i := g.IndexOf(old)
	if i < 0 {
		return notAChild("replace tab", old)
	}
	if old == new {
		return nil
	}
	if g.IndexOf(new) >= 0 {
		return ErrAlreadyChild
	}
	g.tabs[i] = new
	old.SetContainer(nil)
	old.SetVisible(false)
	new.SetContainer(g)
	g.refresh()
	return nil
}

// Select makes p the visible tab.
func (g *TabGroup) Select(p Part) error {
	i := g.IndexOf(p)
	if i < 0 {
		return notAChild("select tab", p)
	}
	g.selected = i
	g.refresh()
	return nil
}

// MoveTab reorders p to index; the selection follows the selected part.
func (g *TabGroup) MoveTab(p Part, index int) error {
	i := g.IndexOf(p)
	if i < 0 {
		return notAChild("move tab", p)
	}
	sel := g.Selected()
	g.tabs = slices.Delete(g.tabs, i, i+1)
	index = min(max(index, 0), len(g.tabs))
	g.tabs = slices.Insert(g.tabs, index, p)
	g.selected = g.IndexOf(sel)
	return nil
}

func (g *TabGroup) Dispose() {
	for _, t := range g.tabs {
		t.SetContainer(nil)
	}
	g.tabs = nil
	g.selected = -1
	g.disposed = true
	g.container = nil
}

func (g *TabGroup) String() string {
	return fmt.Sprintf("TabGroup(%s, %d tabs)", g.id, len(g.tabs))
}

func (g *TabGroup) refresh() {
	for i, t := range g.tabs {
		if i == g.selected && g.visible {
			t.SetVisible(true)
			t.SetBounds(g.bounds)
			continue
		}
		t.SetVisible(false)
	}
}
