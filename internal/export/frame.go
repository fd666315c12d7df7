/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders wireframes of a computed layout: every visible pane
// and tab group as a labelled box, every visible sash as a bar.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

// Color is an 8-bit RGBA color.
type Color struct{ R, G, B, A uint8 }

// Style controls the wireframe colors. Zero fields take defaults.
type Style struct {
	Background Color
	PaneStroke Color
	PaneFill   Color
	TabFill    Color
	SashFill   Color
	Text       Color
}

// DefaultStyle is a light theme wireframe.
func DefaultStyle() Style {
	return Style{
		Background: Color{240, 240, 240, 255},
		PaneStroke: Color{40, 40, 40, 255},
		PaneFill:   Color{255, 255, 255, 255},
		TabFill:    Color{210, 222, 240, 255},
		SashFill:   Color{160, 160, 160, 255},
		Text:       Color{0, 0, 0, 255},
	}
}

func (s Style) orDefault() Style {
	d := DefaultStyle()
	pick := func(c, def Color) Color {
		if c == (Color{}) {
			return def
		}
		return c
	}
	return Style{
		Background: pick(s.Background, d.Background),
		PaneStroke: pick(s.PaneStroke, d.PaneStroke),
		PaneFill:   pick(s.PaneFill, d.PaneFill),
		TabFill:    pick(s.TabFill, d.TabFill),
		SashFill:   pick(s.SashFill, d.SashFill),
		Text:       pick(s.Text, d.Text),
	}
}

// Box kinds.
const (
	KindPane = "pane"
	KindTabs = "tabs"
)

// Box is one visible part of the layout.
type Box struct {
	ID    string
	Title string
	Kind  string
	Rect  geom.Rect
	// Tabs holds the tab titles of a tab group; Selected indexes into it.
	Tabs     []string
	Selected int
	Zoomed   bool
}

// Bar is one visible sash.
type Bar struct {
	Rect        geom.Rect
	Orientation dock.Orientation
	Ratio       float64
}

// Frame is a snapshot of laid-out geometry, independent of the live tree.
type Frame struct {
	Bounds geom.Rect
	Boxes  []Box
	Bars   []Bar
	Zoomed string
}

// FrameOf captures the geometry currently laid out in c. Placeholders and
// parts with empty bounds are left out.
func FrameOf(c *dock.SashContainer) Frame {
	f := Frame{Bounds: c.Bounds()}
	if z := c.Zoomed(); z != nil {
		f.Zoomed = z.ID()
	}
	var visit func(n dock.Node)
	visit = func(n dock.Node) {
		switch n := n.(type) {
		case *dock.Leaf:
			p := n.Part()
			if dock.IsPlaceholder(p) || p.Bounds().Empty() {
				return
			}
			f.Boxes = append(f.Boxes, boxOf(p, f.Zoomed))
		case *dock.Fork:
			visit(n.Left())
			visit(n.Right())
			if s := n.Sash(); s.Visible() && !s.Bounds().Empty() {
				f.Bars = append(f.Bars, Bar{Rect: s.Bounds(), Orientation: s.Orientation(), Ratio: s.Ratio()})
			}
		}
	}
	if root := c.Root(); root != nil {
		visit(root)
	}
	return f
}

func boxOf(p dock.Part, zoomed string) Box {
	b := Box{ID: p.ID(), Kind: KindPane, Rect: p.Bounds(), Title: titleOf(p), Selected: -1, Zoomed: p.ID() == zoomed}
	if g, ok := p.(*dock.TabGroup); ok {
		b.Kind = KindTabs
		for i, t := range g.Children() {
			b.Tabs = append(b.Tabs, titleOf(t))
			if t == g.Selected() {
				b.Selected = i
			}
		}
		if sel := g.Selected(); sel != nil {
			b.Title = titleOf(sel)
		}
	}
	return b
}

func titleOf(p dock.Part) string {
	if t, ok := p.(interface{ Title() string }); ok && t.Title() != "" {
		return t.Title()
	}
	return p.ID()
}

// Label is the text drawn in a box header.
func (b Box) Label() string {
	if b.Kind != KindTabs || len(b.Tabs) == 0 {
		return b.Title
	}
	parts := make([]string, len(b.Tabs))
	for i, t := range b.Tabs {
		if i == b.Selected {
			parts[i] = "[" + t + "]"
		} else {
			parts[i] = t
		}
	}
	return strings.Join(parts, " | ")
}

// WriteFile renders f to path in the format named by its extension.
func WriteFile(path string, f Frame, st Style) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		err = WritePDF(out, f, st)
	case ".png":
		err = WritePNG(out, f, st)
	case ".svg":
		err = WriteSVG(out, f, st)
	default:
		err = fmt.Errorf("unknown export format %q", filepath.Ext(path))
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
