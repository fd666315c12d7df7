/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import "godockshell/internal/geom"

// Part is anything that can occupy a leaf of the sash tree.
type Part interface {
	ID() string
	MinSize() geom.Size
	Visible() bool
	SetVisible(bool)
	Bounds() geom.Rect
	SetBounds(geom.Rect)
	// Container is the back-reference to the owning container, nil when
	// detached. The engine keeps it in sync on every structural change.
	Container() Container
	SetContainer(Container)
	// IsContainerCapable reports whether the part can itself hold parts
	// (a tab group); drag validation uses it.
	IsContainerCapable() bool
	Dispose()
}

// Container is the structural surface shared by the sash container and tab
// groups.
type Container interface {
	Children() []Part
	Add(Part) error
	Remove(Part) error
	Replace(old, new Part) error
}

// Widget is the optional host-toolkit collaborator behind a pane.
type Widget interface {
	SetBounds(geom.Rect)
	SetVisible(bool)
	Focus()
}

// Focuser is implemented by parts that can take keyboard focus.
type Focuser interface {
	Focus()
}

// Zoomer is implemented by parts that track whether they are the zoomed part.
type Zoomer interface {
	Zoomed() bool
	SetZoomed(bool)
}

// IsPlaceholder reports whether p is a Placeholder.
func IsPlaceholder(p Part) bool {
	_, ok := p.(*Placeholder)
	return ok
}

// Pane is the ordinary leaf content: a titled view with a minimum size.
type Pane struct {
	id        string
	title     string
	minSize   geom.Size
	visible   bool
	zoomed    bool
	disposed  bool
	bounds    geom.Rect
	container Container
	widget    Widget
}

func NewPane(id, title string, minSize geom.Size) *Pane {
	return &Pane{id: id, title: title, minSize: minSize}
}

func (p *Pane) ID() string { return p.id }
func (p *Pane) Title() string { return p.title }
func (p *Pane) SetTitle(t string) { p.title = t }
func (p *Pane) MinSize() geom.Size { return p.minSize }
func (p *Pane) SetMinSize(s geom.Size) { p.minSize = s }
func (p *Pane) Visible() bool { return p.visible }
func (p *Pane) Bounds() geom.Rect { return p.bounds }
func (p *Pane) Container() Container { return p.container }
func (p *Pane) SetContainer(c Container) { p.container = c }
func (p *Pane) IsContainerCapable() bool { return false }
func (p *Pane) Zoomed() bool { return p.zoomed }
func (p *Pane) SetZoomed(z bool) { p.zoomed = z }
func (p *Pane) Disposed() bool { return p.disposed }
func (p *Pane) Widget() Widget { return p.widget }

// SetWidget attaches the host collaborator and pushes the current state to it.
func (p *Pane) SetWidget(w Widget) {
	p.widget = w
	if w != nil {
		w.SetVisible(p.visible)
		w.SetBounds(p.bounds)
	}
}

func (p *Pane) SetVisible(v bool) {
	p.visible = v
	if p.widget != nil {
		p.widget.SetVisible(v)
	}
}

func (p *Pane) SetBounds(r geom.Rect) {
	p.bounds = r
	if p.widget != nil {
		p.widget.SetBounds(r)
	}
}

func (p *Pane) Focus() {
	if p.widget != nil {
		p.widget.Focus()
	}
}

func (p *Pane) Dispose() {
	p.disposed = true
	p.widget = nil
	p.container = nil
}

// Placeholder reserves a leaf for a part that is not currently present. It has
// no minimum size, is never visible and never receives bounds.
type Placeholder struct {
	id        string
	container Container
}

func NewPlaceholder(id string) *Placeholder { return &Placeholder{id: id} }

func (p *Placeholder) ID() string { return p.id }
func (p *Placeholder) MinSize() geom.Size { return geom.Size{} }
func (p *Placeholder) Visible() bool { return false }
func (p *Placeholder) SetVisible(bool) {}
func (p *Placeholder) Bounds() geom.Rect { return geom.Rect{} }
func (p *Placeholder) SetBounds(geom.Rect) {}
func (p *Placeholder) Container() Container { return p.container }
func (p *Placeholder) SetContainer(c Container) { p.container = c }
func (p *Placeholder) IsContainerCapable() bool { return false }
func (p *Placeholder) Dispose() { p.container = nil }
