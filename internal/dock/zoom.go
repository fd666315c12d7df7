/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import "godockshell/internal/geom"

type zoomState struct {
	part       Part
	standIn    *Placeholder
	unzoomRoot Node
	bounds     geom.Rect
}

// Zoomed returns the zoomed part, or nil.
func (c *SashContainer) Zoomed() Part {
	if c.zoom == nil {
		return nil
	}
	return c.zoom.part
}

func (c *SashContainer) IsZoomed() bool { return c.zoom != nil }

// ZoomIn makes p fill the whole container. The rest of the tree is collapsed
// and kept aside with a placeholder holding p's spot. A sash drag in progress
// is cancelled.
func (c *SashContainer) ZoomIn(p Part) error {
	if c.zoom != nil {
		return ErrAlreadyZoomed
	}
	if p == nil {
		return ErrNilPart
	}
	if IsPlaceholder(p) {
		return ErrPlaceholder
	}
	if !c.IsChild(p) {
		return notAChild("zoom", p)
	}
	c.CancelSashDrag()
	leaf := c.root.Find(p)
	standIn := NewPlaceholder(c.ids.Next("zoom"))
	standIn.SetContainer(c)
	leaf.part = standIn

	c.zoom = &zoomState{part: p, standIn: standIn, unzoomRoot: c.root, bounds: c.bounds}
	for _, l := range leaves(c.root) {
		l.part.SetVisible(false)
	}
	c.root.SetBounds(geom.Rect{})

	c.root = &Leaf{part: p}
	if z, ok := p.(Zoomer); ok {
		z.SetZoomed(true)
	}
	p.SetVisible(true)
	c.relayout()
	c.notify(ZoomedIn, p)
	return nil
}

// ZoomOut restores the tree saved by ZoomIn and lays it out again.
func (c *SashContainer) ZoomOut() error {
	if c.zoom == nil {
		return ErrNotZoomed
	}
	p := c.zoom.part
	c.zoomOut()
	c.notify(ZoomedOut, p)
	return nil
}

func (c *SashContainer) zoomOut() {
	z := c.zoom
	c.zoom = nil
	c.drag = nil
	leaf := z.unzoomRoot.Find(z.standIn)
	leaf.part = z.part
	z.standIn.Dispose()
	c.root = z.unzoomRoot
	if zr, ok := z.part.(Zoomer); ok {
		zr.SetZoomed(false)
	}
	for _, l := range leaves(c.root) {
		if !IsPlaceholder(l.part) {
			l.part.SetVisible(true)
		}
	}
	c.relayout()
}
