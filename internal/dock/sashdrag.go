/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"math"

	"godockshell/internal/geom"
)

func (c *SashContainer) forkOf(s *Sash) *Fork {
	var found *Fork
	walk(c.root, func(n Node) {
		if f, ok := n.(*Fork); ok && f.sash == s {
			found = f
		}
	})
	return found
}

// BeginSashDrag caches the ratio limits of s for the drag that follows.
func (c *SashContainer) BeginSashDrag(s *Sash) error {
	f := c.forkOf(s)
	if f == nil || !s.visible {
		return ErrUnknownSash
	}
	if c.drag != nil {
		c.drag.sash.dragging = false
	}
	s.minRatio, s.maxRatio = f.dragLimits()
	s.dragOrigin = s.orientation.origin(f.bounds)
	s.dragExtent = s.orientation.extent(f.bounds)
	s.dragging = true
	c.drag = f
	return nil
}

// DragSash clamps a pointer coordinate on the sash axis to the cached limits
// and returns where the bar should be drawn. The tree is not changed.
func (c *SashContainer) DragSash(p geom.Point) (int, error) {
	if c.drag == nil {
		return 0, ErrNoSashDrag
	}
	return c.clampDrag(p), nil
}

func (c *SashContainer) clampDrag(p geom.Point) int {
	s := c.drag.sash
	lo := s.dragOrigin + int(math.Round(s.minRatio*float64(s.dragExtent)))
	hi := s.dragOrigin + int(math.Round(s.maxRatio*float64(s.dragExtent)))
	return min(max(s.orientation.coord(p), lo), hi)
}

// EndSashDrag commits the clamped coordinate as the new ratio and relays out
// the affected subtree.
func (c *SashContainer) EndSashDrag(p geom.Point) error {
	if c.drag == nil {
		return ErrNoSashDrag
	}
	f := c.drag
	s := f.sash
	pos := c.clampDrag(p)
	if s.dragExtent > 0 {
		s.SetRatio(float64(pos-s.dragOrigin) / float64(s.dragExtent))
	}
	s.dragging = false
	c.drag = nil
	f.SetBounds(f.bounds)
	c.notify(Resized, nil)
	return nil
}

// CancelSashDrag drops the drag without touching the ratio.
func (c *SashContainer) CancelSashDrag() {
	if c.drag != nil {
		c.drag.sash.dragging = false
		c.drag = nil
	}
}

// SetSashRatio sets the ratio of s directly, clamped to its drag limits, and
// relays out. Keyboard resizing and scripted layouts use it.
func (c *SashContainer) SetSashRatio(s *Sash, ratio float64) error {
	f := c.forkOf(s)
	if f == nil {
		return ErrUnknownSash
	}
	lo, hi := f.dragLimits()
	if !s.SetRatio(min(max(ratio, lo), hi)) {
		return nil
	}
	f.SetBounds(f.bounds)
	c.notify(Resized, nil)
	return nil
}
