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

// Orientation of a sash. A Vertical sash is a vertical bar dividing its area
// into a left and a right half; a Horizontal sash divides top from bottom.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// SashThickness is the width in pixels of the draggable bar between siblings.
const SashThickness = 3

const (
	minRatioFloor   = 0.05
	maxRatioCeiling = 0.95
	defaultRatio    = 0.5
)

// Sash is the split stored on a fork: its orientation and the fraction of the
// extent given to the left/top child.
type Sash struct {
	orientation Orientation
	ratio       float64
	bounds      geom.Rect
	visible     bool
	disposed    bool

	// limits cached between BeginSashDrag and the end of the drag.
	dragging   bool
	minRatio   float64
	maxRatio   float64
	dragOrigin int
	dragExtent int
}

// NewSash returns a sash; ratios outside the open interval (0,1) fall back to 0.5.
func NewSash(o Orientation, ratio float64) *Sash {
	return &Sash{orientation: o, ratio: sanitizeRatio(ratio)}
}

func sanitizeRatio(r float64) float64 {
	if math.IsNaN(r) || r <= 0 || r >= 1 {
		return defaultRatio
	}
	return r
}

func (s *Sash) Orientation() Orientation { return s.orientation }
func (s *Sash) Ratio() float64 { return s.ratio }
func (s *Sash) Bounds() geom.Rect { return s.bounds }
func (s *Sash) Visible() bool { return s.visible }
func (s *Sash) Disposed() bool { return s.disposed }
func (s *Sash) Dragging() bool { return s.dragging }

// SetRatio stores r when it lies in (0,1) and reports whether it did. The tree
// is not relaid out; callers go through the container for that.
func (s *Sash) SetRatio(r float64) bool {
	if math.IsNaN(r) || r <= 0 || r >= 1 {
		return false
	}
	s.ratio = r
	return true
}

// Limits returns the ratio range cached for the current drag.
func (s *Sash) Limits() (lo, hi float64) { return s.minRatio, s.maxRatio }

func (s *Sash) dispose() {
	s.disposed = true
	s.visible = false
	s.dragging = false
	s.bounds = geom.Rect{}
}

// extent is the length of r along the axis this sash divides.
func (o Orientation) extent(r geom.Rect) int {
	if o == Vertical {
		return r.W
	}
	return r.H
}

func (o Orientation) origin(r geom.Rect) int {
	if o == Vertical {
		return r.X
	}
	return r.Y
}

// slice cuts [off, off+length) along the axis out of r.
func (o Orientation) slice(r geom.Rect, off, length int) geom.Rect {
	if o == Vertical {
		return geom.R(r.X+off, r.Y, length, r.H)
	}
	return geom.R(r.X, r.Y+off, r.W, length)
}

func (o Orientation) coord(p geom.Point) int {
	if o == Vertical {
		return p.X
	}
	return p.Y
}
