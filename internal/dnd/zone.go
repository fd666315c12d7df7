/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dnd classifies pointer positions during a pane drag, decides
// whether a drop is allowed and applies it to a dock.SashContainer.
//
// The interactive gesture is an explicit state machine (Tracker) fed with
// pointer positions by the host; nothing here blocks or owns an event loop.
package dnd

import (
	"math"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

// DropZone is the classified outcome of a pointer position.
type DropZone int

const (
	Center DropZone = iota
	Left
	Right
	Top
	Bottom
	Offscreen
	Invalid
)

var zoneNames = [...]string{"center", "left", "right", "top", "bottom", "offscreen", "invalid"}

func (z DropZone) String() string {
	if z < Center || z > Invalid {
		return "unknown"
	}
	return zoneNames[z]
}

// Relationship maps an edge zone to the placement it asks for.
func (z DropZone) Relationship() (dock.Relationship, bool) {
	switch z {
	case Left:
		return dock.Left, true
	case Right:
		return dock.Right, true
	case Top:
		return dock.Top, true
	case Bottom:
		return dock.Bottom, true
	}
	return 0, false
}

// IsEdge reports whether z is one of the four split zones.
func (z DropZone) IsEdge() bool {
	_, ok := z.Relationship()
	return ok
}

// edgeMargin caps the width of the edge bands around the center zone.
const edgeMargin = 10.0

// Classify maps p to a zone of target. Both are in the same coordinate space.
// Points inside the target shrunk by min(w/3, 10) horizontally and
// min(h/3, 10) vertically are Center. The rest are bucketed by the angle of
// the point around the target center, scaled by the target's aspect so the
// bucket borders run along the diagonals of the target rather than at 45°.
func Classify(p geom.Point, target geom.Rect) DropZone {
	if target.Empty() {
		return Invalid
	}
	w, h := float64(target.W), float64(target.H)
	x, y := float64(p.X-target.X), float64(p.Y-target.Y)

	mx, my := math.Min(w/3, edgeMargin), math.Min(h/3, edgeMargin)
	if x >= mx && x < w-mx && y >= my && y < h-my {
		return Center
	}

	cx, cy := x-w/2, y-h/2
	angle := math.Atan2(cy*w, cx*h) * 180 / math.Pi
	switch {
	case angle >= -135 && angle < -45:
		return Top
	case angle > -45 && angle < 45:
		return Right
	case angle > 45 && angle < 135:
		return Bottom
	default:
		return Left
	}
}
