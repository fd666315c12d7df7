/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

// DropEvent is produced for every pointer position of a tracked drag and for
// the final release. X and Y are relative to the drop target's bounds.
type DropEvent struct {
	X, Y             int
	CursorX, CursorY int
	DragSource       dock.Part
	DropTarget       dock.Part
	RelativePosition DropZone
}

func (e DropEvent) Cursor() geom.Point { return geom.Pt(e.CursorX, e.CursorY) }

// Resolve finds the part under cursor and classifies the position against it.
// Outside the container bounds the zone is Offscreen; over a sash gap, a
// hidden region or a zero-sized target it is Invalid.
func Resolve(c *dock.SashContainer, source dock.Part, cursor geom.Point) DropEvent {
	ev := DropEvent{CursorX: cursor.X, CursorY: cursor.Y, DragSource: source}
	if !c.Bounds().Contains(cursor) {
		ev.RelativePosition = Offscreen
		return ev
	}
	target := c.PartAt(cursor)
	if target == nil {
		ev.RelativePosition = Invalid
		return ev
	}
	b := target.Bounds()
	ev.DropTarget = target
	ev.X, ev.Y = cursor.X-b.X, cursor.Y-b.Y
	if b.Empty() {
		ev.RelativePosition = Invalid
		return ev
	}
	ev.RelativePosition = Classify(cursor, b)
	return ev
}
