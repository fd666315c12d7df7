/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"errors"
	"fmt"

	"godockshell/internal/dock"
)

// ErrInvalidDrop is wrapped by every policy rejection.
var ErrInvalidDrop = errors.New("invalid drop")

func reject(reason string) error { return fmt.Errorf("%w: %s", ErrInvalidDrop, reason) }

// owningGroup returns the tab group p is a tab of, if any.
func owningGroup(p dock.Part) *dock.TabGroup {
	if p == nil {
		return nil
	}
	g, _ := p.Container().(*dock.TabGroup)
	return g
}

// Validate applies the drop policy to ev without changing anything.
func Validate(c *dock.SashContainer, ev DropEvent) error {
	switch ev.RelativePosition {
	case Offscreen:
		return reject("outside the layout")
	case Invalid:
		return reject("no target")
	}
	src, dst := ev.DragSource, ev.DropTarget
	if src == nil || dst == nil {
		return reject("missing source or target")
	}
	if dock.IsPlaceholder(src) || dock.IsPlaceholder(dst) {
		return reject("placeholder")
	}
	if sg, ok := src.(*dock.TabGroup); ok && sg.IndexOf(dst) >= 0 {
		return reject("tab group onto its own pane")
	}
	target := c.TopLevel(dst)
	if target == nil {
		return reject("target is not in the layout")
	}
	if src == target {
		if ev.RelativePosition == Center {
			return reject("onto itself")
		}
		return reject("beside itself")
	}
	group := owningGroup(src)
	if group != nil && group == target && ev.RelativePosition.IsEdge() && group.Len() <= 1 {
		return reject("detach the only tab of a group")
	}
	return nil
}

// Apply validates ev and performs the drop: a tab reorder when source and
// target share a group, a stack for Center, otherwise a move or, for tabs and
// parts from outside, an insert beside the target.
func Apply(c *dock.SashContainer, ev DropEvent) error {
	if err := Validate(c, ev); err != nil {
		return err
	}
	src := ev.DragSource
	target := c.TopLevel(ev.DropTarget)
	group := owningGroup(src)

	if ev.RelativePosition == Center {
		if group != nil && group == target {
			return group.MoveTab(src, tabIndexAt(group, ev.X))
		}
		return c.Stack(src, target)
	}
	rel, _ := ev.RelativePosition.Relationship()
	if c.IsChild(src) {
		return c.Move(src, rel, target)
	}
	if group != nil && c.TopLevel(src) != nil {
		if err := c.Detach(src); err != nil {
			return err
		}
	}
	return c.AddRelative(src, rel, 0.5, target)
}

// tabIndexAt maps a horizontal offset inside a group to a tab slot, treating
// the group's width as evenly shared by its tabs.
func tabIndexAt(g *dock.TabGroup, x int) int {
	w := g.Bounds().W
	n := g.Len()
	if w <= 0 || n == 0 {
		return n - 1
	}
	return min(max(x*n/w, 0), n-1)
}
