/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

// Stack puts p into a tab group with ref. A plain ref is first wrapped in a
// new group occupying its leaf; a group ref simply gains p. When p is itself a
// tab group, each of its tabs is moved over and its old selection is kept
// selected. Groups emptied by the move are removed from the layout.
func (c *SashContainer) Stack(p, ref Part) error {
	if p == nil || ref == nil {
		return ErrNilPart
	}
	if p == ref {
		return ErrSamePart
	}
	if IsPlaceholder(p) || IsPlaceholder(ref) {
		return ErrPlaceholder
	}
	if !c.IsChild(ref) {
		return notAChild("stack", ref)
	}
	if g, ok := ref.(*TabGroup); ok && g.IndexOf(p) >= 0 {
		return ErrAlreadyChild
	}
	c.unzoomForMutation()

	var target Part = ref
	var focus Part
	if src, ok := p.(*TabGroup); ok {
		focus = src.Selected()
		tabs := src.Children()
		c.detach(src)
		for _, t := range tabs {
			_ = src.Remove(t)
			target = c.stackInto(t, target)
		}
		src.Dispose()
	} else {
		focus = p
		c.detach(p)
		target = c.stackInto(p, target)
	}
	if g, ok := target.(*TabGroup); ok && focus != nil {
		_ = g.Select(focus)
		if f, ok := focus.(Focuser); ok {
			f.Focus()
		}
	}
	c.relayout()
	c.notify(Stacked, p)
	return nil
}

// stackInto adds p to ref, wrapping a plain ref in a new group, and returns
// the group that now holds both.
func (c *SashContainer) stackInto(p, ref Part) Part {
	if g, ok := ref.(*TabGroup); ok {
		_ = g.Add(p)
		return g
	}
	g := NewTabGroup(c.ids.Next("tabs"))
	leaf := c.root.Find(ref)
	leaf.part = g
	g.SetContainer(c)
	g.SetVisible(true)
	_ = g.Add(ref)
	_ = g.Add(p)
	return g
}

// detach takes p out of whatever holds it. A tab group left empty inside this
// container is removed and disposed.
func (c *SashContainer) detach(p Part) {
	switch owner := p.Container().(type) {
	case nil:
	case *SashContainer:
		if owner == c {
			c.root, _ = remove(c.root, p)
			p.SetContainer(nil)
			return
		}
		_ = owner.Remove(p)
	case *TabGroup:
		_ = owner.Remove(p)
		if owner.Len() == 0 && c.IsChild(owner) {
			c.root, _ = remove(c.root, owner)
			owner.Dispose()
		}
	default:
		_ = owner.Remove(p)
	}
}

// Detach is the exported form of detach for drag-and-drop: it pulls p out of
// this container or out of a tab group inside it.
func (c *SashContainer) Detach(p Part) error {
	if p == nil {
		return ErrNilPart
	}
	if c.TopLevel(p) == nil {
		return notAChild("detach", p)
	}
	c.unzoomForMutation()
	c.detach(p)
	c.relayout()
	c.notify(Removed, p)
	return nil
}
