/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"log/slog"

	"godockshell/internal/geom"
	applog "godockshell/internal/log"
)

// ChangeKind names the structural or geometric event a container reports.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Replaced
	Moved
	Stacked
	ZoomedIn
	ZoomedOut
	Resized
)

var changeNames = [...]string{"added", "removed", "replaced", "moved", "stacked", "zoomed-in", "zoomed-out", "resized"}

func (k ChangeKind) String() string {
	if k < Added || k > Resized {
		return "unknown"
	}
	return changeNames[k]
}

// Change is delivered to OnChange observers after a mutation has completed.
type Change struct {
	Kind   ChangeKind
	PartID string
}

// Options configures a SashContainer.
type Options struct {
	// IDs allocates ids for engine-created tab groups and placeholders.
	// Defaults to UUIDAllocator.
	IDs    IDAllocator
	Logger *slog.Logger
}

// SashContainer owns a sash tree and the bounds it is laid out into.
type SashContainer struct {
	root      Node
	bounds    geom.Rect
	zoom      *zoomState
	ids       IDAllocator
	log       *slog.Logger
	drag      *Fork
	observers []func(Change)
}

var _ Container = (*SashContainer)(nil)

func NewSashContainer(opts Options) *SashContainer {
	c := &SashContainer{ids: opts.IDs, log: opts.Logger}
	if c.ids == nil {
		c.ids = UUIDAllocator{}
	}
	if c.log == nil {
		c.log = applog.WithComponent("dock")
	}
	return c
}

// OnChange registers fn to run after every completed mutation.
func (c *SashContainer) OnChange(fn func(Change)) {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
}

func (c *SashContainer) notify(kind ChangeKind, p Part) {
	ch := Change{Kind: kind}
	if p != nil {
		ch.PartID = p.ID()
	}
	c.log.Debug("layout changed", slog.String("kind", kind.String()), slog.String("part", ch.PartID))
	for _, fn := range c.observers {
		fn(ch)
	}
}

// Root returns the tree currently laid out: the zoom tree while zoomed.
func (c *SashContainer) Root() Node { return c.root }

func (c *SashContainer) Bounds() geom.Rect { return c.bounds }

// SetBounds stores r and lays the tree out into it.
func (c *SashContainer) SetBounds(r geom.Rect) {
	c.bounds = r
	c.relayout()
}

// Layout recomputes geometry for the current bounds.
func (c *SashContainer) Layout() { c.relayout() }

func (c *SashContainer) relayout() {
	if c.root != nil {
		c.root.SetBounds(c.bounds)
	}
}

// structure is the tree that owns every part, which differs from Root while
// zoomed.
func (c *SashContainer) structure() Node {
	if c.zoom != nil {
		return c.zoom.unzoomRoot
	}
	return c.root
}

// leafOf returns the structural leaf of p, resolving the zoom stand-in.
func (c *SashContainer) leafOf(p Part) *Leaf {
	if p == nil {
		return nil
	}
	root := c.structure()
	if root == nil {
		return nil
	}
	if z := c.zoom; z != nil {
		if p == z.standIn {
			return nil
		}
		if p == z.part {
			return root.Find(z.standIn)
		}
	}
	return root.Find(p)
}

// IsChild reports whether p occupies a leaf of this container.
func (c *SashContainer) IsChild(p Part) bool { return c.leafOf(p) != nil }

// Children lists the parts in left-to-right tree order, placeholders included.
func (c *SashContainer) Children() []Part {
	var out []Part
	for _, l := range leaves(c.structure()) {
		p := l.part
		if c.zoom != nil && p == c.zoom.standIn {
			p = c.zoom.part
		}
		out = append(out, p)
	}
	return out
}

// VisibleParts lists the non-placeholder children.
func (c *SashContainer) VisibleParts() []Part {
	var out []Part
	for _, p := range c.Children() {
		if !IsPlaceholder(p) {
			out = append(out, p)
		}
	}
	return out
}

// FindPart looks id up among the children and the tabs of child tab groups.
func (c *SashContainer) FindPart(id string) Part {
	for _, p := range c.Children() {
		if p.ID() == id {
			return p
		}
		if g, ok := p.(*TabGroup); ok {
			for _, t := range g.tabs {
				if t.ID() == id {
					return t
				}
			}
		}
	}
	return nil
}

// TopLevel maps p to the child that holds it: p itself, or the tab group p is
// a tab of. It returns nil when p is not in this container at all.
func (c *SashContainer) TopLevel(p Part) Part {
	if c.IsChild(p) {
		return p
	}
	if p == nil {
		return nil
	}
	if g, ok := p.Container().(*TabGroup); ok && c.IsChild(g) {
		return g
	}
	return nil
}

// PartAt returns the visible child whose bounds contain pt.
func (c *SashContainer) PartAt(pt geom.Point) Part {
	for _, l := range leaves(c.root) {
		if l.IsVisible() && l.bounds.Contains(pt) {
			return l.part
		}
	}
	return nil
}

// Sashes lists the sashes of the laid-out tree.
func (c *SashContainer) Sashes() []*Sash {
	var out []*Sash
	walk(c.root, func(n Node) {
		if f, ok := n.(*Fork); ok {
			out = append(out, f.sash)
		}
	})
	return out
}

// SashAt returns the visible sash whose bar contains pt.
func (c *SashContainer) SashAt(pt geom.Point) *Sash {
	for _, s := range c.Sashes() {
		if s.visible && s.bounds.Contains(pt) {
			return s
		}
	}
	return nil
}

// Relationships flattens the structural tree into records that rebuild it when
// replayed through AddRelative in order. The first record is the anchor.
func (c *SashContainer) Relationships() []RelationshipInfo {
	out := Flatten(c.structure())
	if z := c.zoom; z != nil {
		for i := range out {
			if out[i].Part == z.standIn {
				out[i].Part = z.part
			}
			if out[i].Relative == z.standIn {
				out[i].Relative = z.part
			}
		}
	}
	return out
}

func (c *SashContainer) adopt(p Part) {
	p.SetContainer(c)
	if !IsPlaceholder(p) {
		p.SetVisible(true)
	}
}

func (c *SashContainer) release(p Part) {
	p.SetContainer(nil)
	p.SetVisible(false)
}

// unzoomForMutation restores the full tree before a structural change.
func (c *SashContainer) unzoomForMutation() {
	if c.zoom != nil {
		c.zoomOut()
	}
}

// Add places p into the layout. A part already held by the container, as a
// child or as a tab of a child group, is rejected. A placeholder with p's id is
// replaced in place;
// otherwise p goes to the right of the bottom-right visible part at half its
// width.
func (c *SashContainer) Add(p Part) error {
	if p == nil {
		return ErrNilPart
	}
	if c.TopLevel(p) != nil {
		return ErrAlreadyChild
	}
	c.unzoomForMutation()
	if !IsPlaceholder(p) {
		if ph := c.findPlaceholder(p.ID()); ph != nil {
			c.swap(ph, p)
			c.relayout()
			c.notify(Added, p)
			return nil
		}
	}
	if c.root == nil {
		c.root = newLeaf(p)
	} else {
		c.root = insert(c.root, p, false, NewSash(Vertical, defaultRatio), c.root.FindBottomRight())
	}
	c.adopt(p)
	c.relayout()
	c.notify(Added, p)
	return nil
}

// AddRelative places p at rel of relative, giving the left/top side ratio of
// the split. A nil relative splits the whole tree. The first part added to an
// empty container becomes the root and ignores rel.
func (c *SashContainer) AddRelative(p Part, rel Relationship, ratio float64, relative Part) error {
	if p == nil {
		return ErrNilPart
	}
	if c.TopLevel(p) != nil {
		return ErrAlreadyChild
	}
	if relative != nil && !c.IsChild(relative) {
		return notAChild("add relative", relative)
	}
	c.unzoomForMutation()
	c.root = insert(c.root, p, rel.placesFirst(), NewSash(rel.Orientation(), ratio), relative)
	c.adopt(p)
	c.relayout()
	c.notify(Added, p)
	return nil
}

// Remove cuts p out of the layout; its sibling takes over the parent's space.
func (c *SashContainer) Remove(p Part) error {
	if !c.IsChild(p) {
		return notAChild("remove", p)
	}
	c.unzoomForMutation()
	c.root, _ = remove(c.root, p)
	c.release(p)
	c.relayout()
	c.notify(Removed, p)
	return nil
}

// Replace puts n into old's leaf. Ratios are untouched.
func (c *SashContainer) Replace(old, n Part) error {
	if old == nil || n == nil {
		return ErrNilPart
	}
	if !c.IsChild(old) {
		return notAChild("replace", old)
	}
	if old == n {
		return nil
	}
	if c.TopLevel(n) != nil {
		return ErrAlreadyChild
	}
	c.unzoomForMutation()
	c.swap(old, n)
	c.relayout()
	c.notify(Replaced, n)
	return nil
}

// Hide swaps p for a placeholder with the same id so a later Add of p lands in
// the same spot.
func (c *SashContainer) Hide(p Part) error {
	if IsPlaceholder(p) {
		return ErrPlaceholder
	}
	if !c.IsChild(p) {
		return notAChild("hide", p)
	}
	return c.Replace(p, NewPlaceholder(p.ID()))
}

func (c *SashContainer) swap(old, n Part) {
	l := c.root.Find(old)
	l.part = n
	if IsPlaceholder(old) {
		old.SetContainer(nil)
	} else {
		c.release(old)
	}
	c.adopt(n)
	if IsPlaceholder(n) {
		l.bounds = geom.Rect{}
	}
}

func (c *SashContainer) findPlaceholder(id string) *Placeholder {
	for _, l := range leaves(c.root) {
		if ph, ok := l.part.(*Placeholder); ok && ph.id == id {
			return ph
		}
	}
	return nil
}

// Move relocates p to pos of relative. When both already sit on a chain of
// splits with the orientation pos needs, the chain's ratios are rebuilt from
// the pre-move pixel sizes so nothing visibly jumps; otherwise the new split is
// even.
func (c *SashContainer) Move(p Part, pos Relationship, relative Part) error {
	if p == nil || relative == nil {
		return ErrNilPart
	}
	if p == relative {
		return ErrSamePart
	}
	if !c.IsChild(p) {
		return notAChild("move", p)
	}
	if !c.IsChild(relative) {
		return notAChild("move", relative)
	}
	c.unzoomForMutation()
	o := pos.Orientation()
	compatible := c.sameOrientationChain(p, relative, o)
	c.root, _ = remove(c.root, p)
	c.root = insert(c.root, p, pos.placesFirst(), NewSash(o, defaultRatio), relative)
	if compatible {
		c.preserveExtents(p, o)
	}
	c.relayout()
	c.notify(Moved, p)
	return nil
}

// sameOrientationChain reports whether p and q meet at a common ancestor and
// every fork on both paths up to it, the ancestor included, splits along o.
func (c *SashContainer) sameOrientationChain(p, q Part, o Orientation) bool {
	lp, lq := c.root.Find(p), c.root.Find(q)
	if lp == nil || lq == nil {
		return false
	}
	chain := map[*Fork]bool{}
	for f := lp.parent; f != nil && f.sash.orientation == o; f = f.parent {
		chain[f] = true
	}
	for f := lq.parent; f != nil && f.sash.orientation == o; f = f.parent {
		if chain[f] {
			return true
		}
	}
	return false
}

func (c *SashContainer) preserveExtents(p Part, o Orientation) {
	leaf := c.root.Find(p)
	for f := leaf.parent; f != nil && f.sash.orientation == o; f = f.parent {
		if !f.left.IsVisible() || !f.right.IsVisible() {
			continue
		}
		l, r := desiredExtent(f.left, o), desiredExtent(f.right, o)
		if l <= 0 || r <= 0 {
			continue
		}
		f.sash.SetRatio(float64(l) / float64(l+r+SashThickness))
	}
}

// Dispose tears the tree down, detaching every part.
func (c *SashContainer) Dispose() {
	c.unzoomForMutation()
	for _, l := range leaves(c.root) {
		l.part.SetContainer(nil)
	}
	for _, s := range c.Sashes() {
		s.dispose()
	}
	c.root = nil
	c.drag = nil
}
