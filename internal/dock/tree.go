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

// Node is a vertex of the sash tree: a *Leaf or a *Fork.
type Node interface {
	Parent() *Fork
	Bounds() geom.Rect
	SetBounds(geom.Rect)
	// IsVisible reports whether any leaf below holds a non-placeholder part.
	IsVisible() bool
	MinimumWidth() int
	MinimumHeight() int
	// Find returns the leaf holding p, or nil.
	Find(p Part) *Leaf
	// FindBottomRight returns the part in the bottom-right-most visible leaf,
	// falling back to the left side when the right side is hidden.
	FindBottomRight() Part

	setParent(*Fork)
}

// Leaf holds exactly one part.
type Leaf struct {
	part   Part
	parent *Fork
	bounds geom.Rect
}

func newLeaf(p Part) *Leaf { return &Leaf{part: p, bounds: p.Bounds()} }

func (l *Leaf) Part() Part { return l.part }
func (l *Leaf) Parent() *Fork { return l.parent }
func (l *Leaf) Bounds() geom.Rect { return l.bounds }
func (l *Leaf) setParent(f *Fork) { l.parent = f }
func (l *Leaf) IsVisible() bool { return !IsPlaceholder(l.part) }
func (l *Leaf) FindBottomRight() Part { return l.part }

func (l *Leaf) SetBounds(r geom.Rect) {
	l.bounds = r
	if !IsPlaceholder(l.part) {
		l.part.SetBounds(r)
	}
}

func (l *Leaf) MinimumWidth() int {
	if !l.IsVisible() {
		return 0
	}
	return l.part.MinSize().W
}

func (l *Leaf) MinimumHeight() int {
	if !l.IsVisible() {
		return 0
	}
	return l.part.MinSize().H
}

func (l *Leaf) Find(p Part) *Leaf {
	if l.part == p {
		return l
	}
	return nil
}

// Fork has exactly two children divided by a sash.
type Fork struct {
	sash   *Sash
	left   Node
	right  Node
	parent *Fork
	bounds geom.Rect
}

func newFork(s *Sash, first, second Node) *Fork {
	f := &Fork{sash: s, left: first, right: second}
	first.setParent(f)
	second.setParent(f)
	return f
}

func (f *Fork) Sash() *Sash { return f.sash }
func (f *Fork) Left() Node { return f.left }
func (f *Fork) Right() Node { return f.right }
func (f *Fork) Parent() *Fork { return f.parent }
func (f *Fork) Bounds() geom.Rect { return f.bounds }
func (f *Fork) setParent(p *Fork) { f.parent = p }
func (f *Fork) IsVisible() bool { return f.left.IsVisible() || f.right.IsVisible() }

func (f *Fork) Find(p Part) *Leaf {
	if l := f.left.Find(p); l != nil {
		return l
	}
	return f.right.Find(p)
}

func (f *Fork) FindBottomRight() Part {
	if f.right.IsVisible() {
		return f.right.FindBottomRight()
	}
	return f.left.FindBottomRight()
}

func (f *Fork) MinimumWidth() int { return f.minimum(Vertical, Node.MinimumWidth) }

func (f *Fork) MinimumHeight() int { return f.minimum(Horizontal, Node.MinimumHeight) }

// minimum sums both sides (plus the sash) along the axis the sash divides and
// takes the larger side across it. Hidden sides count as zero.
func (f *Fork) minimum(dividing Orientation, get func(Node) int) int {
	lv, rv := f.left.IsVisible(), f.right.IsVisible()
	var l, r int
	if lv {
		l = get(f.left)
	}
	if rv {
		r = get(f.right)
	}
	if f.sash.orientation != dividing {
		return max(l, r)
	}
	if lv && rv {
		return l + r + SashThickness
	}
	return l + r
}

// axisMinimum is a child's minimum along the axis f's sash divides.
func (f *Fork) axisMinimum(n Node) int {
	if !n.IsVisible() {
		return 0
	}
	if f.sash.orientation == Vertical {
		return n.MinimumWidth()
	}
	return n.MinimumHeight()
}

func (f *Fork) SetBounds(r geom.Rect) {
	f.bounds = r
	lv, rv := f.left.IsVisible(), f.right.IsVisible()
	if !lv || !rv {
		f.sash.visible = false
		f.sash.bounds = geom.Rect{}
		switch {
		case lv:
			f.left.SetBounds(r)
			f.right.SetBounds(geom.Rect{})
		case rv:
			f.left.SetBounds(geom.Rect{})
			f.right.SetBounds(r)
		default:
			f.left.SetBounds(geom.Rect{})
			f.right.SetBounds(geom.Rect{})
		}
		return
	}
	first, bar, second := f.split(r)
	f.sash.visible = true
	f.sash.bounds = bar
	f.left.SetBounds(first)
	f.right.SetBounds(second)
}

// split divides r by the sash ratio, then grows whichever side falls below its
// minimum: the left/top side first, then the right/bottom side at the left's
// expense. An infeasible pair of minima leaves the left side short.
func (f *Fork) split(r geom.Rect) (first, bar, second geom.Rect) {
	o := f.sash.orientation
	extent := o.extent(r)
	lmin, rmin := f.axisMinimum(f.left), f.axisMinimum(f.right)

	primary := int(math.Round(f.sash.ratio * float64(extent)))
	secondary := extent - primary - SashThickness
	if primary < lmin {
		primary = lmin
		secondary = extent - primary - SashThickness
	}
	if secondary < rmin {
		secondary = rmin
		primary = extent - secondary - SashThickness
	}
	primary = min(max(primary, 0), extent)
	thickness := min(SashThickness, extent-primary)
	secondary = max(extent-primary-thickness, 0)

	first = o.slice(r, 0, primary)
	bar = o.slice(r, primary, thickness)
	second = o.slice(r, primary+thickness, secondary)
	return first, bar, second
}

func (f *Fork) other(n Node) Node {
	if f.left == n {
		return f.right
	}
	return f.left
}

func (f *Fork) replaceChild(old, n Node) {
	if f.left == old {
		f.left = n
	} else {
		f.right = n
	}
	n.setParent(f)
}

// dragLimits returns the ratio range a drag of f's sash may reach given the
// minima of both sides and f's current extent.
func (f *Fork) dragLimits() (lo, hi float64) {
	extent := float64(f.sash.orientation.extent(f.bounds))
	lo, hi = minRatioFloor, maxRatioCeiling
	if extent <= 0 {
		return lo, hi
	}
	if lmin := f.axisMinimum(f.left); lmin > 0 {
		lo = float64(lmin) / extent
	}
	if rmin := f.axisMinimum(f.right); rmin > 0 {
		hi = 1 - float64(rmin+SashThickness)/extent
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// insert places child beside relative (or beside the whole tree when relative
// is nil or absent) under a new fork carrying sash, returning the new root.
func insert(root Node, child Part, first bool, s *Sash, relative Part) Node {
	leaf := newLeaf(child)
	if root == nil {
		return leaf
	}
	var target Node = root
	if relative != nil {
		if l := root.Find(relative); l != nil {
			target = l
		}
	}
	parent := target.Parent()
	var f *Fork
	if first {
		f = newFork(s, leaf, target)
	} else {
		f = newFork(s, target, leaf)
	}
	f.bounds = target.Bounds()
	if parent == nil {
		f.parent = nil
		return f
	}
	parent.replaceChild(target, f)
	return root
}

// remove cuts p's leaf out of the tree, promoting its sibling into the parent's
// place and disposing the parent's sash. It returns the new root and whether p
// was found.
func remove(root Node, p Part) (Node, bool) {
	if root == nil {
		return nil, false
	}
	leaf := root.Find(p)
	if leaf == nil {
		return root, false
	}
	parent := leaf.parent
	leaf.parent = nil
	if parent == nil {
		return nil, true
	}
	sibling := parent.other(leaf)
	grand := parent.parent
	parent.sash.dispose()
	parent.left, parent.right, parent.parent = nil, nil, nil
	if grand == nil {
		sibling.setParent(nil)
		return sibling, true
	}
	grand.replaceChild(parent, sibling)
	return root, true
}

// walk visits every node in left-to-right depth-first order.
func walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	if f, ok := n.(*Fork); ok {
		walk(f.left, fn)
		walk(f.right, fn)
	}
}

func leaves(n Node) []*Leaf {
	var out []*Leaf
	walk(n, func(n Node) {
		if l, ok := n.(*Leaf); ok {
			out = append(out, l)
		}
	})
	return out
}

// Flatten turns the tree under root into relationship records. The first
// record anchors the layout (nil Relative); replaying the rest in order through
// AddRelative rebuilds the same shape with the same ratios.
func Flatten(root Node) []RelationshipInfo {
	if root == nil {
		return nil
	}
	var rels []RelationshipInfo
	anchor := flatten(root, &rels)
	return append([]RelationshipInfo{{Part: anchor}}, rels...)
}

// flatten appends the relations of n's subtree, prepending each fork's record
// the way a replay through AddRelative expects, and returns the part that
// anchors the subtree.
func flatten(n Node, out *[]RelationshipInfo) Part {
	switch v := n.(type) {
	case *Leaf:
		return v.part
	case *Fork:
		relative := flatten(v.left, out)
		part := flatten(v.right, out)
		rel := Right
		if v.sash.orientation == Horizontal {
			rel = Bottom
		}
		info := RelationshipInfo{Part: part, Relative: relative, Relationship: rel, Ratio: v.sash.ratio}
		*out = append([]RelationshipInfo{info}, *out...)
		return relative
	}
	return nil
}

// desiredExtent is the pixel length n occupied along o before a move, used to
// rebuild ratios so the surviving panes keep their size.
func desiredExtent(n Node, o Orientation) int {
	switch v := n.(type) {
	case *Leaf:
		if !v.IsVisible() {
			return 0
		}
		return o.extent(v.bounds)
	case *Fork:
		if v.sash.orientation != o {
			return o.extent(v.bounds)
		}
		l, r := desiredExtent(v.left, o), desiredExtent(v.right, o)
		if v.left.IsVisible() && v.right.IsVisible() {
			return l + r + SashThickness
		}
		return l + r
	}
	return 0
}
