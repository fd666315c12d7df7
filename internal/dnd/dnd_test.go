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
	"testing"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

func TestClassifySquareTarget(t *testing.T) {
	target := geom.R(0, 0, 100, 100)
	cases := []struct {
		p    geom.Point
		want DropZone
	}{
		{geom.Pt(50, 50), Center},
		{geom.Pt(95, 50), Right},
		{geom.Pt(50, 5), Top},
		{geom.Pt(50, 95), Bottom},
		{geom.Pt(5, 50), Left},
		{geom.Pt(10, 10), Center},
		{geom.Pt(89, 89), Center},
		{geom.Pt(90, 50), Right},
	}
	for _, tc := range cases {
		if got := Classify(tc.p, target); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestClassifyUsesAspectScaledAngle(t *testing.T) {
	// (250,2) sits 25° above the horizontal through the center, but on a
	// 300x100 target the scaled angle is about -55°, which is Top.
	if got := Classify(geom.Pt(250, 2), geom.R(0, 0, 300, 100)); got != Top {
		t.Fatalf("got %v, want top", got)
	}
}

func TestClassifyOffsetTargetAndSmallMargins(t *testing.T) {
	target := geom.R(200, 100, 12, 12)
	// margin is 12/3 = 4, so the inner square is [204,208)
	if got := Classify(geom.Pt(205, 105), target); got != Center {
		t.Fatalf("got %v", got)
	}
	if got := Classify(geom.Pt(211, 106), target); got != Right {
		t.Fatalf("got %v", got)
	}
	if got := Classify(geom.Pt(5, 5), geom.Rect{}); got != Invalid {
		t.Fatalf("zero target should be invalid, got %v", got)
	}
}

type fixture struct {
	c    *dock.SashContainer
	a, b *dock.Pane
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	c := dock.NewSashContainer(dock.Options{IDs: &dock.SequentialAllocator{}})
	a := dock.NewPane("a", "A", geom.Size{})
	b := dock.NewPane("b", "B", geom.Size{})
	if err := c.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(b); err != nil {
		t.Fatal(err)
	}
	c.SetBounds(geom.R(0, 0, 800, 600))
	return fixture{c: c, a: a, b: b}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	if ev := Resolve(f.c, f.a, geom.Pt(900, 10)); ev.RelativePosition != Offscreen {
		t.Fatalf("outside: %v", ev.RelativePosition)
	}
	if ev := Resolve(f.c, f.a, geom.Pt(401, 10)); ev.RelativePosition != Invalid || ev.DropTarget != nil {
		t.Fatalf("sash gap: %v", ev.RelativePosition)
	}
	ev := Resolve(f.c, f.a, geom.Pt(700, 300))
	if ev.DropTarget != f.b || ev.RelativePosition != Center || ev.X != 297 || ev.Y != 300 {
		t.Fatalf("center of b: %+v", ev)
	}
	if ev := Resolve(f.c, f.a, geom.Pt(795, 300)); ev.RelativePosition != Right {
		t.Fatalf("right edge of b: %v", ev.RelativePosition)
	}
}

func TestValidateRejections(t *testing.T) {
	f := newFixture(t)
	cases := []DropEvent{
		{DragSource: f.a, DropTarget: f.a, RelativePosition: Center},
		{DragSource: f.a, DropTarget: f.a, RelativePosition: Left},
		{DragSource: f.a, DropTarget: f.b, RelativePosition: Offscreen},
		{DragSource: f.a, DropTarget: nil, RelativePosition: Invalid},
		{DragSource: f.a, DropTarget: dock.NewPane("x", "", geom.Size{}), RelativePosition: Right},
	}
	for i, ev := range cases {
		if err := Validate(f.c, ev); !errors.Is(err, ErrInvalidDrop) {
			t.Fatalf("case %d: expected rejection, got %v", i, err)
		}
	}
	if err := Validate(f.c, DropEvent{DragSource: f.a, DropTarget: f.b, RelativePosition: Bottom}); err != nil {
		t.Fatalf("valid drop rejected: %v", err)
	}
}

func TestValidateTabGroupRules(t *testing.T) {
	f := newFixture(t)
	if err := f.c.Stack(f.b, f.a); err != nil {
		t.Fatal(err)
	}
	g := f.c.TopLevel(f.a).(*dock.TabGroup)

	if err := Validate(f.c, DropEvent{DragSource: g, DropTarget: f.a, RelativePosition: Center}); !errors.Is(err, ErrInvalidDrop) {
		t.Fatalf("group onto own pane: %v", err)
	}
	if err := Validate(f.c, DropEvent{DragSource: g, DropTarget: g, RelativePosition: Top}); !errors.Is(err, ErrInvalidDrop) {
		t.Fatalf("group beside itself: %v", err)
	}
	if err := Validate(f.c, DropEvent{DragSource: f.a, DropTarget: g, RelativePosition: Left}); err != nil {
		t.Fatalf("tab out of a two-tab group: %v", err)
	}

	_ = g.Remove(f.b)
	if err := Validate(f.c, DropEvent{DragSource: f.a, DropTarget: g, RelativePosition: Left}); !errors.Is(err, ErrInvalidDrop) {
		t.Fatalf("only tab beside its own group: %v", err)
	}
}

func TestApplyStacksOnCenter(t *testing.T) {
	f := newFixture(t)
	if err := Apply(f.c, DropEvent{DragSource: f.a, DropTarget: f.b, RelativePosition: Center}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	g, ok := f.c.TopLevel(f.b).(*dock.TabGroup)
	if !ok || g.Len() != 2 || g.Selected() != f.a {
		t.Fatalf("stack not applied")
	}
}

func TestApplyReordersWithinGroup(t *testing.T) {
	f := newFixture(t)
	_ = f.c.Stack(f.b, f.a)
	g := f.c.TopLevel(f.a).(*dock.TabGroup)
	// group is 800 wide with two tabs; x=700 is the second slot
	if err := Apply(f.c, DropEvent{DragSource: f.a, DropTarget: g, RelativePosition: Center, X: 700}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.IndexOf(f.a) != 1 || len(f.c.Children()) != 1 {
		t.Fatalf("expected a reorder only")
	}
}

func TestApplyDetachesTabBesideGroup(t *testing.T) {
	f := newFixture(t)
	_ = f.c.Stack(f.b, f.a)
	g := f.c.TopLevel(f.a).(*dock.TabGroup)
	if err := Apply(f.c, DropEvent{DragSource: f.b, DropTarget: g, RelativePosition: Bottom}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.Len() != 1 || !f.c.IsChild(f.b) {
		t.Fatalf("b should now be a sibling of the group")
	}
	if got := f.b.Bounds(); got != geom.R(0, 303, 800, 297) {
		t.Fatalf("b bounds = %v", got)
	}
}

func TestApplyMovesTreeChild(t *testing.T) {
	f := newFixture(t)
	if err := Apply(f.c, DropEvent{DragSource: f.b, DropTarget: f.a, RelativePosition: Top}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := f.b.Bounds(); got != geom.R(0, 0, 800, 300) {
		t.Fatalf("b bounds = %v", got)
	}
}

func TestTrackerCommitsDrop(t *testing.T) {
	f := newFixture(t)
	var events []DropEvent
	tr := NewTracker(f.c, TrackerOptions{OnEvent: func(ev DropEvent) { events = append(events, ev) }})
	if err := tr.Arm(f.a, geom.Pt(200, 300)); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if err := tr.Arm(f.b, geom.Pt(0, 0)); !errors.Is(err, ErrBusy) {
		t.Fatalf("re-arm: %v", err)
	}
	if _, ok := tr.Move(geom.Pt(206, 308)); ok || tr.State() != Armed {
		t.Fatalf("moved within hysteresis should stay armed")
	}
	if _, ok := tr.Move(geom.Pt(390, 300)); !ok || tr.State() != Tracking {
		t.Fatalf("expected tracking, state %v", tr.State())
	}
	ev, err := tr.Release(geom.Pt(795, 300))
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if tr.State() != Committed || ev.RelativePosition != Right || ev.DropTarget != f.b {
		t.Fatalf("state %v event %+v", tr.State(), ev)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if got := f.b.Bounds(); got != geom.R(0, 0, 397, 600) {
		t.Fatalf("b bounds = %v", got)
	}
	if got := f.a.Bounds(); got != geom.R(400, 0, 400, 600) {
		t.Fatalf("a bounds = %v", got)
	}
	if err := tr.Arm(f.b, geom.Pt(0, 0)); err != nil {
		t.Fatalf("arm after commit: %v", err)
	}
}

func TestTrackerCancelsOffscreenAndEscape(t *testing.T) {
	f := newFixture(t)
	before := f.a.Bounds()
	tr := NewTracker(f.c, TrackerOptions{Hysteresis: 2})

	_ = tr.Arm(f.a, geom.Pt(100, 100))
	tr.Move(geom.Pt(120, 100))
	if _, err := tr.Release(geom.Pt(-50, 100)); !errors.Is(err, ErrInvalidDrop) {
		t.Fatalf("offscreen release: %v", err)
	}
	if tr.State() != Cancelled || f.a.Bounds() != before {
		t.Fatalf("offscreen release must not change the layout")
	}

	tr.Reset()
	_ = tr.Arm(f.a, geom.Pt(100, 100))
	tr.Move(geom.Pt(150, 100))
	tr.Cancel()
	if tr.State() != Cancelled {
		t.Fatalf("escape should cancel")
	}
	if _, err := tr.Finish(true, geom.Pt(700, 300)); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("finish after cancel: %v", err)
	}

	_ = tr.Arm(f.a, geom.Pt(100, 100))
	if _, err := tr.Release(geom.Pt(101, 100)); !errors.Is(err, ErrCancelled) {
		t.Fatalf("click without drag: %v", err)
	}
	if f.a.Bounds() != before {
		t.Fatalf("layout changed")
	}
}
