/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"strings"
	"testing"

	"godockshell/internal/geom"
)

func TestTabGroupRemoveSelectsRightNeighbour(t *testing.T) {
	a, b, c := pane("a"), pane("b"), pane("c")
	g := NewTabGroup("g", a, b, c)
	g.SetVisible(true)
	g.SetBounds(geom.R(0, 0, 100, 100))
	_ = g.Select(b)
	if err := g.Remove(b); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.Selected() != c {
		t.Fatalf("selected = %v, want c", g.Selected().ID())
	}
	if !c.Visible() || c.Bounds() != geom.R(0, 0, 100, 100) || a.Visible() {
		t.Fatalf("visibility not refreshed")
	}
	_ = g.Remove(c)
	if g.Selected() != a {
		t.Fatalf("last tab removed should fall back to the new last")
	}
	_ = g.Remove(a)
	if g.Selected() != nil || g.Len() != 0 {
		t.Fatalf("empty group should have no selection")
	}
}

func TestTabGroupMoveTabKeepsSelection(t *testing.T) {
	a, b, c := pane("a"), pane("b"), pane("c")
	g := NewTabGroup("g", a, b, c)
	_ = g.Select(b)
	if err := g.MoveTab(a, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	var ids []string
	for _, p := range g.Children() {
		ids = append(ids, p.ID())
	}
	if strings.Join(ids, ",") != "b,c,a" {
		t.Fatalf("order = %v", ids)
	}
	if g.Selected() != b {
		t.Fatalf("selection moved")
	}
	if err := g.MoveTab(pane("z"), 0); err == nil {
		t.Fatalf("moving a stranger should fail")
	}
}

func TestTabGroupMinSizeIsLargestTab(t *testing.T) {
	g := NewTabGroup("g",
		NewPane("a", "", geom.Size{W: 10, H: 90}),
		NewPane("b", "", geom.Size{W: 70, H: 20}))
	if got := g.MinSize(); got != (geom.Size{W: 70, H: 90}) {
		t.Fatalf("min size = %v", got)
	}
	if !g.IsContainerCapable() {
		t.Fatalf("tab groups hold parts")
	}
}

func TestInsertBeforeSelectionShiftsIt(t *testing.T) {
	a, b := pane("a"), pane("b")
	g := NewTabGroup("g", a)
	if err := g.Insert(b, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if g.Selected() != a || g.IndexOf(a) != 1 {
		t.Fatalf("selection should follow a")
	}
	if b.Container() != Container(g) {
		t.Fatalf("back-reference not set")
	}
}

func TestSequentialAllocator(t *testing.T) {
	var ids SequentialAllocator
	if got := ids.Next("tabs"); got != "tabs-1" {
		t.Fatalf("got %s", got)
	}
	if got := ids.Next("zoom"); got != "zoom-2" {
		t.Fatalf("got %s", got)
	}
	u := UUIDAllocator{}.Next("tabs")
	if !strings.HasPrefix(u, "tabs-") || len(u) != len("tabs-")+36 {
		t.Fatalf("uuid id %q", u)
	}
}

func TestParseRelationship(t *testing.T) {
	for _, r := range []Relationship{Left, Right, Top, Bottom} {
		got, err := ParseRelationship(r.String())
		if err != nil || got != r {
			t.Fatalf("%v: %v %v", r, got, err)
		}
	}
	if _, err := ParseRelationship("diagonal"); err == nil {
		t.Fatalf("expected error")
	}
	if Top.Orientation() != Horizontal || Left.Orientation() != Vertical {
		t.Fatalf("orientation mapping wrong")
	}
}
