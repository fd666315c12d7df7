/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package persist

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

type flatRel struct {
	Part, Relative string
	Relationship   string
	Ratio          float64
}

func flat(c *dock.SashContainer) []flatRel {
	var out []flatRel
	for _, r := range c.Relationships() {
		fr := flatRel{Part: r.Part.ID()}
		if r.Relative != nil {
			fr.Relative = r.Relative.ID()
			fr.Relationship = r.Relationship.String()
			fr.Ratio = r.Ratio
		}
		out = append(out, fr)
	}
	return out
}

func newContainer() *dock.SashContainer {
	return dock.NewSashContainer(dock.Options{IDs: &dock.SequentialAllocator{}})
}

func paneFactory(id string, info PartInfo) dock.Part {
	return dock.NewPane(id, info.Title, geom.Size{})
}

func randomLayout(rng *rand.Rand, n int) *dock.SashContainer {
	c := newContainer()
	var parts []dock.Part
	for i := 0; i < n; i++ {
		p := dock.NewPane("p"+strconv.Itoa(i), "Pane "+strconv.Itoa(i), geom.Size{})
		var rel dock.Part
		if len(parts) > 0 {
			rel = parts[rng.IntN(len(parts))]
		}
		_ = c.AddRelative(p, dock.Relationship(rng.IntN(4)), 0.05+0.9*rng.Float64(), rel)
		parts = append(parts, p)
	}
	return c
}

func TestRoundTripRandomLayouts(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	approx := cmpopts.EquateApprox(0, 1e-4)
	for round := 0; round < 40; round++ {
		src := randomLayout(rng, 1+rng.IntN(9))
		for _, f := range []Format{JSON, YAML, TOML} {
			data, err := Marshal(EncodeRecord(src), f)
			if err != nil {
				t.Fatalf("round %d %s marshal: %v", round, f, err)
			}
			rec, err := Unmarshal(data, f)
			if err != nil {
				t.Fatalf("round %d %s unmarshal: %v\n%s", round, f, err, data)
			}
			dst := newContainer()
			if errs := Decode(rec, dst, paneFactory); len(errs) != 0 {
				t.Fatalf("round %d %s decode: %v", round, f, errs)
			}
			if diff := cmp.Diff(flat(src), flat(dst), approx); diff != "" {
				t.Fatalf("round %d %s mismatch (-want +got):\n%s", round, f, diff)
			}
		}
	}
}

func TestRestoreReplaysRecords(t *testing.T) {
	src := randomLayout(rand.New(rand.NewPCG(9, 9)), 6)
	src.SetBounds(geom.R(0, 0, 1000, 800))
	recs := Save(src.Root())

	dst := newContainer()
	if errs := Restore(dst, recs); len(errs) != 0 {
		t.Fatalf("restore: %v", errs)
	}
	dst.SetBounds(geom.R(0, 0, 1000, 800))
	want := map[string]geom.Rect{}
	for _, p := range src.Children() {
		want[p.ID()] = p.Bounds()
	}
	got := map[string]geom.Rect{}
	for _, p := range dst.Children() {
		got[p.ID()] = p.Bounds()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bounds differ (-want +got):\n%s", diff)
	}
}

func TestDecodeSkipsUnknownRelative(t *testing.T) {
	rec := NewRecord(TagLayout)
	a := rec.CreateChild(TagPart)
	a.PutString("id", "a")
	b := rec.CreateChild(TagPart)
	b.PutString("id", "b")
	b.PutString("relative", "ghost")
	b.PutString("relationship", "right")
	b.PutFloat("ratio", 0.5)
	c := rec.CreateChild(TagPart)
	c.PutString("id", "c")
	c.PutString("relative", "a")
	c.PutString("relationship", "bottom")
	c.PutFloat("ratio", 0.25)

	dst := newContainer()
	errs := Decode(rec, dst, paneFactory)
	if len(errs) != 1 || !errors.Is(errs[0], ErrUnknownRelative) {
		t.Fatalf("errs = %v", errs)
	}
	if got := len(dst.Children()); got != 2 {
		t.Fatalf("expected a and c restored, got %d parts", got)
	}
	f, ok := dst.Root().(*dock.Fork)
	if !ok || f.Sash().Orientation() != dock.Horizontal || f.Sash().Ratio() != 0.25 {
		t.Fatalf("c should sit below a at 0.25")
	}
}

func TestTabGroupsTitlesAndZoomSurvive(t *testing.T) {
	src := newContainer()
	a := dock.NewPane("a", "Alpha", geom.Size{})
	b := dock.NewPane("b", "Beta", geom.Size{})
	x := dock.NewPane("x", "Ex", geom.Size{})
	_ = src.Add(a)
	_ = src.Add(b)
	_ = src.AddRelative(x, dock.Bottom, 0.3, nil)
	_ = src.Stack(b, a)
	g := src.TopLevel(a).(*dock.TabGroup)
	_ = g.Select(a)
	_ = src.ZoomIn(g)

	data, err := Marshal(EncodeRecord(src), JSON)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Unmarshal(data, JSON)
	if err != nil {
		t.Fatal(err)
	}
	dst := newContainer()
	if errs := Decode(rec, dst, paneFactory); len(errs) != 0 {
		t.Fatalf("decode: %v", errs)
	}
	z, ok := dst.Zoomed().(*dock.TabGroup)
	if !ok || z.ID() != g.ID() {
		t.Fatalf("zoomed group not restored: %v", dst.Zoomed())
	}
	if z.Len() != 2 || z.Selected().ID() != "a" {
		t.Fatalf("tabs not restored")
	}
	if p, ok := dst.FindPart("b").(*dock.Pane); !ok || p.Title() != "Beta" {
		t.Fatalf("title lost")
	}
	_ = dst.ZoomOut()
	if diff := cmp.Diff(flat(src), flat(dst), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("relations differ:\n%s", diff)
	}
}

func TestNilFactoryKeepsPlaceholderSpot(t *testing.T) {
	src := newContainer()
	a, b := dock.NewPane("a", "", geom.Size{}), dock.NewPane("b", "", geom.Size{})
	_ = src.Add(a)
	_ = src.AddRelative(b, dock.Right, 0.7, a)

	dst := newContainer()
	errs := Decode(EncodeRecord(src), dst, func(id string, info PartInfo) dock.Part {
		if id == "b" {
			return nil
		}
		return paneFactory(id, info)
	})
	if len(errs) != 0 {
		t.Fatalf("decode: %v", errs)
	}
	dst.SetBounds(geom.R(0, 0, 1000, 100))
	if got := dst.FindPart("a").Bounds(); got != geom.R(0, 0, 1000, 100) {
		t.Fatalf("placeholder must not take space, a = %v", got)
	}
	late := dock.NewPane("b", "", geom.Size{})
	if err := dst.Add(late); err != nil {
		t.Fatal(err)
	}
	if got := late.Bounds(); got != geom.R(703, 0, 297, 100) {
		t.Fatalf("b should land in its reserved spot, got %v", got)
	}
}

func TestValidateJSONRejectsForeignDocuments(t *testing.T) {
	for _, doc := range []string{
		`{"strings": {}}`,
		`{"tag": "layout", "bogus": 1}`,
		`{"tag": "layout", "floats": {"ratio": "half"}}`,
		`{"tag": "layout", "children": [{"strings": {"id": "a"}}]}`,
	} {
		if err := ValidateJSON([]byte(doc)); !errors.Is(err, ErrSchema) {
			t.Fatalf("%s: expected schema error, got %v", doc, err)
		}
	}
	if _, err := Unmarshal([]byte(`{"tag": 3}`), JSON); !errors.Is(err, ErrSchema) {
		t.Fatalf("Unmarshal should validate JSON: %v", err)
	}
}

func TestWriteReadFileByExtension(t *testing.T) {
	src := randomLayout(rand.New(rand.NewPCG(5, 6)), 5)
	rec := EncodeRecord(src)
	dir := t.TempDir()
	for _, name := range []string{"l.json", "l.yaml", "l.yml", "l.toml"} {
		path := filepath.Join(dir, "sub", name)
		if err := WriteFile(path, rec); err != nil {
			t.Fatalf("%s write: %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%s read: %v", name, err)
		}
		if !rec.Equal(got) {
			t.Fatalf("%s: record changed on disk", name)
		}
	}
	if err := WriteFile(filepath.Join(dir, "l.xml"), rec); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("xml: %v", err)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	if err := WriteFile(path, NewRecord(TagLayout)); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan *Record, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(r *Record, err error) {
			if err == nil {
				got <- r
			}
		})
	}()
	time.Sleep(200 * time.Millisecond)

	rec := NewRecord(TagLayout)
	rec.PutString("zoomed", "a")
	if err := os.WriteFile(path, mustMarshal(t, rec, YAML), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-got:
		if v, _ := r.GetString("zoomed"); v != "a" {
			t.Fatalf("stale document: %+v", r)
		}
	case <-ctx.Done():
		t.Fatalf("no reload observed")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("watch returned %v", err)
	}
}

func mustMarshal(t *testing.T, r *Record, f Format) []byte {
	t.Helper()
	b, err := Marshal(r, f)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestRecordMementoAccessors(t *testing.T) {
	r := NewRecord("root")
	r.CreateChild("a").PutFloat("n", 1.5)
	r.CreateChild("b")
	r.CreateChild("a").PutString("s", "x")
	as := r.Children("a")
	if len(as) != 2 {
		t.Fatalf("children(a) = %d", len(as))
	}
	if v, ok := as[0].GetFloat("n"); !ok || v != 1.5 {
		t.Fatalf("float lost")
	}
	if _, ok := as[0].GetString("s"); ok {
		t.Fatalf("unexpected key")
	}
	if c := r.Clone(); !c.Equal(r) || c == r {
		t.Fatalf("clone not deep-equal")
	}
}

func TestRecordNodesEncodeAsChildren(t *testing.T) {
	r := NewRecord("layout")
	r.PutFloat("version", 1)
	g := r.CreateChild(TagPart)
	g.PutString("id", "tabs-1")
	g.CreateChild(TagTab).PutString("id", "editor")
	r.CreateChild(TagPart).PutString("id", "outline")
	if len(r.Nodes) != 2 || len(r.Children(TagPart)) != 2 || len(r.Children(TagTab)) != 0 {
		t.Fatalf("nodes = %d, parts = %d", len(r.Nodes), len(r.Children(TagPart)))
	}

	for _, f := range []Format{JSON, YAML, TOML} {
		data, err := Marshal(r, f)
		if err != nil {
			t.Fatalf("%v: marshal: %v", f, err)
		}
		if !strings.Contains(string(data), "children") || strings.Contains(string(data), "Nodes") {
			t.Fatalf("%v: nested records not under children:\n%s", f, data)
		}
		back, err := Unmarshal(data, f)
		if err != nil {
			t.Fatalf("%v: unmarshal: %v", f, err)
		}
		if !back.Equal(r) {
			t.Fatalf("%v: round trip changed the record:\n%s", f, data)
		}
		tabs := back.Children(TagPart)[0].Children(TagTab)
		if len(tabs) != 1 {
			t.Fatalf("%v: nested tab lost", f)
		}
		if id, _ := tabs[0].GetString("id"); id != "editor" {
			t.Fatalf("%v: tab id = %q", f, id)
		}
	}
}
