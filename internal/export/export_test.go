/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

func sampleContainer(t *testing.T) *dock.SashContainer {
	t.Helper()
	c := dock.NewSashContainer(dock.Options{IDs: &dock.SequentialAllocator{}})
	a := dock.NewPane("a", "Navigator", geom.Size{})
	b := dock.NewPane("b", "Editor", geom.Size{})
	e := dock.NewPane("c", "Console", geom.Size{})
	for _, p := range []dock.Part{a, b} {
		if err := c.Add(p); err != nil {
			t.Fatalf("add %s: %v", p.ID(), err)
		}
	}
	if err := c.Add(e); err != nil {
		t.Fatalf("add c: %v", err)
	}
	if err := c.Stack(e, b); err != nil {
		t.Fatalf("stack: %v", err)
	}
	c.SetBounds(geom.R(0, 0, 800, 600))
	return c
}

func TestFrameOf(t *testing.T) {
	f := FrameOf(sampleContainer(t))
	if f.Bounds != geom.R(0, 0, 800, 600) {
		t.Fatalf("bounds = %v", f.Bounds)
	}
	if len(f.Boxes) != 2 || len(f.Bars) != 1 {
		t.Fatalf("boxes=%d bars=%d", len(f.Boxes), len(f.Bars))
	}
	nav, tabs := f.Boxes[0], f.Boxes[1]
	if nav.Title != "Navigator" || nav.Kind != KindPane || nav.Rect != geom.R(0, 0, 400, 600) {
		t.Fatalf("navigator box = %+v", nav)
	}
	if tabs.Kind != KindTabs || len(tabs.Tabs) != 2 || tabs.Selected != 1 {
		t.Fatalf("tab box = %+v", tabs)
	}
	if got := tabs.Label(); got != "Editor | [Console]" {
		t.Fatalf("label = %q", got)
	}
	if f.Bars[0].Rect != geom.R(400, 0, 3, 600) || f.Bars[0].Orientation != dock.Vertical {
		t.Fatalf("bar = %+v", f.Bars[0])
	}
}

func TestFrameOfZoomed(t *testing.T) {
	c := sampleContainer(t)
	nav := c.FindPart("a")
	if err := c.ZoomIn(nav); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	f := FrameOf(c)
	if f.Zoomed != "a" || len(f.Boxes) != 1 || len(f.Bars) != 0 {
		t.Fatalf("zoomed frame = %+v", f)
	}
	if !f.Boxes[0].Zoomed || f.Boxes[0].Rect != geom.R(0, 0, 800, 600) {
		t.Fatalf("zoomed box = %+v", f.Boxes[0])
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, FrameOf(sampleContainer(t)), Style{}); err != nil {
		t.Fatalf("png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("image size = %v", b)
	}
	// Sash pixels carry the sash color.
	r, g, b, _ := img.At(401, 300).RGBA()
	sc := DefaultStyle().SashFill
	if uint8(r>>8) != sc.R || uint8(g>>8) != sc.G || uint8(b>>8) != sc.B {
		t.Fatalf("sash pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, FrameOf(sampleContainer(t)), Style{}); err != nil {
		t.Fatalf("svg: %v", err)
	}
	s := buf.String()
	for _, want := range []string{`<svg`, `id="a"`, `class="tabs"`, `Editor | [Console]`, `class="sash vertical"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("svg missing %q:\n%s", want, s)
		}
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, FrameOf(sampleContainer(t)), Style{}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestEmptyFrameRejected(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Frame{}, Style{}); err == nil {
		t.Fatalf("expected error for empty bounds")
	}
	if err := WritePDF(&buf, Frame{}, Style{}); err == nil {
		t.Fatalf("expected error for empty bounds")
	}
}

func TestBatchExport(t *testing.T) {
	dir := t.TempDir()
	written, err := BatchExport(FrameOf(sampleContainer(t)), BatchOptions{Preset: PresetWeb, OutDir: dir})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	for _, p := range written {
		st, err := os.Stat(p)
		if err != nil || st.Size() == 0 {
			t.Fatalf("stat %s: %v", p, err)
		}
	}
	if _, err := BatchExport(Frame{Bounds: geom.R(0, 0, 10, 10)}, BatchOptions{Formats: []string{"cbz"}, OutDir: dir}); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if err := WriteFile(filepath.Join(dir, "x.gif"), Frame{Bounds: geom.R(0, 0, 10, 10)}, Style{}); err == nil {
		t.Fatalf("expected unknown extension error")
	}
	if _, err := os.Stat(filepath.Join(dir, "x.gif")); !os.IsNotExist(err) {
		t.Fatalf("failed export must not leave a file")
	}
}
