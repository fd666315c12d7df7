/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// headerHeight is the label strip drawn at the top of each box, in layout units.
const headerHeight = 14

// WritePDF renders f as a single-page PDF whose page is the frame bounds, one
// point per layout pixel.
func WritePDF(w io.Writer, f Frame, st Style) error {
	st = st.orDefault()
	pw, ph := float64(f.Bounds.W), float64(f.Bounds.H)
	if pw <= 0 || ph <= 0 {
		return fmt.Errorf("empty frame bounds %v", f.Bounds)
	}
	ox, oy := float64(f.Bounds.X), float64(f.Bounds.Y)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetTitle("Layout wireframe", false)
	pdf.SetAuthor("DockShell", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	pdf.SetLineWidth(1)
	for _, b := range f.Boxes {
		x, y := float64(b.Rect.X)-ox, float64(b.Rect.Y)-oy
		bw, bh := float64(b.Rect.W), float64(b.Rect.H)
		setFillColor(pdf, st.PaneFill)
		setDrawColor(pdf, st.PaneStroke)
		pdf.Rect(x, y, bw, bh, "FD")
		hh := min(float64(headerHeight), bh)
		if b.Kind == KindTabs {
			setFillColor(pdf, st.TabFill)
			pdf.Rect(x, y, bw, hh, "FD")
		} else {
			pdf.Line(x, y+hh, x+bw, y+hh)
		}
		pdf.SetTextColor(int(st.Text.R), int(st.Text.G), int(st.Text.B))
		pdf.SetFont("Helvetica", "", 9)
		pdf.ClipRect(x, y, bw, hh, false)
		pdf.Text(x+3, y+hh-4, pdfLabel(b))
		pdf.ClipEnd()
	}
	setFillColor(pdf, st.SashFill)
	for _, s := range f.Bars {
		pdf.Rect(float64(s.Rect.X)-ox, float64(s.Rect.Y)-oy, float64(s.Rect.W), float64(s.Rect.H), "F")
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfLabel keeps the core fonts happy: they only cover Latin-1.
func pdfLabel(b Box) string {
	s := b.Label()
	if b.Zoomed {
		s += " (zoomed)"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}

func setDrawColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
