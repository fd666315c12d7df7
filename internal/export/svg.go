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
	"fmt"
	"io"
	"strings"
)

// WriteSVG renders f as a standalone SVG document in layout coordinates.
func WriteSVG(w io.Writer, f Frame, st Style) error {
	st = st.orDefault()
	if f.Bounds.Empty() {
		return fmt.Errorf("empty frame bounds %v", f.Bounds)
	}
	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%d %d %d %d\">\n",
		f.Bounds.W, f.Bounds.H, f.Bounds.X, f.Bounds.Y, f.Bounds.W, f.Bounds.H)
	wf("  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", f.Bounds.X, f.Bounds.Y, f.Bounds.W, f.Bounds.H, svgColor(st.Background))

	for _, b := range f.Boxes {
		r := b.Rect
		hh := min(headerHeight, r.H)
		wf("  <g id=\"%s\" class=\"%s\">\n", escAttr(b.ID), b.Kind)
		wf("    <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n", r.X, r.Y, r.W, r.H, svgColor(st.PaneFill), svgColor(st.PaneStroke))
		if b.Kind == KindTabs {
			wf("    <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n", r.X, r.Y, r.W, hh, svgColor(st.TabFill), svgColor(st.PaneStroke))
		} else {
			wf("    <line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"1\"/>\n", r.X, r.Y+hh, r.X+r.W, r.Y+hh, svgColor(st.PaneStroke))
		}
		label := b.Label()
		if b.Zoomed {
			label += " (zoomed)"
		}
		wf("    <text x=\"%d\" y=\"%d\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"10\" fill=\"%s\">%s</text>\n", r.X+3, r.Y+hh-3, svgColor(st.Text), escText(label))
		wf("  </g>\n")
	}
	for _, s := range f.Bars {
		wf("  <rect class=\"sash %s\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
			strings.ToLower(s.Orientation.String()), s.Rect.X, s.Rect.Y, s.Rect.W, s.Rect.H, svgColor(st.SashFill))
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("&quot;")
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '\n', '\r':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
