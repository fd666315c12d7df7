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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// WritePNG rasterizes f at one pixel per layout pixel. Labels use the
// 7x13 basic font.
func WritePNG(w io.Writer, f Frame, st Style) error {
	img, err := Rasterize(f, st)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Rasterize draws f into a new RGBA image.
func Rasterize(f Frame, st Style) (*image.RGBA, error) {
	st = st.orDefault()
	if f.Bounds.Empty() {
		return nil, fmt.Errorf("empty frame bounds %v", f.Bounds)
	}
	ox, oy := f.Bounds.X, f.Bounds.Y
	img := image.NewRGBA(image.Rect(0, 0, f.Bounds.W, f.Bounds.H))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(st.Background)}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	for _, b := range f.Boxes {
		x0, y0 := b.Rect.X-ox, b.Rect.Y-oy
		x1, y1 := x0+b.Rect.W-1, y0+b.Rect.H-1
		fillRect(img, x0, y0, x1, y1, toRGBA(st.PaneFill))
		hh := min(headerHeight, b.Rect.H)
		if b.Kind == KindTabs {
			fillRect(img, x0, y0, x1, y0+hh-1, toRGBA(st.TabFill))
		} else {
			fillRect(img, x0, y0+hh-1, x1, y0+hh-1, toRGBA(st.PaneStroke))
		}
		strokeRect(img, x0, y0, x1, y1, toRGBA(st.PaneStroke))

		clip := img.SubImage(image.Rect(x0+1, y0+1, x1, y0+hh)).(*image.RGBA)
		d := font.Drawer{
			Dst:  clip,
			Src:  image.NewUniform(toRGBA(st.Text)),
			Face: face,
			Dot:  fixed.P(x0+3, y0+hh-3),
		}
		label := b.Label()
		if b.Zoomed {
			label += " (zoomed)"
		}
		d.DrawString(label)
	}
	for _, s := range f.Bars {
		x0, y0 := s.Rect.X-ox, s.Rect.Y-oy
		fillRect(img, x0, y0, x0+s.Rect.W-1, y0+s.Rect.H-1, toRGBA(st.SashFill))
	}
	return img, nil
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
