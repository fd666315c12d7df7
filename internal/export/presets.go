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
	"path/filepath"
	"strings"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls exporting one frame to several formats at once.
//
// Files are written as <OutDir>/<Base>.<format>. An empty Base is "layout".
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: pdf, png, svg; empty means preset defaults
	OutDir  string
	Base    string
	Style   *Style // when set, overrides the preset's style
}

// BatchExport writes f in every requested format and returns the paths written.
func BatchExport(f Frame, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	base := opt.Base
	if base == "" {
		base = "layout"
	}
	st := presetStyle(opt.Preset)
	if opt.Style != nil {
		st = *opt.Style
	}
	var written []string
	for _, fm := range formats {
		fm = strings.ToLower(strings.TrimSpace(fm))
		switch fm {
		case "pdf", "png", "svg":
		default:
			return written, fmt.Errorf("unknown format: %s", fm)
		}
		out := filepath.Join(opt.OutDir, base+"."+fm)
		if err := WriteFile(out, f, st); err != nil {
			return written, fmt.Errorf("%s: %w", fm, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf"}
	default:
		return []string{"svg"}
	}
}

func presetStyle(p PresetName) Style {
	if p == PresetPrint {
		return Style{
			Background: Color{255, 255, 255, 255},
			PaneStroke: Color{0, 0, 0, 255},
			PaneFill:   Color{255, 255, 255, 255},
			TabFill:    Color{230, 230, 230, 255},
			SashFill:   Color{0, 0, 0, 255},
			Text:       Color{0, 0, 0, 255},
		}
	}
	return DefaultStyle()
}
