/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workbench

import (
	"godockshell/internal/dock"
	"godockshell/internal/geom"
)

// DemoBounds is the size the demo workspace is laid out at.
var DemoBounds = geom.R(0, 0, 1200, 800)

// Demo builds an IDE-like workspace:
//
//	+----------+---------------------+---------+
//	| Project  | Editor | [Preview]  | Outline |
//	|          |                     |         |
//	|          +---------------------+---------+
//	|          | Console | Problems            |
//	+----------+-------------------------------+
func Demo(opts Options) (*Session, error) {
	if opts.Bounds.Empty() {
		opts.Bounds = DemoBounds
	}
	if opts.Workspace == "" {
		opts.Workspace = "demo"
	}
	s := New(opts)
	project := dock.NewPane("project", "Project", geom.Size{W: 120, H: 80})
	editor := dock.NewPane("editor", "Editor", geom.Size{W: 200, H: 120})
	preview := dock.NewPane("preview", "Preview", geom.Size{W: 120, H: 80})
	outline := dock.NewPane("outline", "Outline", geom.Size{W: 100, H: 80})
	console := dock.NewPane("console", "Console", geom.Size{W: 120, H: 60})
	problems := dock.NewPane("problems", "Problems", geom.Size{W: 120, H: 60})

	c := s.c
	steps := []func() error{
		func() error { return c.Add(project) },
		func() error { return c.AddRelative(editor, dock.Right, 0.22, project) },
		func() error { return c.AddRelative(console, dock.Bottom, 0.7, editor) },
		func() error { return c.AddRelative(outline, dock.Right, 0.75, editor) },
		func() error { return c.Stack(preview, editor) },
		func() error { return c.Add(problems) },
		func() error { return c.Stack(problems, console) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	for _, p := range []*dock.Pane{project, editor, preview, outline, console, problems} {
		s.Register(p)
	}
	if g, ok := editor.Container().(*dock.TabGroup); ok {
		_ = g.Select(editor)
	}
	if g, ok := console.Container().(*dock.TabGroup); ok {
		_ = g.Select(console)
	}
	c.Layout()
	return s, nil
}
