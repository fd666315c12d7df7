/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"godockshell/internal/export"
	"godockshell/internal/persist"
)

func newDemoCmd(a *app) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the demo IDE layout to a file or stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session("", false)
			if err != nil {
				return err
			}
			if out != "" {
				if err := s.SaveFile(out); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "wrote", out)
				return nil
			}
			f, err := persist.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := persist.Marshal(persist.EncodeRecord(s.Container()), f)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; the extension picks json, yaml or toml")
	cmd.Flags().StringVar(&format, "format", "yaml", "stdout format: json|yaml|toml")
	return cmd
}

func printFrame(w io.Writer, f export.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PART\tKIND\tX\tY\tW\tH\tLABEL\n")
	for _, b := range f.Boxes {
		label := b.Label()
		if b.Zoomed {
			label += " (zoomed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n", b.ID, b.Kind, b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, label)
	}
	for _, bar := range f.Bars {
		fmt.Fprintf(tw, "sash\t%s\t%d\t%d\t%d\t%d\tratio %.3f\n", bar.Orientation, bar.Rect.X, bar.Rect.Y, bar.Rect.W, bar.Rect.H, bar.Ratio)
	}
	return tw.Flush()
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Lay out a layout file (or the demo) and print the geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			s, err := a.session(file, false)
			if s == nil {
				return err
			}
			if perr := printFrame(a.out, s.Frame()); perr != nil {
				return perr
			}
			return err
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a layout file parses and restores cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(args[0], strict); err != nil {
				return fmt.Errorf("invalid layout: %w", err)
			}
			fmt.Fprintln(a.out, "ok", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "report panes the document references but does not describe")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a layout file between json, yaml and toml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := persist.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := persist.WriteFile(args[1], rec); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "converted layout", slog.String("from", args[0]), slog.String("to", args[1]))
			fmt.Fprintln(a.out, "wrote", args[1])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var formats []string
	var outDir, preset, base string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a wireframe of a layout to png, svg or pdf",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			s, err := a.session(file, false)
			if err != nil {
				return err
			}
			if base == "" {
				base = "layout"
				if file != "" {
					name := filepath.Base(file)
					base = name[:len(name)-len(filepath.Ext(name))]
				}
			}
			written, err := export.BatchExport(s.Frame(), export.BatchOptions{
				Preset:  export.PresetName(preset),
				Formats: formats,
				OutDir:  outDir,
				Base:    base,
			})
			for _, p := range written {
				fmt.Fprintln(a.out, "wrote", p)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&formats, "format", nil, "formats to write: png,svg,pdf (default from preset)")
	f.StringVarP(&outDir, "out", "o", ".", "output directory")
	f.StringVar(&preset, "preset", string(export.PresetWeb), "export preset: web|print")
	f.StringVar(&base, "name", "", "base file name (default from the input file)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Print the geometry of a layout file each time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session("", false)
			if err != nil {
				return err
			}
			show := func() {
				if err := printFrame(a.out, s.Frame()); err != nil {
					a.log.Warn("print failed", slog.Any("err", err))
				}
			}
			if err := s.LoadFile(args[0]); err != nil && !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(a.errOut, "load:", err)
			} else if err == nil {
				show()
			}
			err = persist.Watch(cmd.Context(), args[0], func(rec *persist.Record, err error) {
				if err != nil {
					fmt.Fprintln(a.errOut, "reload:", err)
					return
				}
				if err := s.Apply(rec); err != nil {
					fmt.Fprintln(a.errOut, "apply:", err)
				}
				fmt.Fprintln(a.out, "---")
				show()
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
