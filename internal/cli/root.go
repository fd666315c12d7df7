/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli wires the dockshell command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"godockshell/internal/config"
	"godockshell/internal/crash"
	"godockshell/internal/geom"
	applog "godockshell/internal/log"
	"godockshell/internal/storage"
	"godockshell/internal/telemetry"
	"godockshell/internal/version"
	"godockshell/internal/workbench"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	out, errOut io.Writer

	cfg      config.AppConfig
	password string
	log      *slog.Logger

	verbose   bool
	workspace string
	size      string

	store storage.Store
}

// annQuiet marks full screen commands whose log lines must stay off the
// terminal.
const annQuiet = "quiet-console"

// Execute runs the command tree with args and returns the first error.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(&app{out: stdout, errOut: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dockshell",
		Short:         "Dockable pane layouts: edit, persist and render them",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			telemetry.Default().Flush(ctx)
			_ = applog.Close()
		},
	}
	root.SetVersionTemplate("dockshell {{.Version}}\n")
	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&a.workspace, "workspace", "w", "", "workspace (perspective) name")
	pf.StringVar(&a.size, "size", "", "layout size in pixels as WxH (default 1200x800)")

	root.AddCommand(
		newVersionCmd(a),
		newDemoCmd(a),
		newShowCmd(a),
		newValidateCmd(a),
		newConvertCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
		newPerspectiveCmd(a),
		newConfigCmd(a),
		newTUICmd(a),
		newUICmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, pw, err := config.Load()
	if err != nil {
		return err
	}
	if a.workspace != "" {
		cfg.General.Workspace = a.workspace
	}
	a.cfg, a.password = cfg, pw
	if dir, err := config.ConfigDir(); err == nil {
		crash.ReportDir = filepath.Join(dir, "crash")
	}

	opts := applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   a.errOut,
		Color:     cfg.Logging.Color,
	}
	if a.verbose {
		opts.Level = "debug"
	}
	if cmd.Annotations[annQuiet] == "true" {
		opts.Console = io.Discard
	}
	applog.Init(opts)
	a.log = applog.WithOperation(applog.WithComponent("cli"), cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = applog.ContextWithWorkspace(ctx, cfg.General.Workspace)
	cmd.SetContext(ctx)
	a.log.DebugContext(ctx, "config loaded", slog.String("store", cfg.Store.Driver))
	return nil
}

func (a *app) bounds() (geom.Rect, error) {
	if a.size == "" {
		return workbench.DemoBounds, nil
	}
	return parseSize(a.size)
}

func parseSize(s string) (geom.Rect, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geom.Rect{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return geom.Rect{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	return geom.R(0, 0, w, h), nil
}

// session builds a session from the configuration. Without a file it holds
// the demo layout. A load that only partly applied returns the session and
// the load error.
func (a *app) session(file string, strict bool) (*workbench.Session, error) {
	b, err := a.bounds()
	if err != nil {
		return nil, err
	}
	opts := workbench.OptionsFrom(a.cfg)
	opts.Bounds = b
	opts.Strict = strict
	opts.Telemetry = telemetry.Default()
	opts.Store = a.store
	if dir, err := config.ConfigDir(); err == nil {
		opts.AutosaveDir = dir
	}
	if file == "" {
		return workbench.Demo(opts)
	}
	s := workbench.New(opts)
	return s, s.LoadFile(file)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, "dockshell", version.String())
		},
	}
}
