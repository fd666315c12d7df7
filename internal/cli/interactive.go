/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"godockshell/internal/crash"
	"godockshell/internal/tui"
	"godockshell/internal/ui"
	"godockshell/internal/workbench"
)

// interactive opens the store, builds the session from file (or the demo),
// loads the named perspective when one is given and hands the session to run.
// Without a reachable store the session still runs, only saving to file.
func (a *app) interactive(cmd *cobra.Command, file, perspective string, run func(*workbench.Session) error) error {
	st, err := workbench.OpenStore(cmd.Context(), a.cfg.Store, a.password)
	if err != nil {
		if perspective != "" {
			return fmt.Errorf("open perspective store: %w", err)
		}
		a.log.Warn("perspective store unavailable", slog.Any("err", err))
	} else {
		a.store = st
		defer func() {
			a.store = nil
			if err := st.Close(); err != nil {
				a.log.Warn("close store", slog.Any("err", err))
			}
		}()
	}
	s, err := a.session(file, false)
	if err != nil {
		return err
	}
	if perspective != "" {
		if err := s.LoadPerspective(cmd.Context(), perspective); err != nil {
			return err
		}
	}
	return run(s)
}

func newTUICmd(a *app) *cobra.Command {
	var perspective string
	cmd := &cobra.Command{
		Use:         "tui [file]",
		Short:       "Edit a layout in the terminal",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return a.interactive(cmd, file, perspective, func(s *workbench.Session) error {
				defer crash.Recover(s)
				return tui.Run(cmd.Context(), s, tui.Options{SavePath: file})
			})
		},
	}
	cmd.Flags().StringVarP(&perspective, "perspective", "p", "", "start from the newest version of a stored perspective")
	return cmd
}

func newUICmd(a *app) *cobra.Command {
	var perspective string
	cmd := &cobra.Command{
		Use:   "ui [file]",
		Short: "Edit a layout in the desktop UI (builds with -tags fyne)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return a.interactive(cmd, file, perspective, func(s *workbench.Session) error {
				defer crash.Recover(s)
				return ui.Run(cmd.Context(), s, ui.Options{SavePath: file})
			})
		},
	}
	cmd.Flags().StringVarP(&perspective, "perspective", "p", "", "start from the newest version of a stored perspective")
	return cmd
}
