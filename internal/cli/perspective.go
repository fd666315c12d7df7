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
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"godockshell/internal/perspack"
	"godockshell/internal/storage"
	"godockshell/internal/workbench"
)

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(st *storage.SQLStore) error) error {
	st, err := workbench.OpenStore(cmd.Context(), a.cfg.Store, a.password)
	if err != nil {
		return fmt.Errorf("open perspective store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.log.Warn("close store", slog.Any("err", err))
		}
	}()
	a.log.DebugContext(cmd.Context(), "store opened", slog.String("driver", st.Driver()), slog.String("location", st.Location()))
	a.store = st
	defer func() { a.store = nil }()
	return fn(st)
}

func (a *app) name(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.General.Workspace
}

func newPerspectiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "perspective",
		Aliases: []string{"p"},
		Short:   "Manage named layouts in the perspective store",
	}

	var from string
	save := &cobra.Command{
		Use:   "save [name]",
		Short: "Store a layout file (or the demo) as a new version of name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				s, err := a.session(from, false)
				if err != nil {
					return err
				}
				id, err := s.SavePerspective(cmd.Context(), a.name(args))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "saved %s (version %d)\n", a.name(args), id)
				return nil
			})
		},
	}
	save.Flags().StringVarP(&from, "from", "f", "", "layout file to store (default: demo layout)")

	var out string
	load := &cobra.Command{
		Use:   "load [name]",
		Short: "Write the newest version of name to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				s, err := a.session("", false)
				if err != nil {
					return err
				}
				if err := s.LoadPerspective(cmd.Context(), a.name(args)); err != nil {
					return err
				}
				if out == "" {
					return printFrame(a.out, s.Frame())
				}
				if err := s.SaveFile(out); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "wrote", out)
				return nil
			})
		},
	}
	load.Flags().StringVarP(&out, "out", "o", "", "output file (default: print the geometry)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored perspectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				sums, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tVERSIONS\tBYTES\tUPDATED")
				for _, s := range sums {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Name, s.Count, s.Bytes, s.Updated.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history [name]",
		Short: "List the stored versions of name, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				snaps, err := st.History(cmd.Context(), a.name(args), limit)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSAVED\tBYTES")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%d\t%s\t%d\n", s.ID, s.TS.Local().Format(time.DateTime), len(s.Blob))
				}
				return tw.Flush()
			})
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 20, "maximum versions to show")

	var keep int
	prune := &cobra.Command{
		Use:   "prune [name]",
		Short: "Delete all but the newest versions of name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				n, err := st.Prune(cmd.Context(), a.name(args), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "pruned %d version(s)\n", n)
				return nil
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 5, "versions to keep")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete every version of name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				n, err := st.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "deleted %s (%s version(s))\n", args[0], strconv.FormatInt(n, 10))
				return nil
			})
		},
	}

	pack := &cobra.Command{
		Use:   "pack <zip> [name...]",
		Short: "Write the newest version of perspectives (default: all) to a zip pack",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				n, err := perspack.Export(cmd.Context(), st, args[1:], args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "packed %d perspective(s) into %s\n", n, args[0])
				return nil
			})
		},
	}

	install := &cobra.Command{
		Use:   "install <zip>",
		Short: "Add the perspectives of a pack; existing names are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st *storage.SQLStore) error {
				n, err := perspack.Install(cmd.Context(), st, args[0], time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "installed %d perspective(s)\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(save, load, list, history, prune, del, pack, install)
	return cmd
}
