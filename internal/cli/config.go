/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"godockshell/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the user configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := a.cfg
				cfg.Store.PostgresDSN = config.StripPassword(cfg.Store.PostgresDSN)
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := config.ConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the effective configuration to the configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := config.Save(a.cfg, ""); err != nil {
					return err
				}
				p, _ := config.ConfigPath()
				fmt.Fprintln(a.out, "wrote", p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-password",
			Short: "Read the store password from stdin into the OS keychain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				pw := strings.TrimRight(line, "\r\n")
				if pw == "" {
					if err != nil {
						return fmt.Errorf("read password: %w", err)
					}
					return fmt.Errorf("empty password")
				}
				return config.Save(a.cfg, pw)
			},
		},
		&cobra.Command{
			Use:   "forget-password",
			Short: "Remove the store password from the OS keychain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return config.ForgetPassword()
			},
		},
	)
	return cmd
}
