/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workbench

import (
	"context"
	"fmt"
	"strings"

	"godockshell/internal/config"
	"godockshell/internal/storage"
	"godockshell/internal/undo"
)

// OpenStore opens the perspective store the configuration names.
func OpenStore(ctx context.Context, sc config.StoreConfig, password string) (*storage.SQLStore, error) {
	switch strings.ToLower(sc.Driver) {
	case "", "sqlite":
		path, err := sc.ResolveSQLitePath()
		if err != nil {
			return nil, err
		}
		return storage.OpenSQLite(path)
	case "postgres", "postgresql", "pgx":
		dsn, err := sc.PostgresURL(password)
		if err != nil {
			return nil, err
		}
		return storage.OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// OptionsFrom derives session options from the application configuration.
// The store is left for the caller to open.
func OptionsFrom(cfg config.AppConfig) Options {
	return Options{
		Workspace:  cfg.General.Workspace,
		Keep:       cfg.Store.KeepHistory,
		Hysteresis: cfg.Layout.DragHysteresis,
		Undo: undo.NewManager(undo.Config{
			MaxBytes:       cfg.Layout.UndoMaxBytes,
			MaxDepth:       cfg.Layout.UndoMaxDepth,
			CoalesceWindow: cfg.Layout.CoalesceWindow(),
		}),
	}
}
