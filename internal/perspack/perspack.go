/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package perspack moves perspectives between stores as zip archives. A pack
// holds the newest version of each perspective as a JSON layout document
// under perspectives/, plus a short text manifest.
package perspack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	applog "godockshell/internal/log"
	"godockshell/internal/persist"
	"godockshell/internal/storage"
)

const (
	manifestName = "perspack.manifest.txt"
	entryDir     = "perspectives/"
)

// Export writes the newest version of each named perspective, or of every
// perspective when names is empty, to a pack at dest. It returns the number
// of perspectives written.
func Export(ctx context.Context, st storage.Store, names []string, dest string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("perspack"), "export")
	if strings.TrimSpace(dest) == "" {
		return 0, errors.New("destination path is required")
	}
	if len(names) == 0 {
		sums, err := st.List(ctx)
		if err != nil {
			return 0, err
		}
		for _, s := range sums {
			names = append(names, s.Name)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("ensure pack dir: %w", err)
	}
	tmp := dest + ".tmp"
	zf, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create pack: %w", err)
	}
	n, err := writePack(ctx, zf, st, names)
	if cerr := zf.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dest)
	}
	if err != nil {
		_ = os.Remove(tmp)
		l.Error("pack build failed", slog.Any("err", err))
		return 0, fmt.Errorf("build pack: %w", err)
	}
	l.Info("perspective pack exported", slog.Int("perspectives", n), slog.String("zip", dest))
	return n, nil
}

func writePack(ctx context.Context, w io.Writer, st storage.Store, names []string) (int, error) {
	zw := zip.NewWriter(w)
	manifest := fmt.Sprintf("DockShell Perspective Pack\nCreated: %s\nPerspectives: %s\n",
		time.Now().Format(time.RFC3339), strings.Join(names, ", "))
	mw, err := zw.Create(manifestName)
	if err != nil {
		return 0, err
	}
	if _, err := io.WriteString(mw, manifest); err != nil {
		return 0, err
	}
	for _, name := range names {
		snap, err := st.Latest(ctx, name)
		if err != nil {
			return 0, err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: entryDir + url.PathEscape(name) + ".json", Method: zip.Deflate, Modified: snap.TS})
		if err != nil {
			return 0, err
		}
		if _, err := fw.Write(snap.Blob); err != nil {
			return 0, err
		}
	}
	return len(names), zw.Close()
}

// Install saves every perspective of the pack at src into st, stamped now.
// Names the store already holds are skipped. It returns the number installed.
func Install(ctx context.Context, st storage.Store, src string, now time.Time) (int, error) {
	l := applog.WithOperation(applog.WithComponent("perspack"), "install")
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		dir, file := path.Split(f.Name)
		if dir != entryDir || !strings.HasSuffix(file, ".json") {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(file, ".json"))
		if err != nil || name == "" {
			l.Warn("skip bad entry", slog.String("entry", f.Name))
			continue
		}
		if _, err := st.Latest(ctx, name); err == nil {
			l.Warn("skip existing perspective", slog.String("name", name))
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return installed, err
		}
		blob, err := readEntry(f)
		if err != nil {
			return installed, err
		}
		if err := persist.ValidateJSON(blob); err != nil {
			return installed, fmt.Errorf("%s: %w", f.Name, err)
		}
		if _, err := st.Save(ctx, name, blob, now); err != nil {
			return installed, err
		}
		installed++
	}
	l.Info("perspective pack installed", slog.Int("perspectives", installed))
	return installed, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
