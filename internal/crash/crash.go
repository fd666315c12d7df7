/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file and a last-chance layout
// autosave before exiting.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "godockshell/internal/log"
	"godockshell/internal/telemetry"
	"godockshell/internal/version"
)

// Autosaver persists the live layout and returns where it went.
type Autosaver interface {
	Autosave() (string, error)
}

// ReportDir is where reports go. Empty means the temp dir.
var ReportDir string

var exitFn = os.Exit

// Recover must be deferred directly:
//
//	defer crash.Recover(session)
//
// a may be nil.
func Recover(a Autosaver) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(ReportDir, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if a != nil {
		if path, err := autosave(a); err != nil {
			l.Error("crash autosave failed", slog.Any("err", err))
		} else {
			l.Info("crash autosave written", slog.String("path", path))
		}
	}
	_, _ = fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// autosave runs a.Autosave, turning a second panic into an error.
func autosave(a Autosaver) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("autosave panicked: %v", r)
		}
	}()
	return a.Autosave()
}

func writeReport(dir string, panicVal any, stack []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("dockshell-crash-%s.log", now.Format("20060102-150405.000")))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "DockShell Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
