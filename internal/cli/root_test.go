/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"godockshell/internal/config"
	"godockshell/internal/geom"
	"godockshell/internal/persist"
)

type memKeyring map[string]string

func (m memKeyring) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", config.ErrNoSecret
	}
	return v, nil
}

func (m memKeyring) Set(service, key, value string) error {
	m[service+"/"+key] = value
	return nil
}

func (m memKeyring) Delete(service, key string) error {
	delete(m, service+"/"+key)
	return nil
}

// sandbox points config, store and keychain at temporary locations.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvStoreDriver, "sqlite")
	prev := config.SetTokenStore(memKeyring{})
	t.Cleanup(func() { config.SetTokenStore(prev) })
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestVersionAndConfig(t *testing.T) {
	sandbox(t)
	if out := mustRun(t, "version"); !strings.HasPrefix(out, "dockshell ") {
		t.Fatalf("version output = %q", out)
	}
	out := mustRun(t, "config", "show", "--workspace", "ide")
	if !strings.Contains(out, "workspace: ide") {
		t.Fatalf("config show = %s", out)
	}
	mustRun(t, "config", "init")
	p := strings.TrimSpace(mustRun(t, "config", "path"))
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config init did not write %s: %v", p, err)
	}
}

func TestDemoShowConvertValidate(t *testing.T) {
	dir := sandbox(t)

	out := mustRun(t, "demo", "--format", "json")
	if _, err := persist.Unmarshal([]byte(out), persist.JSON); err != nil {
		t.Fatalf("demo json does not parse: %v", err)
	}

	yml := filepath.Join(dir, "layout.yaml")
	mustRun(t, "demo", "--out", yml)
	show := mustRun(t, "show", yml)
	for _, want := range []string{"project", "outline", "sash", "[Editor]"} {
		if !strings.Contains(show, want) {
			t.Fatalf("show output lacks %q:\n%s", want, show)
		}
	}

	tml := filepath.Join(dir, "layout.toml")
	mustRun(t, "convert", yml, tml)
	if out := mustRun(t, "validate", tml); !strings.HasPrefix(out, "ok ") {
		t.Fatalf("validate = %q", out)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"tag":""}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "validate", bad); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := run(t, "show", "--size", "12by9"); err == nil {
		t.Fatalf("expected size error")
	}
}

func TestExport(t *testing.T) {
	dir := sandbox(t)
	out := mustRun(t, "export", "--format", "svg,png", "-o", dir, "--name", "wire")
	for _, ext := range []string{"svg", "png"} {
		p := filepath.Join(dir, "wire."+ext)
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s (output %q)", p, out)
		}
	}
	if _, err := run(t, "export", "--format", "gif", "-o", dir); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestPerspectiveCommands(t *testing.T) {
	dir := sandbox(t)
	mustRun(t, "perspective", "save", "ide")
	mustRun(t, "perspective", "save", "ide", "--size", "1000x700")
	if out := mustRun(t, "perspective", "list"); !strings.Contains(out, "ide") {
		t.Fatalf("list = %s", out)
	}
	hist := mustRun(t, "perspective", "history", "ide")
	if n := strings.Count(strings.TrimSpace(hist), "\n"); n != 2 {
		t.Fatalf("history rows = %d:\n%s", n, hist)
	}

	out := filepath.Join(dir, "ide.json")
	mustRun(t, "perspective", "load", "ide", "-o", out)
	if _, err := persist.ReadFile(out); err != nil {
		t.Fatalf("loaded perspective: %v", err)
	}
	zipPath := filepath.Join(dir, "pack.zip")
	if got := mustRun(t, "perspective", "pack", zipPath); !strings.Contains(got, "packed 1") {
		t.Fatalf("pack = %q", got)
	}
	if got := mustRun(t, "perspective", "install", zipPath); !strings.Contains(got, "installed 0") {
		t.Fatalf("install over existing = %q", got)
	}
	if got := mustRun(t, "perspective", "prune", "ide", "--keep", "1"); !strings.Contains(got, "pruned 1") {
		t.Fatalf("prune = %q", got)
	}
	if got := mustRun(t, "perspective", "delete", "ide"); !strings.Contains(got, "1 version") {
		t.Fatalf("delete = %q", got)
	}
	if _, err := run(t, "perspective", "load", "ide"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestParseSize(t *testing.T) {
	r, err := parseSize(" 640X480 ")
	if err != nil || r != geom.R(0, 0, 640, 480) {
		t.Fatalf("parseSize = %v, %v", r, err)
	}
	for _, bad := range []string{"640", "x480", "0x10", "axb"} {
		if _, err := parseSize(bad); err == nil {
			t.Fatalf("parseSize(%q) should fail", bad)
		}
	}
}
