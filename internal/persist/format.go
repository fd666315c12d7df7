/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Format of a layout document on disk or in a store blob.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return "json"
	}
}

var (
	ErrSchema        = errors.New("layout document does not match schema")
	ErrUnknownFormat = errors.New("unknown layout file format")
)

//go:embed schema/layout.schema.json
var layoutSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(layoutSchema)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ParseFormat accepts the names produced by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ValidateJSON checks a JSON layout document against the embedded schema.
func ValidateJSON(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// Marshal encodes r in format f.
func Marshal(r *Record, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(r, "", "  ")
	case YAML:
		return yaml.Marshal(r)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, ErrUnknownFormat
}

// Unmarshal decodes a layout document; JSON input is schema-checked first.
func Unmarshal(data []byte, f Format) (*Record, error) {
	var r Record
	switch f {
	case JSON:
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
	case YAML:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, err
		}
	case TOML:
		if _, err := toml.Decode(string(data), &r); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFormat
	}
	if r.Tag == "" {
		return nil, fmt.Errorf("%w: missing tag", ErrBadRecord)
	}
	return &r, nil
}

// WriteFile stores r at path in the format its extension names. The file is
// written next to the target and renamed over it.
func WriteFile(path string, r *Record) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(r, f)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadFile loads a layout document, picking the format by extension.
func ReadFile(path string) (*Record, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
