/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package persist saves and restores layouts. The codec talks to a
// hierarchical key/value sink (Memento); Record is the in-memory sink, and
// it is what gets written to JSON, YAML or TOML files and to store blobs.
package persist

import "slices"

// Memento is a hierarchical key/value store the codec writes into and reads
// back from.
type Memento interface {
	CreateChild(tag string) Memento
	Children(tag string) []Memento
	PutString(key, value string)
	PutFloat(key string, v float64)
	GetString(key string) (string, bool)
	GetFloat(key string) (float64, bool)
}

// Record is the in-memory Memento.
type Record struct {
	Tag     string             `json:"tag" yaml:"tag" toml:"tag"`
	Strings map[string]string  `json:"strings,omitempty" yaml:"strings,omitempty" toml:"strings,omitempty"`
	Floats  map[string]float64 `json:"floats,omitempty" yaml:"floats,omitempty" toml:"floats,omitempty"`
	Nodes   []*Record          `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

var _ Memento = (*Record)(nil)

func NewRecord(tag string) *Record { return &Record{Tag: tag} }

func (r *Record) CreateChild(tag string) Memento {
	c := NewRecord(tag)
	r.Nodes = append(r.Nodes, c)
	return c
}

// Children returns the direct children with the given tag, in order.
func (r *Record) Children(tag string) []Memento {
	var out []Memento
	for _, c := range r.Nodes {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func (r *Record) PutString(key, value string) {
	if r.Strings == nil {
		r.Strings = map[string]string{}
	}
	r.Strings[key] = value
}

func (r *Record) PutFloat(key string, v float64) {
	if r.Floats == nil {
		r.Floats = map[string]float64{}
	}
	r.Floats[key] = v
}

func (r *Record) GetString(key string) (string, bool) {
	v, ok := r.Strings[key]
	return v, ok
}

func (r *Record) GetFloat(key string) (float64, bool) {
	v, ok := r.Floats[key]
	return v, ok
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := &Record{Tag: r.Tag}
	if r.Strings != nil {
		c.Strings = make(map[string]string, len(r.Strings))
		for k, v := range r.Strings {
			c.Strings[k] = v
		}
	}
	if r.Floats != nil {
		c.Floats = make(map[string]float64, len(r.Floats))
		for k, v := range r.Floats {
			c.Floats[k] = v
		}
	}
	for _, ch := range r.Nodes {
		c.Nodes = append(c.Nodes, ch.Clone())
	}
	return c
}

// Equal compares two records structurally; nil and empty maps are equal.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Tag != o.Tag || len(r.Strings) != len(o.Strings) || len(r.Floats) != len(o.Floats) {
		return false
	}
	for k, v := range r.Strings {
		if w, ok := o.Strings[k]; !ok || w != v {
			return false
		}
	}
	for k, v := range r.Floats {
		if w, ok := o.Floats[k]; !ok || w != v {
			return false
		}
	}
	return slices.EqualFunc(r.Nodes, o.Nodes, (*Record).Equal)
}
