/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package persist

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"godockshell/internal/dock"
	applog "godockshell/internal/log"
)

var (
	ErrUnknownRelative = errors.New("relative part not restored")
	ErrBadRecord       = errors.New("malformed layout record")
	ErrUnsupported     = errors.New("unsupported layout version")
)

// Tags and keys of the layout document.
const (
	TagLayout = "layout"
	TagPart   = "part"
	TagTab    = "tab"

	keyVersion      = "version"
	keyID           = "id"
	keyKind         = "kind"
	keyTitle        = "title"
	keyRelative     = "relative"
	keyRelationship = "relationship"
	keyRatio        = "ratio"
	keySelected     = "selected"
	keyZoomed       = "zoomed"

	kindPane        = "pane"
	kindPlaceholder = "placeholder"
	kindTabs        = "tabs"

	// FormatVersion is written into every layout document.
	FormatVersion = 1
)

// PartInfo is what a layout document knows about a part besides its id.
type PartInfo struct {
	Kind  string
	Title string
}

// Factory builds the host part for id. Returning nil restores a placeholder
// that keeps the part's position until the host adds it.
type Factory func(id string, info PartInfo) dock.Part

// Titled is implemented by parts whose title should be persisted.
type Titled interface {
	Title() string
}

// Save flattens the tree under root into ordered relationship records.
func Save(root dock.Node) []dock.RelationshipInfo { return dock.Flatten(root) }

// Restore replays records into c. A record whose relative was never restored
// is skipped and reported; the rest still apply.
func Restore(c *dock.SashContainer, records []dock.RelationshipInfo) []error {
	l := applog.WithOperation(applog.WithComponent("persist"), "restore")
	byID := map[string]dock.Part{}
	var errs []error
	for i, r := range records {
		if r.Part == nil {
			errs = append(errs, fmt.Errorf("record %d: %w: no part", i, ErrBadRecord))
			continue
		}
		var err error
		if r.Relative == nil {
			err = c.Add(r.Part)
		} else {
			rel, ok := byID[r.Relative.ID()]
			if !ok {
				err = fmt.Errorf("record %d (%s): %w: %q", i, r.Part.ID(), ErrUnknownRelative, r.Relative.ID())
				l.Warn("layout record skipped", slog.String("part", r.Part.ID()), slog.String("relative", r.Relative.ID()))
				errs = append(errs, err)
				continue
			}
			err = c.AddRelative(r.Part, r.Relationship, r.Ratio, rel)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s): %w", i, r.Part.ID(), err))
			continue
		}
		byID[r.Part.ID()] = r.Part
	}
	return errs
}

// Encode writes c's layout into m: one part child per relationship record,
// tab groups with their tabs nested, and the zoomed part if any.
func Encode(m Memento, c *dock.SashContainer) {
	m.PutFloat(keyVersion, FormatVersion)
	for _, info := range c.Relationships() {
		child := m.CreateChild(TagPart)
		encodePart(child, info.Part)
		if info.Relative != nil {
			child.PutString(keyRelative, info.Relative.ID())
			child.PutString(keyRelationship, info.Relationship.String())
			child.PutFloat(keyRatio, info.Ratio)
		}
	}
	if z := c.Zoomed(); z != nil {
		m.PutString(keyZoomed, z.ID())
	}
}

func encodePart(m Memento, p dock.Part) {
	m.PutString(keyID, p.ID())
	switch v := p.(type) {
	case *dock.Placeholder:
		m.PutString(keyKind, kindPlaceholder)
	case *dock.TabGroup:
		m.PutString(keyKind, kindTabs)
		for _, t := range v.Children() {
			encodePart(m.CreateChild(TagTab), t)
		}
		if sel := v.Selected(); sel != nil {
			m.PutString(keySelected, sel.ID())
		}
	default:
		m.PutString(keyKind, kindPane)
		if t, ok := p.(Titled); ok && t.Title() != "" {
			m.PutString(keyTitle, t.Title())
		}
	}
}

// Decode rebuilds the layout stored in m into c, asking f for every pane.
// Problems with individual records are returned; decoding never stops early.
func Decode(m Memento, c *dock.SashContainer, f Factory) []error {
	if v, ok := m.GetFloat(keyVersion); ok && int(v) > FormatVersion {
		return []error{fmt.Errorf("%w: %s", ErrUnsupported, strconv.Itoa(int(v)))}
	}
	var (
		records []dock.RelationshipInfo
		errs    []error
	)
	for i, pm := range m.Children(TagPart) {
		id, ok := pm.GetString(keyID)
		if !ok || id == "" {
			errs = append(errs, fmt.Errorf("part %d: %w: missing id", i, ErrBadRecord))
			continue
		}
		part, perrs := decodePart(pm, id, f)
		errs = append(errs, perrs...)
		info := dock.RelationshipInfo{Part: part}
		if rel, ok := pm.GetString(keyRelative); ok {
			relName, _ := pm.GetString(keyRelationship)
			r, err := dock.ParseRelationship(relName)
			if err != nil {
				errs = append(errs, fmt.Errorf("part %q: %w: %v", id, ErrBadRecord, err))
				continue
			}
			ratio, _ := pm.GetFloat(keyRatio)
			info.Relative = dock.NewPlaceholder(rel)
			info.Relationship = r
			info.Ratio = ratio
		}
		records = append(records, info)
	}
	errs = append(errs, Restore(c, records)...)
	if id, ok := m.GetString(keyZoomed); ok && id != "" {
		if p := c.FindPart(id); p != nil {
			if err := c.ZoomIn(c.TopLevel(p)); err != nil {
				errs = append(errs, fmt.Errorf("zoom %q: %w", id, err))
			}
		}
	}
	return errs
}

func decodePart(m Memento, id string, f Factory) (dock.Part, []error) {
	kind, _ := m.GetString(keyKind)
	title, _ := m.GetString(keyTitle)
	switch kind {
	case kindPlaceholder:
		return dock.NewPlaceholder(id), nil
	case kindTabs:
		var errs []error
		g := dock.NewTabGroup(id)
		for _, tm := range m.Children(TagTab) {
			tid, ok := tm.GetString(keyID)
			if !ok || tid == "" {
				errs = append(errs, fmt.Errorf("tab group %q: %w: tab without id", id, ErrBadRecord))
				continue
			}
			tt, _ := tm.GetString(keyTitle)
			p := build(f, tid, PartInfo{Kind: kindPane, Title: tt})
			if dock.IsPlaceholder(p) {
				errs = append(errs, fmt.Errorf("tab group %q: tab %q has no part", id, tid))
				continue
			}
			_ = g.Add(p)
		}
		if g.Len() == 0 {
			return dock.NewPlaceholder(id), errs
		}
		if sel, ok := m.GetString(keySelected); ok {
			for _, t := range g.Children() {
				if t.ID() == sel {
					_ = g.Select(t)
				}
			}
		}
		return g, errs
	default:
		return build(f, id, PartInfo{Kind: kindPane, Title: title}), nil
	}
}

func build(f Factory, id string, info PartInfo) dock.Part {
	if f != nil {
		if p := f(id, info); p != nil {
			return p
		}
	}
	return dock.NewPlaceholder(id)
}

// EncodeRecord is Encode into a fresh layout Record.
func EncodeRecord(c *dock.SashContainer) *Record {
	r := NewRecord(TagLayout)
	Encode(r, c)
	return r
}
