/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"fmt"
	"strings"
)

// Relationship places a part relative to another one.
type Relationship int

const (
	Left Relationship = iota
	Right
	Top
	Bottom
)

var relationshipNames = [...]string{"left", "right", "top", "bottom"}

func (r Relationship) String() string {
	if r < Left || r > Bottom {
		return fmt.Sprintf("Relationship(%d)", int(r))
	}
	return relationshipNames[r]
}

// ParseRelationship accepts the lower-case names produced by String.
func ParseRelationship(s string) (Relationship, error) {
	for i, n := range relationshipNames {
		if strings.EqualFold(s, n) {
			return Relationship(i), nil
		}
	}
	return 0, fmt.Errorf("unknown relationship %q", s)
}

// Orientation is the sash orientation a split in this direction needs.
func (r Relationship) Orientation() Orientation {
	if r == Top || r == Bottom {
		return Horizontal
	}
	return Vertical
}

// placesFirst reports whether the new part becomes the left/top child.
func (r Relationship) placesFirst() bool { return r == Left || r == Top }

// RelationshipInfo is one flattened edge of a tree: Part sits at Relationship
// of Relative, and Ratio is the left/top fraction of the splitting sash. The
// first record of a flattening has a nil Relative and anchors the layout.
type RelationshipInfo struct {
	Part         Part
	Relative     Part
	Relationship Relationship
	Ratio        float64
}
