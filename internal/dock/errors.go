/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"errors"
	"fmt"
)

var (
	ErrNotAChild     = errors.New("part is not a child of this container")
	ErrAlreadyChild  = errors.New("part is already a child of this container")
	ErrAlreadyZoomed = errors.New("container is already zoomed")
	ErrNotZoomed     = errors.New("container is not zoomed")
	ErrNilPart       = errors.New("nil part")
	ErrSamePart      = errors.New("part and reference are the same")
	ErrPlaceholder   = errors.New("operation not supported on a placeholder")
	ErrUnknownSash   = errors.New("sash does not belong to this container")
	ErrNoSashDrag    = errors.New("no sash drag in progress")
)

// NotAChildError reports a structural request naming a part the container does
// not hold. It matches ErrNotAChild with errors.Is.
type NotAChildError struct {
	Op     string
	PartID string
}

func (e *NotAChildError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.PartID, ErrNotAChild)
}

func (e *NotAChildError) Is(target error) bool { return target == ErrNotAChild }

func notAChild(op string, p Part) error {
	id := ""
	if p != nil {
		id = p.ID()
	}
	return &NotAChildError{Op: op, PartID: id}
}
