/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dock

import (
	"strconv"

	"github.com/google/uuid"
)

// IDAllocator hands out ids for parts the engine creates on its own (tab groups
// made by Stack, placeholder stand-ins made by ZoomIn).
type IDAllocator interface {
	Next(prefix string) string
}

// SequentialAllocator yields prefix-1, prefix-2, ... and is meant for tests and
// reproducible demos. The zero value is ready to use.
type SequentialAllocator struct{ n int }

func (a *SequentialAllocator) Next(prefix string) string {
	a.n++
	return prefix + "-" + strconv.Itoa(a.n)
}

// UUIDAllocator yields prefix-<uuid>, unique across sessions so persisted ids
// never collide with freshly allocated ones.
type UUIDAllocator struct{}

func (UUIDAllocator) Next(prefix string) string { return prefix + "-" + uuid.NewString() }
