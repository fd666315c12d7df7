/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dock implements the dockable-pane layout engine: a binary sash tree
// whose leaves hold parts (panes, tab groups or placeholders) and whose forks
// hold a sash describing one resizable split.
//
// The engine is single-threaded. All mutation, geometry and drag bookkeeping
// is expected to run on the host's UI goroutine; nothing here takes a lock.
//
// Mutation methods return an error when the request is invalid (not a child,
// already zoomed, ...). A non-nil error always means that no mutation took
// place, so callers may treat errors as the silent no-op of a UI gesture or
// assert on them in tests.
package dock
