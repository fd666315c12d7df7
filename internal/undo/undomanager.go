/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps per-workspace undo/redo histories of serialized layouts.
//
// Callers push the layout as it was before a change. Undo hands that state
// back in exchange for the current one, which becomes redoable.
package undo

import (
	"sync"
	"time"
)

// Snapshot is one serialized layout in a workspace history.
type Snapshot struct {
	Workspace string
	// Label names the operation that followed the snapshot ("resize", "move", ...).
	Label string
	Blob  []byte
	TS    time.Time
	// Coalesce marks steps of a continuous gesture that may merge with the
	// previous entry.
	Coalesce bool
}

// Config bounds the history.
type Config struct {
	// MaxBytes caps the undo blobs across all workspaces; oldest snapshots go first.
	MaxBytes int
	// MaxDepth caps the undo stack of a single workspace.
	MaxDepth int
	// CoalesceWindow merges same-label snapshots closer together than this.
	CoalesceWindow time.Duration
}

// Manager is safe for concurrent use.
type Manager struct {
	cfg        Config
	mu         sync.Mutex
	undo       map[string][]Snapshot
	redo       map[string][]Snapshot
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 8 * 1024 * 1024 // 8 MiB
	}
	if cfg.CoalesceWindow < 0 {
		cfg.CoalesceWindow = 0
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records the state before a change and clears the workspace's redo
// stack. A coalescing snapshot that follows a coalescing entry with the same
// label inside the window is dropped: the earlier state is the one to return
// to. Push reports whether a new entry was stored.
func (m *Manager) Push(s Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearRedoLocked(s.Workspace)
	stack := m.undo[s.Workspace]
	if n := len(stack); n > 0 && s.Coalesce {
		last := stack[n-1]
		if last.Coalesce && last.Label == s.Label && s.TS.Sub(last.TS) < m.cfg.CoalesceWindow {
			// slide the window so a continuous drag stays one entry
			stack[n-1].TS = s.TS
			return false
		}
	}
	m.undo[s.Workspace] = append(stack, s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(s.Workspace)
	return true
}

// Undo pops the newest snapshot of ws and pushes current onto the redo stack.
func (m *Manager) Undo(ws string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[ws]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[ws] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[ws] = append(m.redo[ws], Snapshot{Workspace: ws, Label: s.Label, Blob: current, TS: time.Now()})
	return s, true
}

// Redo pops the newest redo entry of ws and pushes current back onto the undo stack.
func (m *Manager) Redo(ws string, current []byte) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[ws]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[ws] = r[:len(r)-1]
	m.undo[ws] = append(m.undo[ws], Snapshot{Workspace: ws, Label: s.Label, Blob: current, TS: time.Now()})
	m.totalBytes += len(current)
	m.enforceCapsLocked(ws)
	return s, true
}

func (m *Manager) CanUndo(ws string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[ws]) > 0
}

func (m *Manager) CanRedo(ws string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[ws]) > 0
}

// Clear forgets both stacks of ws.
func (m *Manager) Clear(ws string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[ws] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, ws)
	delete(m.redo, ws)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats reports undo bytes, workspaces with undo history and undo entries.
func (m *Manager) Stats() (totalBytes int, workspaces int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	workspaces = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, workspaces, totalSnapshots
}

func (m *Manager) clearRedoLocked(ws string) {
	delete(m.redo, ws)
}

func (m *Manager) enforceCapsLocked(ws string) {
	if m.cfg.MaxDepth > 0 {
		stack := m.undo[ws]
		if len(stack) > m.cfg.MaxDepth {
			toDrop := len(stack) - m.cfg.MaxDepth
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[ws] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global cap: drop the oldest bottom entry across workspaces.
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestWS := ""
		found := false
		var oldestTS time.Time
		for key, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestWS = key
				oldestTS = stack[0].TS
				found = true
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestWS]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestWS] = stack[1:]
		if len(m.undo[oldestWS]) == 0 {
			delete(m.undo, oldestWS)
		}
	}
}
