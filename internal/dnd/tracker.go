/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"errors"
	"log/slog"

	"godockshell/internal/dock"
	"godockshell/internal/geom"
	applog "godockshell/internal/log"
)

// State of a drag gesture.
type State int

const (
	Idle State = iota
	Armed
	Tracking
	Committed
	Cancelled
)

var stateNames = [...]string{"idle", "armed", "tracking", "committed", "cancelled"}

func (s State) String() string {
	if s < Idle || s > Cancelled {
		return "unknown"
	}
	return stateNames[s]
}

// DefaultHysteresis is how far, in pixels, the pointer must travel from the
// press before a drag starts tracking.
const DefaultHysteresis = 10

var (
	ErrBusy      = errors.New("a drag is already in progress")
	ErrNotArmed  = errors.New("no drag in progress")
	ErrCancelled = errors.New("drag cancelled")
)

type TrackerOptions struct {
	// Hysteresis overrides DefaultHysteresis when positive.
	Hysteresis int
	// OnEvent receives each classified event while tracking and on release.
	OnEvent func(DropEvent)
	Logger  *slog.Logger
}

// Tracker drives one drag gesture at a time over a container:
// Idle → Armed → Tracking → Committed | Cancelled.
type Tracker struct {
	c          *dock.SashContainer
	hysteresis int
	onEvent    func(DropEvent)
	log        *slog.Logger

	state  State
	source dock.Part
	origin geom.Point
	last   DropEvent
}

func NewTracker(c *dock.SashContainer, opts TrackerOptions) *Tracker {
	t := &Tracker{c: c, hysteresis: DefaultHysteresis, onEvent: opts.OnEvent, log: opts.Logger}
	if opts.Hysteresis > 0 {
		t.hysteresis = opts.Hysteresis
	}
	if t.log == nil {
		t.log = applog.WithComponent("dnd")
	}
	return t
}

func (t *Tracker) State() State { return t.state }

// Busy reports whether a gesture is armed or tracking.
func (t *Tracker) Busy() bool { return t.state == Armed || t.state == Tracking }

// Source is the part being dragged, nil when idle.
func (t *Tracker) Source() dock.Part { return t.source }

// Last is the most recent classified event.
func (t *Tracker) Last() DropEvent { return t.last }

// Arm records a press on source at p. A finished gesture is reset implicitly;
// an active one yields ErrBusy.
func (t *Tracker) Arm(source dock.Part, p geom.Point) error {
	if t.Busy() {
		return ErrBusy
	}
	if source == nil {
		return dock.ErrNilPart
	}
	t.state = Armed
	t.source = source
	t.origin = p
	t.last = DropEvent{}
	return nil
}

// Move feeds a pointer position. It returns the classified event and true
// once the gesture is tracking.
func (t *Tracker) Move(p geom.Point) (DropEvent, bool) {
	switch t.state {
	case Armed:
		d := p.Sub(t.origin)
		if d.X*d.X+d.Y*d.Y <= t.hysteresis*t.hysteresis {
			return DropEvent{}, false
		}
		t.state = Tracking
		t.log.Debug("drag started", slog.String("source", t.source.ID()))
	case Tracking:
	default:
		return DropEvent{}, false
	}
	t.emit(Resolve(t.c, t.source, p))
	return t.last, true
}

// Release is Finish(true, p).
func (t *Tracker) Release(p geom.Point) (DropEvent, error) { return t.Finish(true, p) }

// Finish ends the gesture. A committed finish over a valid target applies the
// drop; anything else, including a press that never left the hysteresis
// radius, ends Cancelled with no change to the layout.
func (t *Tracker) Finish(committed bool, p geom.Point) (DropEvent, error) {
	switch t.state {
	case Armed:
		t.state = Cancelled
		return DropEvent{}, ErrCancelled
	case Tracking:
	default:
		return DropEvent{}, ErrNotArmed
	}
	if !committed {
		t.state = Cancelled
		return t.last, ErrCancelled
	}
	ev := Resolve(t.c, t.source, p)
	t.emit(ev)
	if err := Apply(t.c, ev); err != nil {
		t.state = Cancelled
		t.log.Debug("drop rejected", slog.String("source", t.source.ID()), slog.String("zone", ev.RelativePosition.String()), slog.Any("err", err))
		return ev, err
	}
	t.state = Committed
	return ev, nil
}

// Cancel aborts an active gesture, as on the escape key.
func (t *Tracker) Cancel() {
	if t.Busy() {
		t.state = Cancelled
	}
}

// Reset returns the tracker to Idle.
func (t *Tracker) Reset() {
	t.state = Idle
	t.source = nil
	t.last = DropEvent{}
}

func (t *Tracker) emit(ev DropEvent) {
	t.last = ev
	if t.onEvent != nil {
		t.onEvent(ev)
	}
}
