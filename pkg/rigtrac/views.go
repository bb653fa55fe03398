package rigtrac

// Typed views over the common log types, one getter per type. Each
// getter returns the first loaded log of that type and follows the same
// shape, so session-level code never special-cases a type to reach its
// converted signals.

import (
	"github.com/crimson-sun/rigtrac/internal/format/events"
	"github.com/crimson-sun/rigtrac/internal/format/fictrac"
	"github.com/crimson-sun/rigtrac/internal/format/lightsugar"
	"github.com/crimson-sun/rigtrac/internal/format/metadata"
	"github.com/crimson-sun/rigtrac/internal/format/picopump"
	"github.com/crimson-sun/rigtrac/internal/format/projector"
	"github.com/crimson-sun/rigtrac/internal/format/temperature"
	"github.com/crimson-sun/rigtrac/internal/format/vrpos"
	"github.com/crimson-sun/rigtrac/internal/model"
)

// Fulltrac is the ball-tracker kinematics view.
type Fulltrac struct {
	v *fictrac.Fulltrac
}

// Fulltrac returns the session's ball-tracker view.
func (e *Experiment) Fulltrac() (*Fulltrac, bool) {
	it, ok := e.exp.First(fictrac.Tag)
	if !ok {
		return nil, false
	}
	v, err := fictrac.View(it.Table())
	if err != nil {
		return nil, false
	}
	return &Fulltrac{v: v}, true
}

func (f *Fulltrac) Timestamps() []int64          { return f.v.Timestamps() }
func (f *Fulltrac) Position() []complex128       { return f.v.Position() }
func (f *Fulltrac) Heading() []float64           { return f.v.Heading() }
func (f *Fulltrac) AngularVelocity() []float64   { return f.v.AngularVelocity() }
func (f *Fulltrac) ForwardSpeed() []float64      { return f.v.ForwardSpeed() }
func (f *Fulltrac) Sideslip() []float64          { return f.v.Sideslip() }
func (f *Fulltrac) MovementSpeed() []float64     { return f.v.MovementSpeed() }
func (f *Fulltrac) TranslationalSpeed() []float64 { return f.v.TranslationalSpeed() }

// VRPosition is the rendered-world pose view, in millimeters.
type VRPosition struct {
	v *vrpos.Position
}

// VRPosition returns the session's VR pose view, parametrized by the
// configured ball radius and bar-front angle.
func (e *Experiment) VRPosition() (*VRPosition, bool) {
	it, ok := e.exp.First(vrpos.Tag)
	if !ok {
		return nil, false
	}
	v, err := vrpos.View(it.Table())
	if err != nil {
		return nil, false
	}
	v.BallRadius = e.opts.ballRadius
	v.BarFrontAngle = e.opts.barFrontAngle
	return &VRPosition{v: v}, true
}

func (p *VRPosition) Timestamps() []int64         { return p.v.Timestamps() }
func (p *VRPosition) WorldPosition() []complex128 { return p.v.WorldPosition() }
func (p *VRPosition) X() []float64                { return p.v.X() }
func (p *VRPosition) Y() []float64                { return p.v.Y() }
func (p *VRPosition) Heading() []float64          { return p.v.Heading() }
func (p *VRPosition) UnwrappedHeading() []float64 { return p.v.UnwrappedHeading() }
func (p *VRPosition) TranslationSpeed() []float64 { return p.v.TranslationSpeed() }

// PositionCorrectedForBarJump compensates a commanded bar jump at
// jumpTime (nanoseconds) by jumpAngle (radians).
func (p *VRPosition) PositionCorrectedForBarJump(jumpTime int64, jumpAngle float64) []complex128 {
	return p.v.PositionCorrectedForBarJump(jumpTime, jumpAngle)
}

// EventRecord is one experiment event.
type EventRecord struct {
	Timestamp int64
	Type      string
	Message   string
}

// Events is the experiment event marker view.
type Events struct {
	v *events.Log
}

// Events returns the session's event log view.
func (e *Experiment) Events() (*Events, bool) {
	it, ok := e.exp.First(events.Tag)
	if !ok {
		return nil, false
	}
	return &Events{v: events.View(it.Table())}, true
}

func (ev *Events) All() []EventRecord             { return eventRecords(ev.v.All()) }
func (ev *Events) Bar() []EventRecord             { return eventRecords(ev.v.Bar()) }
func (ev *Events) TemperatureSets() []EventRecord { return eventRecords(ev.v.TemperatureSets()) }
func (ev *Events) ScanImage() []EventRecord       { return eventRecords(ev.v.ScanImage()) }

// Temperature is the bath temperature view.
type Temperature struct {
	v *temperature.Readback
}

// Temperature returns the session's bath temperature view.
func (e *Experiment) Temperature() (*Temperature, bool) {
	it, ok := e.exp.First(temperature.Tag)
	if !ok {
		return nil, false
	}
	return &Temperature{v: temperature.View(it.Table())}, true
}

func (t *Temperature) Timestamps() []int64 { return t.v.Timestamps() }
func (t *Temperature) Volts() []float64    { return t.v.Volts() }
func (t *Temperature) DegreesC() []float64 { return t.v.DegreesC() }

// Pump is the picopump actuation view.
type Pump struct {
	v *picopump.Pump
}

// Pump returns the session's picopump view.
func (e *Experiment) Pump() (*Pump, bool) {
	it, ok := e.exp.First(picopump.Tag)
	if !ok {
		return nil, false
	}
	v, err := picopump.View(it.Table())
	if err != nil {
		return nil, false
	}
	return &Pump{v: v}, true
}

func (p *Pump) Timestamps() []int64 { return p.v.Timestamps() }
func (p *Pump) Flow() []float64     { return p.v.Flow() }

// LightSugar is the light/sugar stimulus view.
type LightSugar struct {
	v *lightsugar.Stimulus
}

// LightSugar returns the session's light/sugar stimulus view.
func (e *Experiment) LightSugar() (*LightSugar, bool) {
	it, ok := e.exp.First(lightsugar.Tag)
	if !ok {
		return nil, false
	}
	return &LightSugar{v: lightsugar.View(it.Table())}, true
}

func (l *LightSugar) Timestamps() []int64 { return l.v.Timestamps() }

// FeedingTimes returns the timestamps where sugar feeding was active.
func (l *LightSugar) FeedingTimes() []int64 { return recordTimes(l.v.FeedingEvents()) }

// LaserTimes returns the timestamps where a laser program was active.
func (l *LightSugar) LaserTimes() []int64 { return recordTimes(l.v.LaserEvents()) }

func recordTimes(in []model.Record) []int64 {
	out := make([]int64, len(in))
	for i, r := range in {
		out[i] = r.Timestamp
	}
	return out
}

// Projector is the projector bar specification view.
type Projector struct {
	v *projector.Spec
}

// Projector returns the session's projector spec view.
func (e *Experiment) Projector() (*Projector, bool) {
	it, ok := e.exp.First(projector.Tag)
	if !ok {
		return nil, false
	}
	return &Projector{v: projector.View(it.Table())}, true
}

func (p *Projector) OldFormat() bool { return p.v.OldFormat() }
func (p *Projector) StartBarInFront() (float64, bool) {
	return p.v.StartBarInFront()
}

// Metadata returns the session metadata object.
func (e *Experiment) Metadata() (map[string]any, bool) {
	it, ok := e.exp.First(metadata.Tag)
	if !ok {
		return nil, false
	}
	return metadata.View(it.Table()).Fields(), true
}

func eventRecords(in []model.Record) []EventRecord {
	out := make([]EventRecord, len(in))
	for i, r := range in {
		t, _ := r.String("Event type")
		m, _ := r.String("Event message")
		out[i] = EventRecord{Timestamp: r.Timestamp, Type: t, Message: m}
	}
	return out
}
