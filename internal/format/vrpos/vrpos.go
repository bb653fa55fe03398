// Package vrpos handles the VR position log, which records the
// rendered world pose in natural units: millimeters for translation,
// "bar in front is zero" for heading.
package vrpos

import (
	"fmt"
	"math"
	"math/cmplx"
	"path/filepath"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies VR position logs.
const Tag = registry.TypeTag("vr-position")

// Columns is the required VR position column set.
var Columns = []string{
	"timestamp",
	"frame_id",
	"rotation_x",
	"rotation_y",
	"rotation_z",
	"position_x",
	"position_y",
	"position_z",
}

// DefaultBallRadius is the treadmill ball radius in millimeters.
const DefaultBallRadius = 3.0

// Classifier accepts .csv files carrying the VR position columns.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !tableio.HasColumns(path, Columns) {
		return false, "header missing VR position columns"
	}
	return true, ""
}

// Decoder parses the full table.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	return tableio.Decode(path)
}

// Facets declares VR position capabilities. Companion files for these
// logs live one level above the data file, beside the session root.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages:    []string{"eternarig_experiment_logic"},
			Executables: map[string][]string{"eternarig_experiment_logic": {"sct_sutter_bar"}},
		},
		Version: &facet.VersionPin{
			Package:     "eternarig_experiment_logic",
			Repo:        "eternarig_experiment_logic",
			Branch:      "sct_eternarig_dev",
			Executables: []string{"sct_sutter_bar"},
			CommitTime:  "2024-11-17 18:06:25-05:00",
		},
		TimeBase: true,
		SearchUp: true,
	}
}

// Position is the typed view over a VR position table. BallRadius and
// BarFrontAngle parametrize the conversion from logged pose to world
// millimeters; they come from the projector configuration, not from
// the log itself.
type Position struct {
	table *model.Table

	BallRadius    float64
	BarFrontAngle float64 // radians
}

// View wraps a decoded VR position table.
func View(table *model.Table) (*Position, error) {
	have := make(map[string]bool)
	for _, c := range table.Columns() {
		have[c] = true
	}
	for _, want := range Columns {
		if !have[want] {
			return nil, fmt.Errorf("vrpos view: table %s missing column %q", table.Path(), want)
		}
	}
	return &Position{table: table, BallRadius: DefaultBallRadius}, nil
}

// Timestamps returns raw record timestamps in nanoseconds.
func (p *Position) Timestamps() []int64 { return p.table.Timestamps() }

// rawComplex reproduces the logged complex position, i*(x - i*y).
func (p *Position) rawComplex() []complex128 {
	x, _ := p.table.Floats("position_x")
	y, _ := p.table.Floats("position_y")
	out := make([]complex128, len(x))
	for i := range x {
		out[i] = complex(0, 1) * complex(x[i], -y[i])
	}
	return out
}

// WorldPosition returns the position in millimeters, rotated so the bar
// sits in front at angle zero and scaled by the ball radius.
func (p *Position) WorldPosition() []complex128 {
	rot := cmplx.Exp(complex(0, p.BarFrontAngle))
	raw := p.rawComplex()
	out := make([]complex128, len(raw))
	for i, v := range raw {
		out[i] = v * rot * complex(p.BallRadius, 0)
	}
	return out
}

// X returns the world x position in millimeters.
func (p *Position) X() []float64 {
	pos := p.WorldPosition()
	out := make([]float64, len(pos))
	for i, v := range pos {
		out[i] = real(v)
	}
	return out
}

// Y returns the world y position in millimeters.
func (p *Position) Y() []float64 {
	pos := p.WorldPosition()
	out := make([]float64, len(pos))
	for i, v := range pos {
		out[i] = imag(v)
	}
	return out
}

// Heading returns the VR heading in radians, zero when the bar is in
// front.
func (p *Position) Heading() []float64 {
	rz, _ := p.table.Floats("rotation_z")
	out := make([]float64, len(rz))
	for i, v := range rz {
		out[i] = cmplx.Phase(cmplx.Exp(complex(0, v)) * cmplx.Exp(complex(0, -p.BarFrontAngle)))
	}
	return out
}

// UnwrappedHeading returns the heading with 2π discontinuities removed,
// so whole turns accumulate instead of wrapping.
func (p *Position) UnwrappedHeading() []float64 {
	h := p.Heading()
	out := make([]float64, len(h))
	var offset float64
	for i, v := range h {
		if i > 0 {
			d := v - h[i-1]
			if d > math.Pi {
				offset -= 2 * math.Pi
			} else if d < -math.Pi {
				offset += 2 * math.Pi
			}
		}
		out[i] = v + offset
	}
	return out
}

// TranslationSpeed returns the world-frame speed in mm/s. Element i
// spans records i and i+1.
func (p *Position) TranslationSpeed() []float64 {
	pos := p.WorldPosition()
	ts := p.table.Timestamps()
	if len(pos) < 2 {
		return nil
	}
	out := make([]float64, len(pos)-1)
	for i := range out {
		dt := float64(ts[i+1]-ts[i]) / 1e9
		out[i] = cmplx.Abs(pos[i+1]-pos[i]) / dt
	}
	return out
}

// PositionCorrectedForBarJump returns the world position with the
// segment after jumpTime counter-rotated by jumpAngle about the
// position at the jump, compensating a commanded bar jump. The
// underlying table is left untouched.
func (p *Position) PositionCorrectedForBarJump(jumpTime int64, jumpAngle float64) []complex128 {
	pos := p.WorldPosition()
	idx := p.table.IndexAtOrAfter(jumpTime)
	if idx >= len(pos) {
		return pos
	}
	pivot := pos[idx]
	rot := cmplx.Exp(complex(0, -jumpAngle))
	for i := idx; i < len(pos); i++ {
		pos[i] = (pos[i]-pivot)*rot + pivot
	}
	return pos
}
