// Package fictrac handles the ball-tracker output log: the raw fulltrac
// table plus kinematic accessors derived from it. Raw units are radians
// of ball rotation; derived rates are per-second.
package fictrac

import (
	"fmt"
	"math/cmplx"
	"path/filepath"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies fulltrac ball-tracker logs.
const Tag = registry.TypeTag("fictrac")

// Columns is the full fulltrac column set. A file must carry every one
// of these to classify as a fictrac log.
var Columns = []string{
	"timestamp",
	"frame_id",
	"frame_counter",
	"delta_rotation_cam_0",
	"delta_rotation_cam_1",
	"delta_rotation_cam_2",
	"delta_rotation_error",
	"delta_rotation_lab_0",
	"delta_rotation_lab_1",
	"delta_rotation_lab_2",
	"absolute_rotation_cam_0",
	"absolute_rotation_cam_1",
	"absolute_rotation_cam_2",
	"absolute_rotation_lab_0",
	"absolute_rotation_lab_1",
	"absolute_rotation_lab_2",
	"integrated_position_lab_0",
	"integrated_position_lab_1",
	"integrated_heading_lab",
	"animal_movement_direction_lab",
	"animal_movement_speed",
	"integrated_motion_0",
	"integrated_motion_1",
	"sequence_counter",
}

// Classifier accepts .csv files whose header carries the fulltrac
// column set.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !tableio.HasColumns(path, Columns) {
		return false, "header missing fulltrac columns"
	}
	return true, ""
}

// Decoder parses the full table.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	return tableio.Decode(path)
}

// Facets declares the capabilities of fictrac logs: companion config,
// pinned tracker version, and a session time-base.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages:    []string{"fictrac_ros2"},
			Executables: map[string][]string{"fictrac_ros2": {"trackmovements"}},
		},
		Version: &facet.VersionPin{
			Package:     "fictrac_ros2",
			Repo:        "fictrac_ros2",
			Branch:      "main",
			Executables: []string{"trackmovements"},
			CommitTime:  "2022-08-19 16:51:19-04:00",
		},
		TimeBase: true,
	}
}

// Fulltrac is the typed view over a decoded fictrac interpreter.
type Fulltrac struct {
	it *interpTable
}

// interpTable is the slice of interp.Interpreter behavior the view
// needs; kept minimal so the view is testable straight off a Table.
type interpTable struct {
	table *model.Table
}

// View wraps an interpreter's table in the fictrac accessors. The
// caller is responsible for only passing fictrac-tagged interpreters;
// a table missing the fulltrac columns is rejected.
func View(table *model.Table) (*Fulltrac, error) {
	have := make(map[string]bool)
	for _, c := range table.Columns() {
		have[c] = true
	}
	for _, want := range Columns {
		if !have[want] {
			return nil, fmt.Errorf("fictrac view: table %s missing column %q", table.Path(), want)
		}
	}
	return &Fulltrac{it: &interpTable{table: table}}, nil
}

// Timestamps returns the raw record timestamps in nanoseconds.
func (f *Fulltrac) Timestamps() []int64 { return f.it.table.Timestamps() }

// Position returns the integrated 2D position as complex values, in
// radians of ball rotation: real is lab x, imaginary is lab y.
func (f *Fulltrac) Position() []complex128 {
	x, _ := f.it.table.Floats("integrated_position_lab_0")
	y, _ := f.it.table.Floats("integrated_position_lab_1")
	out := make([]complex128, len(x))
	for i := range x {
		out[i] = complex(x[i], y[i])
	}
	return out
}

// Heading returns the integrated lab-frame heading in radians.
func (f *Fulltrac) Heading() []float64 {
	h, _ := f.it.table.Floats("integrated_heading_lab")
	return h
}

// CHeading returns the heading as unit complex values, e^(i*heading).
func (f *Fulltrac) CHeading() []complex128 {
	h := f.Heading()
	out := make([]complex128, len(h))
	for i, v := range h {
		out[i] = cmplx.Exp(complex(0, v))
	}
	return out
}

// Dt returns the inter-record intervals in seconds. Dt has one fewer
// element than the record count; Dt[i] spans records i and i+1, and
// every derived rate below shares that indexing.
func (f *Fulltrac) Dt() []float64 {
	ts := f.it.table.Timestamps()
	if len(ts) < 2 {
		return nil
	}
	out := make([]float64, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		out[i-1] = float64(ts[i]-ts[i-1]) / 1e9
	}
	return out
}

// AngularVelocity returns the heading rate in rad/s; positive is
// counterclockwise.
func (f *Fulltrac) AngularVelocity() []float64 {
	ch := f.CHeading()
	dt := f.Dt()
	out := make([]float64, len(dt))
	for i := range dt {
		out[i] = -cmplx.Phase(ch[i+1]/ch[i]) / dt[i]
	}
	return out
}

// MovementSpeed returns the tracker's reported movement speed in rad/s.
func (f *Fulltrac) MovementSpeed() []float64 {
	speed, _ := f.it.table.Floats("animal_movement_speed")
	dt := f.Dt()
	out := make([]float64, len(dt))
	for i := range dt {
		out[i] = speed[i+1] / dt[i]
	}
	return out
}

// HeadingProjection projects each translation step onto the heading at
// the start of the step. The real component is motion along heading,
// the imaginary component is motion orthogonal to it. Heading zero
// points along the x axis, to the animal's right.
func (f *Fulltrac) HeadingProjection() []complex128 {
	pos := f.Position()
	ch := f.CHeading()
	if len(pos) < 2 {
		return nil
	}
	out := make([]complex128, len(pos)-1)
	for i := range out {
		out[i] = (pos[i+1] - pos[i]) / ch[i]
	}
	return out
}

// TranslationalSpeed returns the magnitude of translation in rad/s.
func (f *Fulltrac) TranslationalSpeed() []float64 {
	proj := f.HeadingProjection()
	dt := f.Dt()
	out := make([]float64, len(dt))
	for i := range dt {
		out[i] = cmplx.Abs(proj[i]) / dt[i]
	}
	return out
}

// ForwardSpeed returns translation along the heading axis in rad/s.
func (f *Fulltrac) ForwardSpeed() []float64 {
	proj := f.HeadingProjection()
	dt := f.Dt()
	out := make([]float64, len(dt))
	for i := range dt {
		out[i] = imag(proj[i]) / dt[i]
	}
	return out
}

// Sideslip returns translation orthogonal to heading in rad/s, with
// positive values toward the animal's egocentric right.
func (f *Fulltrac) Sideslip() []float64 {
	proj := f.HeadingProjection()
	dt := f.Dt()
	out := make([]float64, len(dt))
	for i := range dt {
		out[i] = real(proj[i]) / dt[i]
	}
	return out
}
