// Package testfiles writes realistic session fixture files for tests:
// fulltrac and VR position tables, event logs, companion provenance
// YAML, and the one-shot spec documents.
package testfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fulltracColumns matches the ball tracker's output header.
var fulltracColumns = []string{
	"timestamp", "frame_id", "frame_counter",
	"delta_rotation_cam_0", "delta_rotation_cam_1", "delta_rotation_cam_2",
	"delta_rotation_error",
	"delta_rotation_lab_0", "delta_rotation_lab_1", "delta_rotation_lab_2",
	"absolute_rotation_cam_0", "absolute_rotation_cam_1", "absolute_rotation_cam_2",
	"absolute_rotation_lab_0", "absolute_rotation_lab_1", "absolute_rotation_lab_2",
	"integrated_position_lab_0", "integrated_position_lab_1",
	"integrated_heading_lab",
	"animal_movement_direction_lab", "animal_movement_speed",
	"integrated_motion_0", "integrated_motion_1",
	"sequence_counter",
}

// Write creates a file with the given contents under dir.
func Write(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// FulltracCSV writes a fulltrac table with n records starting at start
// nanoseconds, stepInterval apart. Position integrates along x at one
// unit per step and heading stays at zero, so derived kinematics are
// easy to predict.
func FulltracCSV(t *testing.T, dir, name string, start int64, n int, step int64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(fulltracColumns, ","))
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		ts := start + int64(i)*step
		row := make([]string, len(fulltracColumns))
		for j := range row {
			row[j] = "0"
		}
		row[0] = fmt.Sprintf("%d", ts)
		row[1] = fmt.Sprintf("%d", i)
		row[2] = fmt.Sprintf("%d", i)
		row[16] = fmt.Sprintf("%d", i) // integrated_position_lab_0
		row[20] = "1.0"                // animal_movement_speed
		row[23] = fmt.Sprintf("%d", i)
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return Write(t, dir, name, b.String())
}

// VRPosCSV writes a VR position table with n records.
func VRPosCSV(t *testing.T, dir, name string, start int64, n int, step int64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp,frame_id,rotation_x,rotation_y,rotation_z,position_x,position_y,position_z\n")
	for i := 0; i < n; i++ {
		ts := start + int64(i)*step
		fmt.Fprintf(&b, "%d,%d,0,0,0,%d,0,0\n", ts, i, i)
	}
	return Write(t, dir, name, b.String())
}

// TemperatureCSV writes a Warner readback table. Name should contain
// "read" for the file to classify.
func TemperatureCSV(t *testing.T, dir, name string, start int64, n int, volts float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp,frame_id,Temperature (C)_0_channel_idx,Temperature (C)_0_voltage\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,%d,0,%g\n", start+int64(i)*1_000_000, i, volts)
	}
	return Write(t, dir, name, b.String())
}

// EventsCSV writes an event log with the given (type, message) pairs,
// one second apart.
func EventsCSV(t *testing.T, dir, name string, start int64, events [][2]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("timestamp,Event type,Event message\n")
	for i, e := range events {
		fmt.Fprintf(&b, "%d,%s,%s\n", start+int64(i)*1_000_000_000, e[0], e[1])
	}
	return Write(t, dir, name, b.String())
}

// GitStateYAML writes a companion git-state file for one node.
func GitStateYAML(t *testing.T, dir, name, pkg, executable, branch, commit, commitTime string) string {
	t.Helper()
	contents := fmt.Sprintf(`node:
  package: %s
  executable: %s
  branch: %s
  commit_hash: %s
  commit_time: "%s"
`, pkg, executable, branch, commit, commitTime)
	return Write(t, dir, name, contents)
}

// ConfigYAML writes a companion compiled-config file for one node.
func ConfigYAML(t *testing.T, dir, name, pkg, executable string, params map[string]string) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "compiled_config:\n  node:\n    package: %s\n    executable: %s\n    parameters:\n", pkg, executable)
	for k, v := range params {
		fmt.Fprintf(&b, "      %s: %s\n", k, v)
	}
	return Write(t, dir, name, b.String())
}
