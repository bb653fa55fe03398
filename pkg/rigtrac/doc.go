// Package rigtrac loads a behavior-rig recording session from disk.
//
// Point Open at a session directory and it classifies every file by
// content, decodes the recognized log types, attaches whatever
// provenance and timing facets each type supports, and returns the
// collated experiment. Files the scan could not confidently place are
// reported in the experiment's diagnostics rather than dropped.
//
//	exp, err := rigtrac.Open(ctx, "/data/2024-11-20_fly3")
//	if err != nil { ... }
//	ft, ok := exp.Fulltrac()
//	if ok {
//		speed := ft.ForwardSpeed()
//		...
//	}
package rigtrac
