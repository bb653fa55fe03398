package facet

import (
	"log/slog"

	"github.com/crimson-sun/rigtrac/internal/format/tableio"
)

// TimeBase is the session time-base facet: the first and last record
// timestamps of a log, in nanoseconds since the Unix epoch.
type TimeBase struct {
	Start int64
	End   int64
}

// Duration returns End-Start in nanoseconds.
func (tb *TimeBase) Duration() int64 { return tb.End - tb.Start }

// extractTimeBase probes only the first and last data lines of the
// file, so attaching the facet never costs a full parse.
func extractTimeBase(dataPath string) *TimeBase {
	start, end, err := tableio.Timespan(dataPath)
	if err != nil {
		slog.Debug("time-base probe failed", "path", dataPath, "error", err)
		return nil
	}
	return &TimeBase{Start: start, End: end}
}
