package model

// Record is a single timestamped row parsed from a log file.
type Record struct {
	Timestamp int64          // nanoseconds since the Unix epoch
	Fields    map[string]any // column name -> value
}

// Float returns the named field as a float64. Integer-typed values are
// widened; anything else reports ok=false.
func (r Record) Float(name string) (float64, bool) {
	switch v := r.Fields[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the named field as a string.
func (r Record) String(name string) (string, bool) {
	v, ok := r.Fields[name].(string)
	return v, ok
}
