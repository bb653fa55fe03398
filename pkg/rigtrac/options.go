package rigtrac

type options struct {
	workers       int
	noAlign       bool
	ballRadius    float64
	barFrontAngle float64
}

func defaultOptions() options {
	return options{
		workers:    4,
		ballRadius: 3.0,
	}
}

// Option configures Open.
type Option func(*options)

// WithWorkers bounds concurrent classification and decoding.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithoutAlignment disables time-base alignment; AlignedTimestamps then
// returns raw timestamps.
func WithoutAlignment() Option {
	return func(o *options) { o.noAlign = true }
}

// WithBallRadius sets the treadmill ball radius in millimeters, used by
// the VR position view's unit conversions.
func WithBallRadius(mm float64) Option {
	return func(o *options) {
		if mm > 0 {
			o.ballRadius = mm
		}
	}
}

// WithBarFrontAngle sets the bar-in-front reference angle in radians.
func WithBarFrontAngle(rad float64) Option {
	return func(o *options) { o.barFrontAngle = rad }
}
