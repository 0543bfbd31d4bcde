package sketch

import "errors"

// Configuration errors, surfaced unconditionally from New. No sketch
// is constructed when one of these is returned.
var (
	ErrInvalidWindow   = errors.New("sketch: control window W must be > 0")
	ErrInvalidShare    = errors.New("sketch: heavy-hitter share θ must be in (0, 1]")
	ErrInvalidBuckets  = errors.New("sketch: bucket count B must be >= 1")
	ErrInvalidCapacity = errors.New("sketch: bucket capacity m must be >= 1")
)

func (c Config) validate() error {
	switch {
	case c.Window <= 0:
		return ErrInvalidWindow
	case c.Share <= 0 || c.Share > 1:
		return ErrInvalidShare
	case c.Buckets < 1:
		return ErrInvalidBuckets
	case c.BucketCapacity < 1:
		return ErrInvalidCapacity
	default:
		return nil
	}
}
