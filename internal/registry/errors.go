package registry

import "fmt"

// DuplicateTagError reports a second registration under an already
// owned tag. This is a startup misconfiguration and is fatal.
type DuplicateTagError struct {
	Tag TypeTag
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("registry: tag %q already registered", string(e.Tag))
}

// BadRegistrationError reports a registration with a missing classifier
// or decoder.
type BadRegistrationError struct {
	Tag TypeTag
}

func (e *BadRegistrationError) Error() string {
	return fmt.Sprintf("registry: tag %q registered without classifier or decoder", string(e.Tag))
}

// CorruptLogError reports a decode failure on a file that classified as
// a known type. Offset is a byte or record position when the decoder
// can pin one down, -1 otherwise.
type CorruptLogError struct {
	Path   string
	Offset int64
	Reason string
	Err    error
}

func (e *CorruptLogError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("corrupt log %s at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("corrupt log %s: %s", e.Path, e.Reason)
}

func (e *CorruptLogError) Unwrap() error { return e.Err }
