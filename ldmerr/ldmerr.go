// Package ldmerr defines the small set of error kinds the LDM core
// distinguishes between, so callers can branch on failure class without
// parsing error text.
package ldmerr

import "fmt"

// Kind classifies a failure raised anywhere in the LDM parsing or
// device-mapper emission pipeline.
type Kind uint8

const (
	// KindIO marks an underlying read/stat/ioctl failure against a device.
	KindIO Kind = iota
	// KindNotLDM marks a device that is readable but carries no LDM metadata.
	KindNotLDM
	// KindInvalid marks structural corruption: bad magic, out-of-range
	// offsets, count mismatches, unresolved cross-references.
	KindInvalid
	// KindInconsistent marks disks of the same disk group disagreeing on
	// committed sequence.
	KindInconsistent
	// KindNotSupported marks an unsupported revision or type/shape combination.
	KindNotSupported
	// KindMissingDisk marks a required disk being absent from the group.
	KindMissingDisk
	// KindInternal marks a logic violation not expected on well-formed input.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNotLDM:
		return "not_ldm"
	case KindInvalid:
		return "invalid"
	case KindInconsistent:
		return "inconsistent"
	case KindNotSupported:
		return "notsupported"
	case KindMissingDisk:
		return "missing-disk"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error. Use errors.As to recover the Kind from an
// error that has been wrapped by github.com/pkg/errors along the way.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds a Kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
