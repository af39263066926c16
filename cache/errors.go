package cache

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCapacity is returned by constructors when Options.Capacity < 1.
	ErrInvalidCapacity = errors.New("cache: invalid capacity")

	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
)

func capacityError(capacity int) error {
	return errors.Wrapf(ErrInvalidCapacity, "must be >= 1 but %d was requested", capacity)
}

// invariant panics when an internal consistency rule is broken.
// These are logic errors, never caller errors, so they are not returned.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("cache: invariant: "+format, args...))
	}
}
