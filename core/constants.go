package core

import "os"

const (
	// DefaultKey is the conventional default slot front-ends fall back to
	// when no key is given. It is a literal key, not a computed most-recent
	// lookup: callers must have written to "last" for it to resolve.
	DefaultKey = "last"

	ValueFilePerm os.FileMode = 0644
)
