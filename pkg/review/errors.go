package review

import "errors"

// ErrAborted signals the reviewer interrupted a prompt, e.g. with Ctrl+C.
var ErrAborted = errors.New("review: aborted")
