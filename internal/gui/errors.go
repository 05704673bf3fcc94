// Package gui shows a running population in a raylib window. The window is
// only compiled with the gui build tag, since raylib needs cgo and a display.
package gui

import "errors"

var ErrUnavailable = errors.New("gui: built without the gui tag (rebuild with -tags gui)")
