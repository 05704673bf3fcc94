//go:build !gui

package gui

import (
	"context"

	"github.com/san-kum/dotevo/internal/sim"
)

// Run is unavailable without the gui build tag.
func Run(_ context.Context, _ *sim.Simulator, _ int) error { return ErrUnavailable }
