package out

import (
	"context"
	"fmt"
	"io"

	"moodooro/internal/modules/cue/domain"
	cueout "moodooro/internal/modules/cue/port/out"
)

// TerminalBell writes BEL to w, which most terminals turn into a sound or
// a visual flash.
type TerminalBell struct {
	w io.Writer
}

func NewTerminalBell(w io.Writer) cueout.Chime {
	return &TerminalBell{w: w}
}

func (b *TerminalBell) Name() string {
	return "bell"
}

func (b *TerminalBell) Ring(_ context.Context, _ domain.Event) error {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ring terminal bell: %w", err)
	}
	return nil
}
