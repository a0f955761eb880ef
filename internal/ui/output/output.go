// Package output builds termenv outputs that agree on color handling.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile detects the color profile of the attached terminal.
// NO_COLOR always wins and yields the Ascii profile.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI is used for streamed task output, which is often piped
// into CI logs that understand the basic 16 colors only.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New returns an output for w using the detected profile. Files that are
// not terminals get no color.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return NewWithProfile(w, func() termenv.Profile { return termenv.Ascii }, opts...)
	}
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile returns an output for w using the profile chosen by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
