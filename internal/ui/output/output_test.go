package output_test

import (
	"bytes"
	"testing"

	"github.com/chensid/grunt-demo/internal/ui/output"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, termenv.Ascii, output.ColorProfile())
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestColorProfileANSI_Default(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())
}

func TestNew_PlainWhenNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	out := output.New(buf)
	_, err := out.WriteString(out.String("hello").Foreground(termenv.ANSIRed).String())

	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestNewWithProfile_UsesSelector(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	out := output.NewWithProfile(&bytes.Buffer{}, func() termenv.Profile { return termenv.ANSI256 })

	assert.Equal(t, termenv.ANSI256, out.Profile)
}
