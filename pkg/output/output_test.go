package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, ansiGreen+"ok"+ansiReset, colorize(ansiGreen, "ok"))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "ok", colorize(ansiGreen, "ok"))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
}
