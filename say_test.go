package optab

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSayer_Levels(t *testing.T) {
	var stderr bytes.Buffer
	opts, _ := newTestParser(t, WithOutput(nil, &stderr))

	assert.True(t, opts.Parse([]string{"-vv"}))
	s := opts.Sayer()
	assert.Equal(t, int64(2), s.Level())

	s.Shout("always")
	s.Say("level one")
	s.Whisper("level two")

	out := stderr.String()
	assert.Contains(t, out, "always")
	assert.Contains(t, out, "level one")
	assert.Contains(t, out, "level two")

	stderr.Reset()
	assert.True(t, opts.Parse([]string{}))
	quiet := opts.Sayer()

	quiet.Shout("still heard")
	quiet.Say("swallowed")
	quiet.Whisper("swallowed too")

	out = stderr.String()
	assert.Contains(t, out, "still heard")
	assert.NotContains(t, out, "swallowed")
}

func TestSayer_DebugRaisesLevel(t *testing.T) {
	var stderr bytes.Buffer
	opts, _ := newTestParser(t, WithOutput(nil, &stderr))

	assert.True(t, opts.Parse([]string{"--debug", "2"}))
	s := opts.Sayer()
	assert.Equal(t, int64(2), s.Level(), "--debug feeds the same level as repeated --verbose")
}

func TestSayer_TimeTagPrefix(t *testing.T) {
	var stderr bytes.Buffer
	opts, _ := newTestParser(t, WithOutput(nil, &stderr))

	assert.True(t, opts.Parse([]string{"--time-tag", "15:04"}))
	s := opts.Sayer()
	s.now = func() time.Time {
		return time.Date(2024, time.March, 9, 12, 30, 0, 0, time.UTC)
	}

	s.Shout("tagged %d", 7)
	line := stderr.String()
	assert.True(t, strings.HasPrefix(line, "12:30 "), "messages carry the --time-tag stamp, got %q", line)
	assert.Contains(t, line, "tagged 7")
	assert.Contains(t, line, ": tagged 7", "non-terminal writers get the program-name prefix")
}
