package history

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/labs/internal/session"
)

func intPtr(n int) *int { return &n }

func sampleRecords() []session.Record {
	return []session.Record{
		{Index: 2, Label: "false", Command: "false", ExitStatus: intPtr(1)},
		{Index: 1, Label: "echo_hi", Command: "echo hi", Stdout: "hi\n", Combined: "hi\n", ExitStatus: intPtr(0)},
		{Index: 0, Label: session.FallbackLabel, Stdout: "orphan", Stderr: "oops\n"},
	}
}

func TestTextRendererListsRecords(t *testing.T) {
	out, err := (&TextRenderer{}).Render(sampleRecords())
	require.NoError(t, err)
	text := string(out)

	for _, want := range []string{"[2]", "false", "(exit 1)", "[1]", "echo hi", "(exit 0)", "hi\n", "[0]", "(unknown command)", "orphanoops\n", "(running or unknown)"} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "[2]"), strings.Index(text, "[1]"), "records keep their order")
	assert.Less(t, strings.Index(text, "[1]"), strings.Index(text, "[0]"))
}

func TestTextRendererCommandsOnly(t *testing.T) {
	out, err := (&TextRenderer{CommandsOnly: true}).Render(sampleRecords())
	require.NoError(t, err)
	text := string(out)

	assert.NotContains(t, text, "hi\n\n")
	assert.NotContains(t, text, "orphan")
	assert.Equal(t, 3, strings.Count(text, "\n"))
}

func TestTextRendererEmpty(t *testing.T) {
	out, err := (&TextRenderer{}).Render(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSONRenderer(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(sampleRecords())
	require.NoError(t, err)

	var decoded []session.Record
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "echo hi", decoded[1].Command)
	require.NotNil(t, decoded[1].ExitStatus)
	assert.Nil(t, decoded[2].ExitStatus)

	empty, err := (&JSONRenderer{}).Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}
