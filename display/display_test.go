package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().BoolP("json", "j", false, "")
	return cmd
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnv, "")

	cmd := newCmd()
	assert.False(t, ShouldOutputJSON(cmd))

	require.NoError(t, cmd.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(cmd))
}

func TestShouldOutputJSON_Env(t *testing.T) {
	t.Setenv(OutputEnv, "JSON")
	assert.True(t, ShouldOutputJSON(newCmd()))
	assert.True(t, ShouldOutputJSON(nil))

	// An explicit --json=false overrides the environment
	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(cmd))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"lines": 3}))
	assert.Equal(t, "{\n  \"lines\": 3\n}\n", buf.String())

	assert.Error(t, WriteJSON(&buf, make(chan int)))
}
