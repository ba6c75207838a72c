package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestServeCommand_SkipMigrateFlag(t *testing.T) {
	cmd := NewServeCmd()
	f := cmd.Flags().Lookup("skip-migrate")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}

func TestMigrate_RequiresConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRETS", "")

	cmd := NewMigrateCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(nil)

	err := cmd.Execute()
	require.Error(t, err)
}
