package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoke_MissingBinary(t *testing.T) {
	t.Chdir(t.TempDir())
	err := smoke(context.Background(), 1, "log")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQualityCommands(t *testing.T) {
	test := TestCmd()
	f := test.Flags().Lookup("smoke")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)

	integ := IntegrationTestCmd()
	f = integ.Flags().Lookup("samples")
	require.NotNil(t, f)
	assert.Equal(t, "100", f.DefValue)
}
