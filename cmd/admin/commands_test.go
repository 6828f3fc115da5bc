package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapFlags(t *testing.T) {
	password := bootstrapCmd.Flags().Lookup("password")
	require.NotNil(t, password)
	assert.Equal(t, "admin password (6 to 50 characters, at most 72 bytes)", password.Usage)

	for _, name := range []string{"email", "password"} {
		flag := bootstrapCmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], name)
	}
}
