package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_run(t *testing.T) {
	t.Run("default size", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, nil)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)

		access, ok := strings.CutPrefix(lines[0], "ACCESS_TOKEN_SECRET=")
		require.True(t, ok, "first line must be access secret, got %q", lines[0])
		refresh, ok := strings.CutPrefix(lines[1], "REFRESH_TOKEN_SECRET=")
		require.True(t, ok, "second line must be refresh secret, got %q", lines[1])

		require.Len(t, access, 64, "32 bytes hex encoded")
		require.Len(t, refresh, 64, "32 bytes hex encoded")
		require.NotEqual(t, access, refresh)
	})

	t.Run("custom size", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, []string{"--bytes", "48"})

		require.NoError(t, err)
		line, _, _ := strings.Cut(out.String(), "\n")
		require.Len(t, strings.TrimPrefix(line, "ACCESS_TOKEN_SECRET="), 96)
	})

	t.Run("too short", func(t *testing.T) {
		err := run(&bytes.Buffer{}, []string{"-b", "8"})

		require.Error(t, err)
	})
}
