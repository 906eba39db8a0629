package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/lotcodec/internal/testutil"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	hp, lp := testutil.WriteCell(t, dir, 0, 0, 1, 2)

	var out bytes.Buffer
	require.NoError(t, run(hp, lp, "", &out))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0 "))
	assert.True(t, strings.HasSuffix(lines[1], ": -1 320"))

	file := filepath.Join(dir, "seq.txt")
	require.NoError(t, run(hp, lp, file, &bytes.Buffer{}))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(data))

	require.NoError(t, os.WriteFile(lp, []byte{0, 0}, 0o644))
	assert.Error(t, run(hp, lp, "", &out))
}
