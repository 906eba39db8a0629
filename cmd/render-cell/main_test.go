package main

import (
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/lotcodec/internal/testutil"
	"github.com/INLOpen/lotcodec/render"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	headerPath, _ := testutil.WriteCell(t, dir, 0, 0, 1, 0)
	out := filepath.Join(dir, "cell.png")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, run([]string{"-header", headerPath, "-out", out, "-layer", "1", "-scale", "1"}, logger))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())

	err = run([]string{"-header", headerPath, "-out", filepath.Join(dir, "empty.png"), "-layer", "3"}, logger)
	assert.ErrorIs(t, err, render.ErrNothingToDraw)
	assert.NoFileExists(t, filepath.Join(dir, "empty.png"))

	assert.Error(t, run([]string{"-header", headerPath}, logger))
}
