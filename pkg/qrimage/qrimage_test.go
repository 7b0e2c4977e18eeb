package qrimage

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	data, err := Render("https://example.com/card/abc?qr=def", 256)

	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestRender_DefaultSize(t *testing.T) {
	data, err := Render("payload", 0)

	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestRender_EmptyPayload(t *testing.T) {
	data, err := Render("", 256)

	require.Error(t, err)
	assert.Nil(t, data)
}

// ---------------------------------------------------------------------------
// ArchiveSplitter
// ---------------------------------------------------------------------------

func TestArchiveSplitter_SinglePart(t *testing.T) {
	dir := t.TempDir()
	splitter := NewArchiveSplitter(dir, "acme", 10)

	for i := 0; i < 3; i++ {
		err := splitter.Add(fmt.Sprintf("code_%d.png", i), []byte("png-bytes"))
		require.NoError(t, err)
	}

	parts, err := splitter.Close()
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, filepath.Join(dir, "acme_part1.zip"), parts[0])

	reader, err := zip.OpenReader(parts[0])
	require.NoError(t, err)
	defer reader.Close()
	assert.Len(t, reader.File, 3)
}

func TestArchiveSplitter_RollsOverAtCap(t *testing.T) {
	dir := t.TempDir()
	splitter := NewArchiveSplitter(dir, "acme", 2)

	for i := 0; i < 5; i++ {
		err := splitter.Add(fmt.Sprintf("code_%d.png", i), []byte("png-bytes"))
		require.NoError(t, err)
	}

	parts, err := splitter.Close()
	require.NoError(t, err)
	require.Len(t, parts, 3)

	counts := []int{}
	for _, p := range parts {
		reader, err := zip.OpenReader(p)
		require.NoError(t, err)
		counts = append(counts, len(reader.File))
		reader.Close()
	}
	assert.Equal(t, []int{2, 2, 1}, counts)
}

func TestArchiveSplitter_NoFiles(t *testing.T) {
	splitter := NewArchiveSplitter(t.TempDir(), "empty", 10)

	parts, err := splitter.Close()

	require.NoError(t, err)
	assert.Empty(t, parts)
}
