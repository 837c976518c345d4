package dataset

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/terraconv/internal/projection"
	"github.com/woozymasta/terraconv/internal/vectorfield"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	pairs, format, err := Read(strings.NewReader(" [[1, 2], [3.5, -4e-3]]\n"))
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, format)
	assert.Equal(t, []r2.Point{{X: 1, Y: 2}, {X: 3.5, Y: -4e-3}}, pairs)
}

func TestReadBase64(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte("[[0.25,0.5],[1,1]]"))
	wrapped := enc[:8] + "\n" + enc[8:] + "\n"

	pairs, format, err := Read(strings.NewReader(wrapped))
	require.NoError(t, err)

	assert.Equal(t, FormatBase64, format)
	assert.Equal(t, []r2.Point{{X: 0.25, Y: 0.5}, {X: 1, Y: 1}}, pairs)
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"empty":      "   ",
		"empty list": "[]",
		"bad json":   "[[1,2],",
		"short pair": "[[1,2],[3]]",
		"bad base64": "%%%",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(in))
			assert.Error(t, err)
		})
	}

	_, _, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadField(t *testing.T) {
	side := projection.ConformalSide

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < vectorfield.Len(side); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("[0.5,-0.25]")
	}
	sb.WriteByte(']')

	path := filepath.Join(t.TempDir(), "conformal.txt")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))

	field, err := LoadField(path)
	require.NoError(t, err)

	assert.Equal(t, side, field.Side())
	assert.InDelta(t, 0.5*projection.VectorScaleFactor, field.At(3, 7).X, 1e-15)
	assert.InDelta(t, -0.25*projection.VectorScaleFactor, field.At(3, 7).Y, 1e-15)
}

func TestLoadFieldWrongLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conformal.txt")
	require.NoError(t, os.WriteFile(path, []byte("[[1,2],[3,4]]"), 0644))

	_, err := LoadField(path)
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
