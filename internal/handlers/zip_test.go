package handlers

import (
	"archive/zip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type zipWriter struct {
	*zip.Writer
}

func newZip(w io.Writer) zipWriter {
	return zipWriter{zip.NewWriter(w)}
}

func (z zipWriter) add(t *testing.T, name string, data []byte) {
	t.Helper()
	f, err := z.Create(name)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
}
