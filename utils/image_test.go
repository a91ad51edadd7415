package utils

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func pngUpload(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return memFile{bytes.NewReader(buf.Bytes())}, &multipart.FileHeader{
		Filename: "dish.png",
		Size:     int64(buf.Len()),
	}
}

func TestSaveImageWithThumb(t *testing.T) {
	dir := t.TempDir()
	file, header := pngUpload(t)

	filename, err := SaveImageWithThumb(file, header, dir, 2)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(filename))

	_, err = os.Stat(filepath.Join(dir, filename))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "thumb", filenameAsJPEG(filename)))
	assert.NoError(t, err)

	DeleteImageWithThumb(dir, filename)
	_, err = os.Stat(filepath.Join(dir, filename))
	assert.True(t, os.IsNotExist(err))
}

// Every advertised upload type must have a registered decoder, otherwise
// a valid upload passes validation and then fails to save.
func TestAdvertisedImageTypesHaveDecoders(t *testing.T) {
	// sniff headers matching each format's registered magic; a garbage
	// tail means decoding fails, but never with ErrFormat when the
	// decoder is actually registered
	headers := map[string][]byte{
		"image/jpeg": {0xff, 0xd8, 0xff, 0xe0, 0x00},
		"image/png":  append([]byte("\x89PNG\r\n\x1a\n"), 0x00),
		"image/gif":  []byte("GIF89a\x00"),
		"image/webp": []byte("RIFF\x00\x00\x00\x00WEBPVP8 \x00"),
	}

	for mime := range SupportedImageTypes {
		header, ok := headers[mime]
		require.True(t, ok, "no sniff header for %s", mime)

		_, _, err := image.Decode(bytes.NewReader(header))
		require.Error(t, err)
		assert.NotErrorIs(t, err, image.ErrFormat, "%s has no registered decoder", mime)
	}
}
