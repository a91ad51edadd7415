package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	// imaging registers jpeg/png/gif/bmp/tiff decoders; webp needs its own.
	_ "golang.org/x/image/webp"
)

// SaveImageWithThumb stores an uploaded image under dir with a generated
// filename and writes a JPEG thumbnail next to it under dir/thumb.
// Returns the stored filename.
func SaveImageWithThumb(file multipart.File, header *multipart.FileHeader, dir string, thumbWidth int) (string, error) {
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("decode image %q: %w", header.Filename, err)
	}

	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	filename := GetUUID() + filepath.Ext(SanitizeFilename(header.Filename))
	out, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	if _, err := out.Write(buf); err != nil {
		out.Close()
		return "", err
	}
	out.Close()

	if err := writeThumb(img, dir, filename, thumbWidth); err != nil {
		// thumbnail is best-effort; the original is already stored
		return filename, nil
	}
	return filename, nil
}

func writeThumb(img image.Image, dir, filename string, width int) error {
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)
	thumbDir := filepath.Join(dir, "thumb")
	if err := EnsureDir(thumbDir); err != nil {
		return err
	}
	name := filenameAsJPEG(filename)
	out, err := os.Create(filepath.Join(thumbDir, name))
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
}

// DeleteImageWithThumb removes a stored image and its thumbnail. Missing
// files are not an error.
func DeleteImageWithThumb(dir, filename string) {
	if filename == "" {
		return
	}
	os.Remove(filepath.Join(dir, filename))
	os.Remove(filepath.Join(dir, "thumb", filenameAsJPEG(filename)))
}

func filenameAsJPEG(filename string) string {
	ext := filepath.Ext(filename)
	return filename[:len(filename)-len(ext)] + ".jpg"
}
