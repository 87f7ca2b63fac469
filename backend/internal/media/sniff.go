package media

import (
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of an upload is inspected to detect its type
const sniffLen = 3072

var allowedMIME = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// SniffImage detects the content type of r. It returns a reader that still
// yields the full stream and whether the content is an accepted image type.
func SniffImage(r io.Reader) (io.Reader, *mimetype.MIME, bool, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, false, err
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	full := io.MultiReader(bytes.NewReader(head), r)

	for _, allowed := range allowedMIME {
		if mime.Is(allowed) {
			return full, mime, true, nil
		}
	}
	return full, mime, false, nil
}
