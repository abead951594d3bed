package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps a single uploaded image
const DefaultMaxBytes int64 = 10 << 20

// AllowedMIMEs are the upload types the front-end accepts
var AllowedMIMEs = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Encoder turns uploaded files into ImagePayloads.
// The media type is sniffed from the content, never trusted from the client.
type Encoder struct {
	maxBytes int64
}

// NewEncoder creates an encoder; maxBytes <= 0 selects DefaultMaxBytes
func NewEncoder(maxBytes int64) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{maxBytes: maxBytes}
}

// MaxBytes returns the configured size limit
func (e *Encoder) MaxBytes() int64 {
	return e.maxBytes
}

// Encode reads r fully and returns the payload, or an *models.EncodingError
func (e *Encoder) Encode(name string, r io.Reader) (models.ImagePayload, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return models.ImagePayload{}, &models.EncodingError{Source: name, Err: err}
	}
	return e.EncodeBytes(name, data)
}

// EncodeBytes validates data already in memory
func (e *Encoder) EncodeBytes(name string, data []byte) (models.ImagePayload, error) {
	if len(data) == 0 {
		return models.ImagePayload{}, &models.EncodingError{Source: name, Err: ErrEmptyFile}
	}
	if int64(len(data)) > e.maxBytes {
		return models.ImagePayload{}, &models.EncodingError{
			Source: name,
			Err:    fmt.Errorf("%w of %d bytes", ErrFileTooLarge, e.maxBytes),
		}
	}

	mimeType := mimetype.Detect(data).String()
	if _, ok := AllowedMIMEs[mimeType]; !ok {
		return models.ImagePayload{}, &models.EncodingError{
			Source: name,
			Err:    fmt.Errorf("%w %s", ErrUnsupportedType, mimeType),
		}
	}

	return models.NewImagePayload(data, mimeType), nil
}

// EncodeFile opens a multipart upload and encodes it
func (e *Encoder) EncodeFile(fh *multipart.FileHeader) (models.ImagePayload, error) {
	if fh.Size > e.maxBytes {
		return models.ImagePayload{}, &models.EncodingError{
			Source: fh.Filename,
			Err:    fmt.Errorf("%w of %d bytes", ErrFileTooLarge, e.maxBytes),
		}
	}

	f, err := fh.Open()
	if err != nil {
		return models.ImagePayload{}, &models.EncodingError{Source: fh.Filename, Err: err}
	}
	defer func() { _ = f.Close() }()

	return e.Encode(fh.Filename, f)
}

// DetectMIME sniffs the media type of generated bytes
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// Extension returns the file extension for mimeType, ".png" when unknown
func Extension(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".png"
}
