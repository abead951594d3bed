package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImagePayload_CopiesData(t *testing.T) {
	src := []byte{1, 2, 3}
	p := NewImagePayload(src, "image/png")

	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, p.Data())
	assert.Equal(t, "image/png", p.MIMEType())
	assert.Equal(t, 3, p.Size())
	assert.False(t, p.IsZero())
}

func TestImagePayload_Encodings(t *testing.T) {
	p := NewImagePayload([]byte("abc"), "image/webp")

	assert.Equal(t, "YWJj", p.Base64())
	assert.Equal(t, "data:image/webp;base64,YWJj", p.DataURL())
	assert.True(t, p.Equal(NewImagePayload([]byte("abc"), "image/webp")))
	assert.False(t, p.Equal(NewImagePayload([]byte("abc"), "image/png")))
	assert.True(t, ImagePayload{}.IsZero())
}

func TestStructuredEditRequest_Validate(t *testing.T) {
	req := StructuredEditRequest{}
	err := req.Validate()

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, FieldReferenceImage, vErr.Field)

	req.ReferenceImage = NewImagePayload([]byte{1}, "image/png")
	assert.NoError(t, req.Validate())
	assert.Equal(t, EditModeStructured, req.Mode())
}

func TestDirectEditRequest_Validate(t *testing.T) {
	ref := NewImagePayload([]byte{1}, "image/png")

	tests := []struct {
		name      string
		req       DirectEditRequest
		wantField string
	}{
		{name: "missing reference", req: DirectEditRequest{Instruction: "make it pop"}, wantField: FieldReferenceImage},
		{name: "empty instruction", req: DirectEditRequest{ReferenceImage: ref}, wantField: FieldInstruction},
		{name: "whitespace instruction", req: DirectEditRequest{ReferenceImage: ref, Instruction: " \t\n"}, wantField: FieldInstruction},
		{name: "valid", req: DirectEditRequest{ReferenceImage: ref, Instruction: "convert to black and white"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestGenerationResult(t *testing.T) {
	img := NewImagePayload([]byte{4, 5}, "image/png")

	ok := NewImageResult(img)
	assert.True(t, ok.HasImage())
	assert.Equal(t, ResultSucceeded, ok.Status)

	empty := NewEmptyResult()
	assert.False(t, empty.HasImage())
	assert.Equal(t, ResultEmpty, empty.Status)

	var nilResult *GenerationResult
	assert.False(t, nilResult.HasImage())
}

func TestErrors(t *testing.T) {
	cause := errors.New("connection reset")

	transport := &GenerationTransportError{Provider: "gemini", Err: cause}
	assert.ErrorIs(t, transport, cause)
	assert.Contains(t, transport.Error(), TransportErrorMessage)
	assert.Contains(t, transport.Error(), "connection reset")

	encoding := &EncodingError{Source: "a.png", Err: cause}
	assert.ErrorIs(t, encoding, cause)
	assert.Contains(t, encoding.Error(), "a.png")

	assert.Equal(t, "instruction: required", NewValidationError(FieldInstruction, "required").Error())
	assert.Equal(t, "required", NewValidationError("", "required").Error())
}
