package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/stylist-api/internal/api/middleware"
	"github.com/Conceptual-Machines/stylist-api/internal/logger"
	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
)

// room for the form fields on top of two images
const multipartOverheadBytes = 1 << 20

// EditHandler serves the stylist and editor submissions
type EditHandler struct {
	registry *orchestrator.Registry
	encoder  *media.Encoder
}

// NewEditHandler creates an edit handler
func NewEditHandler(registry *orchestrator.Registry, encoder *media.Encoder) *EditHandler {
	return &EditHandler{
		registry: registry,
		encoder:  encoder,
	}
}

// Stylist handles POST /api/v1/edits/stylist: reference_image, optional
// mask_image and the eight styling fields.
func (h *EditHandler) Stylist(c *gin.Context) {
	h.limitBody(c)

	var params models.StylingParameters
	if err := c.ShouldBind(&params); err != nil {
		respondFormError(c, err)
		return
	}

	reference, err := h.optionalImage(c, models.FieldReferenceImage)
	if err != nil {
		respondFormError(c, err)
		return
	}
	req := models.StructuredEditRequest{
		Parameters: params,
	}
	if reference != nil {
		req.ReferenceImage = *reference
	}
	if req.MaskImage, err = h.optionalImage(c, models.FieldMaskImage); err != nil {
		respondFormError(c, err)
		return
	}

	outcome, err := h.registry.Submit(c.Request.Context(), middleware.GetSessionKey(c), req)
	h.respond(c, outcome, err)
}

// Editor handles POST /api/v1/edits/editor: reference_image and instruction.
// A mask is rejected rather than silently dropped.
func (h *EditHandler) Editor(c *gin.Context) {
	h.limitBody(c)

	if _, err := c.FormFile(models.FieldMaskImage); err == nil {
		respondError(c, models.NewValidationError(models.FieldMaskImage, "A mask can only be used in stylist mode."))
		return
	} else if !errors.Is(err, http.ErrMissingFile) {
		respondFormError(c, err)
		return
	}

	reference, err := h.optionalImage(c, models.FieldReferenceImage)
	if err != nil {
		respondFormError(c, err)
		return
	}
	req := models.DirectEditRequest{
		Instruction: c.PostForm(models.FieldInstruction),
	}
	if reference != nil {
		req.ReferenceImage = *reference
	}

	outcome, err := h.registry.Submit(c.Request.Context(), middleware.GetSessionKey(c), req)
	h.respond(c, outcome, err)
}

// Latest handles GET /api/v1/edits/latest for the caller's session
func (h *EditHandler) Latest(c *gin.Context) {
	o, ok := h.registry.Peek(middleware.GetSessionKey(c))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: messageNoEditsYet, RequestID: c.GetString("request_id")})
		return
	}
	outcome, ok := o.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: messageNoEditsYet, RequestID: c.GetString("request_id")})
		return
	}
	c.JSON(http.StatusOK, newEditResponse(c, outcome))
}

func (h *EditHandler) limitBody(c *gin.Context) {
	limit := 2*h.encoder.MaxBytes() + multipartOverheadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

// optionalImage encodes the named upload; a missing file is not an error
func (h *EditHandler) optionalImage(c *gin.Context, field string) (*models.ImagePayload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payload, err := h.encoder.EncodeFile(renamed(header, field))
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// renamed makes encoding errors name the form field rather than the client's file name
func renamed(header *multipart.FileHeader, field string) *multipart.FileHeader {
	copied := *header
	copied.Filename = field
	return &copied
}

func (h *EditHandler) respond(c *gin.Context, outcome orchestrator.Outcome, err error) {
	if err == nil {
		c.JSON(http.StatusOK, newEditResponse(c, outcome))
		return
	}

	var transportErr *models.GenerationTransportError
	if errors.As(err, &transportErr) {
		fields := logger.WithContext(c)
		fields["provider"] = transportErr.Provider
		logger.Warn("Image generation service call failed", fields)
		c.JSON(http.StatusBadGateway, newEditResponse(c, outcome))
		return
	}

	respondError(c, err)
}

// respondFormError handles failures while reading the multipart body
func respondFormError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	var encodingErr *models.EncodingError
	if errors.As(err, &maxBytesErr) || errors.As(err, &encodingErr) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     messageBadMultipart,
		Details:   err.Error(),
		RequestID: c.GetString("request_id"),
	})
}
