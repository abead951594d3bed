package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
)

// ImageResponse is the inline image of a result
type ImageResponse struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// EditResponse is the JSON body for a submitted or latest edit
type EditResponse struct {
	RequestID string         `json:"request_id,omitempty"`
	EditID    string         `json:"edit_id"`
	Mode      string         `json:"mode"`
	State     string         `json:"state"`
	Status    string         `json:"status,omitempty"`
	Image     *ImageResponse `json:"image,omitempty"`
	DataURL   string         `json:"data_url,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// ErrorResponse is the JSON body for a rejected request
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func newEditResponse(c *gin.Context, outcome orchestrator.Outcome) EditResponse {
	resp := EditResponse{
		RequestID: c.GetString("request_id"),
		EditID:    outcome.ID,
		Mode:      string(outcome.Mode),
		State:     string(outcome.State),
		Message:   outcome.Message(),
	}
	if outcome.Result != nil {
		resp.Status = string(outcome.Result.Status)
		if outcome.Result.HasImage() {
			img := outcome.Result.Image
			resp.Image = &ImageResponse{
				MIMEType: img.MIMEType(),
				Data:     img.Base64(),
			}
			resp.DataURL = img.DataURL()
		}
	}
	return resp
}

const (
	messageInFlight     = "An image is already being generated. Please wait for it to finish."
	messageTooLarge     = "The uploaded files are too large."
	messageUnreadable   = "Could not read the uploaded image."
	messageInternal     = "Internal server error"
	messageNoEditsYet   = "No edit has been submitted yet."
	messageBadMultipart = "Expected a multipart/form-data request."
)

// respondError maps the error taxonomy onto HTTP status codes
func respondError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	var validationErr *models.ValidationError
	var encodingErr *models.EncodingError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     validationErr.Message,
			Field:     validationErr.Field,
			RequestID: requestID,
		})
	case errors.As(err, &encodingErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:     messageUnreadable,
			Field:     encodingErr.Source,
			Details:   encodingErr.Err.Error(),
			RequestID: requestID,
		})
	case errors.As(err, &maxBytesErr):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:     messageTooLarge,
			RequestID: requestID,
		})
	case errors.Is(err, orchestrator.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     messageInFlight,
			RequestID: requestID,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     messageInternal,
			RequestID: requestID,
		})
	}
}
