package campaigns

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"cleanearth/internal/handlers/api/v1/common"
	"cleanearth/internal/models"
	"cleanearth/internal/services"
)

const (
	// maxCompletionForm bounds the whole multipart body
	maxCompletionForm = 32 << 20
	// formMemory is held in memory before parts spill to disk
	formMemory = 8 << 20
)

// parseCompletion reads completion details from a JSON body or a
// multipart form. The returned cleanup releases any uploaded file.
func parseCompletion(r *http.Request) (*services.CompleteCampaignRequest, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req services.CompleteCampaignRequest
		if err := common.DecodeJSON(r, &req, true); err != nil {
			return nil, noop, err
		}
		return &req, noop, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxCompletionForm)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, services.NewValidationError("Upload is too large", err)
		}
		return nil, noop, services.NewValidationError("Invalid multipart form", err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	req := &services.CompleteCampaignRequest{
		WasteCollected:  formValue(r, "waste_collected"),
		ImageLink:       formValue(r, "image_link"),
		CompletionNotes: formValue(r, "completion_notes"),
	}
	if raw := formValue(r, "actual_participants"); raw != nil {
		var participants models.FlexInt
		_ = participants.UnmarshalJSON([]byte(*raw))
		req.ActualParticipants = &participants
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, cleanup, nil
	case err != nil:
		cleanup()
		return nil, noop, services.NewValidationError("Invalid image upload", err)
	}

	if header.Filename == "" && header.Size == 0 {
		file.Close()
		return req, cleanup, nil
	}

	req.Image = &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	return req, func() {
		file.Close()
		cleanup()
	}, nil
}

// formValue returns nil when the field is absent from the form
func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}
