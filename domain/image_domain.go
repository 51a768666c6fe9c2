package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessUploadImage = "image uploaded successfully"
	MessageSuccessGetImages   = "images retrieved successfully"

	MessageFailedUploadImage   = "failed to process image file"
	MessageFailedStoreImage    = "failed to store image"
	MessageFailedUploadImages  = "failed to process image files"
	MessageFailedUploadAll     = "all image uploads failed"
	MessageFailedGetImages     = "failed to retrieve images"
	MessageFailedGetImage      = "failed to retrieve image"
	MessageFailedDeleteImage   = "failed to delete image"
	MessageMissingBatchIDField = "lote_id field is required"
	MessageNoImagesFound       = "no images found in request"
	MessageInvalidImageID      = "invalid image id"

	ErrImageNotFound        = errors.New("image not found")
	ErrMissingBatchID       = errors.New("missing lote_id")
	ErrNoFiles              = errors.New("no image files supplied")
	ErrFileTooLarge         = errors.New("file exceeds maximum size")
	ErrEmptyFile            = errors.New("file is empty")
	ErrUnsupportedImageType = errors.New("file is not a supported image")
)

const (
	FormFieldImage   = "imagen"
	FormFieldImages  = "imagenes"
	FormFieldBatchID = "lote_id"

	UploadStatusSuccess = "success"
)

type (
	UploadedImage struct {
		ID           int64  `json:"id"`
		Nombre       string `json:"nombre"`
		OriginalName string `json:"originalName"`
		Status       string `json:"status"`
	}

	FailedUpload struct {
		OriginalName string `json:"originalName"`
		Error        string `json:"error"`
	}

	// UploadBatchResult collects the per-file outcome of a multi-file upload.
	UploadBatchResult struct {
		Results []UploadedImage `json:"results"`
		Errors  []FailedUpload  `json:"errors"`
	}

	UploadMultipleResponse struct {
		Message string          `json:"message,omitempty"`
		Error   string          `json:"error,omitempty"`
		Results []UploadedImage `json:"results,omitempty"`
		Errors  []FailedUpload  `json:"errors,omitempty"`
		Success bool            `json:"success"`
	}

	// ImageContent is an image with its bytes base64 encoded for JSON.
	ImageContent struct {
		ID        int64     `json:"id"`
		Nombre    string    `json:"nombre"`
		Imagen    string    `json:"imagen"`
		CreatedAt time.Time `json:"created_at"`
	}

	ImageFile struct {
		ID      int64
		Nombre  string
		Content []byte
	}
)

func (r UploadBatchResult) Succeeded() int { return len(r.Results) }

func (r UploadBatchResult) Failed() int { return len(r.Errors) }
