package handlers

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/api/presenters"
	"Lote-Tracker/pkg/images"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type (
	ImageHandler interface {
		UploadImage(c *fiber.Ctx) error
		UploadImages(c *fiber.Ctx) error
		GetImages(c *fiber.Ctx) error
		GetImage(c *fiber.Ctx) error
		DeleteImage(c *fiber.Ctx) error
	}

	imageHandler struct {
		imageService images.ImageService
	}
)

func NewImageHandler(imageService images.ImageService) ImageHandler {
	return &imageHandler{
		imageService: imageService,
	}
}

func (h *imageHandler) UploadImage(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	defer form.RemoveAll()

	files := form.File[domain.FormFieldImage]
	if len(files) == 0 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, domain.ErrNoFiles)
	}

	res, err := h.imageService.UploadSingle(c.Context(), files[0])
	if err != nil {
		if isUploadRejection(err) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedStoreImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *imageHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImages, err)
	}
	defer form.RemoveAll()

	var batchID string
	if values := form.Value[domain.FormFieldBatchID]; len(values) > 0 {
		batchID = values[0]
	}

	result, err := h.imageService.UploadMultiple(c.Context(), batchID, form.File[domain.FormFieldImages])
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFiles):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageNoImagesFound, err)
		case errors.Is(err, domain.ErrMissingBatchID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageMissingBatchIDField, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadImages, err)
		}
	}

	status := multiUploadStatus(result)
	res := domain.UploadMultipleResponse{
		Results: result.Results,
		Errors:  result.Errors,
		Success: status == fiber.StatusOK,
	}
	switch status {
	case fiber.StatusOK:
		res.Message = fmt.Sprintf("%d images uploaded successfully", result.Succeeded())
	case fiber.StatusMultiStatus:
		res.Message = fmt.Sprintf("%d images uploaded, %d failed", result.Succeeded(), result.Failed())
	default:
		res.Error = domain.MessageFailedUploadAll
		res.Results = nil
	}

	return c.Status(status).JSON(res)
}

// multiUploadStatus maps the outcome counts of a non-empty upload to 200 when
// everything was stored, 207 when some files failed and 500 when none made it.
func multiUploadStatus(result domain.UploadBatchResult) int {
	switch {
	case result.Failed() == 0:
		return fiber.StatusOK
	case result.Succeeded() > 0:
		return fiber.StatusMultiStatus
	default:
		return fiber.StatusInternalServerError
	}
}

func isUploadRejection(err error) bool {
	return errors.Is(err, domain.ErrFileTooLarge) ||
		errors.Is(err, domain.ErrEmptyFile) ||
		errors.Is(err, domain.ErrUnsupportedImageType) ||
		errors.Is(err, domain.ErrMissingBatchID) ||
		errors.Is(err, domain.ErrNoFiles)
}

func (h *imageHandler) GetImages(c *fiber.Ctx) error {
	res, err := h.imageService.GetImagesByBatch(c.Context(), c.Query(domain.FormFieldBatchID))
	if err != nil {
		if errors.Is(err, domain.ErrMissingBatchID) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageMissingBatchIDField, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetImages, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetImages)
}

func (h *imageHandler) GetImage(c *fiber.Ctx) error {
	id, err := parseImageID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageInvalidImageID, err)
	}

	image, err := h.imageService.GetImageByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrImageNotFound.Error(), nil)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetImage, err)
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, image.Nombre))
	return c.Status(fiber.StatusOK).Send(image.Content)
}

func (h *imageHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := parseImageID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageInvalidImageID, err)
	}

	if err := h.imageService.DeleteImage(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrImageNotFound.Error(), nil)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteImage, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseImageID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
