package handlers

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/api/presenters"
	"Lote-Tracker/internal/utils"
	"Lote-Tracker/pkg/batch"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BatchHandler interface {
		CreateBatch(c *fiber.Ctx) error
		GetBatches(c *fiber.Ctx) error
		GetBatchByID(c *fiber.Ctx) error
		UpdateBatch(c *fiber.Ctx) error
		DeleteBatch(c *fiber.Ctx) error
	}

	batchHandler struct {
		batchService batch.BatchService
		validator    *validator.Validate
	}
)

func NewBatchHandler(batchService batch.BatchService, validator *validator.Validate) BatchHandler {
	return &batchHandler{
		batchService: batchService,
		validator:    validator,
	}
}

func (h *batchHandler) CreateBatch(c *fiber.Ctx) error {
	req := new(domain.BatchRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return missingBatchFields(c, err)
	}

	res, err := h.batchService.CreateBatch(c.Context(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrBatchConflict) {
			return presenters.ErrorResponseWithFields(c, fiber.StatusConflict, domain.MessageBatchConflict, err, fiber.Map{
				"id_conflicto": res.ID,
			})
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateBatch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateBatch)
}

func (h *batchHandler) GetBatches(c *fiber.Ctx) error {
	res, err := h.batchService.GetBatches(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetBatches, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetBatches)
}

func (h *batchHandler) GetBatchByID(c *fiber.Ctx) error {
	res, err := h.batchService.GetBatchByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrBatchNotFound.Error(), nil)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetBatch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetBatch)
}

func (h *batchHandler) UpdateBatch(c *fiber.Ctx) error {
	req := new(domain.BatchRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return missingBatchFields(c, err)
	}

	res, err := h.batchService.UpdateBatch(c.Context(), c.Params("id"), *req)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrBatchNotFound.Error(), nil)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateBatch, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateBatch)
}

func (h *batchHandler) DeleteBatch(c *fiber.Ctx) error {
	if err := h.batchService.DeleteBatch(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrBatchNotFound.Error(), nil)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteBatch, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteBatch)
}

func missingBatchFields(c *fiber.Ctx, err error) error {
	return presenters.ErrorResponseWithFields(c, fiber.StatusBadRequest, domain.MessageBatchFieldsRequired, nil, fiber.Map{
		"campos_faltantes": utils.MissingFields(err, "nombre", "especie", "variedad"),
	})
}
