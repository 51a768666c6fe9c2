package handlers

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/api/presenters"
	"Lote-Tracker/pkg/stats"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type (
	StatsHandler interface {
		GetBatchStatistics(c *fiber.Ctx) error
	}

	statsHandler struct {
		statsService stats.StatsService
	}
)

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandler{
		statsService: statsService,
	}
}

func (h *statsHandler) GetBatchStatistics(c *fiber.Ctx) error {
	res, err := h.statsService.GetBatchStatistics(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.ErrBatchNotFound.Error(), nil)
		case errors.Is(err, domain.ErrClassifierUnavailable), errors.Is(err, domain.ErrClassifierResponse):
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedClassifier, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetStatistics, err)
		}
	}

	message := domain.MessageSuccessGetStatistics
	if res.NoImages {
		message = domain.MessageNoImagesForBatch
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}
