package stats

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/pkg/batch"
	"Lote-Tracker/pkg/classifier"
	"Lote-Tracker/pkg/images"
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type (
	StatsService interface {
		GetBatchStatistics(ctx context.Context, batchID string) (domain.BatchStatisticsResponse, error)
	}

	statsService struct {
		batchRepository batch.BatchRepository
		imageRepository images.ImageRepository
		classifier      classifier.ClassifierClient
	}
)

func NewStatsService(
	batchRepository batch.BatchRepository,
	imageRepository images.ImageRepository,
	classifierClient classifier.ClassifierClient,
) StatsService {
	return &statsService{
		batchRepository: batchRepository,
		imageRepository: imageRepository,
		classifier:      classifierClient,
	}
}

// GetBatchStatistics classifies every image of the batch and folds the
// results. Any failure aborts the whole computation.
func (s *statsService) GetBatchStatistics(ctx context.Context, batchID string) (domain.BatchStatisticsResponse, error) {
	if _, err := s.batchRepository.GetBatchByID(ctx, batchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BatchStatisticsResponse{}, domain.ErrBatchNotFound
		}
		return domain.BatchStatisticsResponse{}, err
	}

	stored, err := s.imageRepository.GetImagesByBatch(ctx, batchID)
	if err != nil {
		return domain.BatchStatisticsResponse{}, fmt.Errorf("load batch images: %w", err)
	}

	response := domain.BatchStatisticsResponse{
		BatchID:    batchID,
		ImageCount: len(stored),
	}
	if len(stored) == 0 {
		response.NoImages = true
		response.Message = domain.MessageNoImagesForBatch
		return response, nil
	}

	files := make([]domain.ImageFile, 0, len(stored))
	for _, img := range stored {
		files = append(files, domain.ImageFile{
			ID:      img.ID,
			Nombre:  img.Nombre,
			Content: img.Contenido,
		})
	}

	results, err := s.classifier.Classify(ctx, files)
	if err != nil {
		return domain.BatchStatisticsResponse{}, err
	}
	log.Infof("batch %s: classified %d images, %d results", batchID, len(files), len(results))

	statistics := Aggregate(results)
	response.Statistics = &statistics
	return response, nil
}
