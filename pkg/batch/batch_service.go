package batch

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/entities"
	"Lote-Tracker/internal/utils/storage"
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type (
	BatchService interface {
		CreateBatch(ctx context.Context, req domain.BatchRequest) (domain.Batch, error)
		GetBatches(ctx context.Context) ([]domain.Batch, error)
		GetBatchByID(ctx context.Context, id string) (domain.Batch, error)
		UpdateBatch(ctx context.Context, id string, req domain.BatchRequest) (domain.Batch, error)
		DeleteBatch(ctx context.Context, id string) error
	}

	batchService struct {
		batchRepository BatchRepository
		archive         storage.AwsS3
		now             func() time.Time
		suffix          func() int
	}
)

func NewBatchService(batchRepository BatchRepository, archive storage.AwsS3) BatchService {
	return &batchService{
		batchRepository: batchRepository,
		archive:         archive,
		now:             time.Now,
		suffix:          func() int { return rand.Intn(1000) },
	}
}

func (s *batchService) CreateBatch(ctx context.Context, req domain.BatchRequest) (domain.Batch, error) {
	batch := &entities.Batch{
		ID:       NewBatchID(req.Nombre, s.now(), s.suffix()),
		Nombre:   req.Nombre,
		Especie:  req.Especie,
		Variedad: req.Variedad,
	}

	if err := s.batchRepository.CreateBatch(ctx, batch); err != nil {
		if errors.Is(err, domain.ErrBatchConflict) {
			return domain.Batch{ID: batch.ID}, err
		}
		return domain.Batch{}, err
	}

	return toBatch(batch), nil
}

func (s *batchService) GetBatches(ctx context.Context) ([]domain.Batch, error) {
	batches, err := s.batchRepository.GetBatches(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Batch, 0, len(batches))
	for _, b := range batches {
		result = append(result, toBatch(b))
	}
	return result, nil
}

func (s *batchService) GetBatchByID(ctx context.Context, id string) (domain.Batch, error) {
	batch, err := s.batchRepository.GetBatchByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Batch{}, domain.ErrBatchNotFound
		}
		return domain.Batch{}, err
	}
	return toBatch(batch), nil
}

func (s *batchService) UpdateBatch(ctx context.Context, id string, req domain.BatchRequest) (domain.Batch, error) {
	batch := &entities.Batch{
		ID:       id,
		Nombre:   req.Nombre,
		Especie:  req.Especie,
		Variedad: req.Variedad,
	}

	if err := s.batchRepository.UpdateBatch(ctx, batch); err != nil {
		return domain.Batch{}, err
	}
	return toBatch(batch), nil
}

func (s *batchService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.batchRepository.DeleteBatch(ctx, id); err != nil {
		return err
	}

	if err := s.archive.DeletePrefix(ctx, storage.BatchPrefix(id)); err != nil {
		log.Warnf("archive cleanup for batch %s failed: %v", id, err)
	}
	return nil
}

func toBatch(b *entities.Batch) domain.Batch {
	return domain.Batch{
		ID:       b.ID,
		Nombre:   b.Nombre,
		Especie:  b.Especie,
		Variedad: b.Variedad,
	}
}
