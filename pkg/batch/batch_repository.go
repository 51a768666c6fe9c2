package batch

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/entities"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	BatchRepository interface {
		CreateBatch(ctx context.Context, batch *entities.Batch) error
		GetBatches(ctx context.Context) ([]*entities.Batch, error)
		GetBatchByID(ctx context.Context, id string) (*entities.Batch, error)
		UpdateBatch(ctx context.Context, batch *entities.Batch) error
		DeleteBatch(ctx context.Context, id string) error
	}

	batchRepository struct {
		db *gorm.DB
	}
)

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

// CreateBatch inserts batch unless its id is taken. The existence check and
// the insert are a single statement, so two concurrent creates with the same
// id cannot both succeed.
func (r *batchRepository) CreateBatch(ctx context.Context, batch *entities.Batch) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(batch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchConflict
	}
	return nil
}

func (r *batchRepository) GetBatches(ctx context.Context) ([]*entities.Batch, error) {
	var batches []*entities.Batch
	if err := r.db.WithContext(ctx).
		Select("id", "nombre", "especie", "variedad").
		Order("id").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) GetBatchByID(ctx context.Context, id string) (*entities.Batch, error) {
	var batch entities.Batch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// UpdateBatch replaces the three mutable fields in one statement and reports
// ErrBatchNotFound when no row matched.
func (r *batchRepository) UpdateBatch(ctx context.Context, batch *entities.Batch) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Batch{}).
		Where("id = ?", batch.ID).
		Updates(map[string]interface{}{
			"nombre":   batch.Nombre,
			"especie":  batch.Especie,
			"variedad": batch.Variedad,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// DeleteBatch removes the batch; its images go with it through the foreign
// key cascade.
func (r *batchRepository) DeleteBatch(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Batch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}
