package images

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/entities"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ImageRepository interface {
		CreateImage(ctx context.Context, image *entities.Image) error
		GetImagesByBatch(ctx context.Context, batchID string) ([]*entities.Image, error)
		GetImageByID(ctx context.Context, id int64) (*entities.Image, error)
		DeleteImage(ctx context.Context, id int64) (*entities.Image, error)
	}

	imageRepository struct {
		db *gorm.DB
	}
)

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) CreateImage(ctx context.Context, image *entities.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// GetImagesByBatch returns the batch's images, newest first.
func (r *imageRepository) GetImagesByBatch(ctx context.Context, batchID string) ([]*entities.Image, error) {
	var images []*entities.Image
	if err := r.db.WithContext(ctx).
		Where("lote_id = ?", batchID).
		Order("id DESC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) GetImageByID(ctx context.Context, id int64) (*entities.Image, error) {
	var image entities.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage removes the image and returns the identifying columns of the
// deleted row. ErrImageNotFound when nothing matched.
func (r *imageRepository) DeleteImage(ctx context.Context, id int64) (*entities.Image, error) {
	var image entities.Image
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "nombre"}, {Name: "lote_id"}}}).
		Where("id = ?", id).
		Delete(&image)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrImageNotFound
	}
	return &image, nil
}
