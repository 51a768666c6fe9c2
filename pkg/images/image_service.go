package images

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/entities"
	"Lote-Tracker/internal/metrics"
	"Lote-Tracker/internal/utils"
	"Lote-Tracker/internal/utils/storage"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// decodableTypes are the formats the classifier can decode.
var decodableTypes = []string{"image/jpeg", "image/png", "image/webp", "image/bmp", "image/tiff"}

type (
	ImageService interface {
		UploadSingle(ctx context.Context, file *multipart.FileHeader) (domain.UploadedImage, error)
		UploadMultiple(ctx context.Context, batchID string, files []*multipart.FileHeader) (domain.UploadBatchResult, error)
		GetImagesByBatch(ctx context.Context, batchID string) ([]domain.ImageContent, error)
		GetImageByID(ctx context.Context, id int64) (domain.ImageFile, error)
		DeleteImage(ctx context.Context, id int64) error
	}

	imageService struct {
		imageRepository ImageRepository
		archive         storage.AwsS3
		metrics         *metrics.Metrics
		maxFileSize     int64
		defaultBatchID  string
		now             func() time.Time
	}
)

func NewImageService(imageRepository ImageRepository, archive storage.AwsS3, m *metrics.Metrics) ImageService {
	return &imageService{
		imageRepository: imageRepository,
		archive:         archive,
		metrics:         m,
		maxFileSize:     int64(utils.GetConfigInt("MAX_FILE_SIZE_MB", 5)) << 20,
		defaultBatchID:  utils.GetConfig("DEFAULT_LOTE_ID"),
		now:             time.Now,
	}
}

func (s *imageService) UploadSingle(ctx context.Context, file *multipart.FileHeader) (domain.UploadedImage, error) {
	if file == nil {
		return domain.UploadedImage{}, domain.ErrNoFiles
	}
	if s.defaultBatchID == "" {
		return domain.UploadedImage{}, domain.ErrMissingBatchID
	}
	return s.storeFile(ctx, s.defaultBatchID, file)
}

// UploadMultiple stores every file independently. A failing file is recorded
// in the result and never stops the ones after it; the returned error is only
// set when the request itself is unusable.
func (s *imageService) UploadMultiple(ctx context.Context, batchID string, files []*multipart.FileHeader) (domain.UploadBatchResult, error) {
	result := domain.UploadBatchResult{
		Results: []domain.UploadedImage{},
		Errors:  []domain.FailedUpload{},
	}

	if len(files) == 0 {
		return result, domain.ErrNoFiles
	}
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return result, domain.ErrMissingBatchID
	}

	for _, file := range files {
		uploaded, err := s.storeFile(ctx, batchID, file)
		if err != nil {
			result.Errors = append(result.Errors, domain.FailedUpload{
				OriginalName: file.Filename,
				Error:        err.Error(),
			})
			continue
		}
		result.Results = append(result.Results, uploaded)
	}

	log.Infof("batch %s: %d images stored, %d failed", batchID, result.Succeeded(), result.Failed())
	return result, nil
}

func (s *imageService) storeFile(ctx context.Context, batchID string, file *multipart.FileHeader) (domain.UploadedImage, error) {
	nombre := NewImageName(file.Filename, s.now())

	content, contentType, err := s.readImage(file)
	if err != nil {
		s.metrics.ObserveUpload(0, err)
		return domain.UploadedImage{}, err
	}

	image := &entities.Image{
		Nombre:    nombre,
		Contenido: content,
		BatchID:   batchID,
	}
	if err := s.imageRepository.CreateImage(ctx, image); err != nil {
		s.metrics.ObserveUpload(0, err)
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.UploadedImage{}, domain.ErrBatchNotFound
		}
		return domain.UploadedImage{}, fmt.Errorf("store image: %w", err)
	}
	s.metrics.ObserveUpload(len(content), nil)

	key := storage.ImageKey(batchID, image.ID, nombre)
	if err := s.archive.PutObject(ctx, key, content, contentType); err != nil {
		log.Warnf("archive copy of image %d failed: %v", image.ID, err)
	}

	return domain.UploadedImage{
		ID:           image.ID,
		Nombre:       nombre,
		OriginalName: file.Filename,
		Status:       domain.UploadStatusSuccess,
	}, nil
}

// readImage enforces the size ceiling and checks the sniffed content type,
// ignoring whatever type the client declared.
func (s *imageService) readImage(file *multipart.FileHeader) ([]byte, string, error) {
	if file.Size > s.maxFileSize {
		return nil, "", domain.ErrFileTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, s.maxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, "", domain.ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, "", domain.ErrEmptyFile
	}

	mtype := mimetype.Detect(content)
	if !mimetype.EqualsAny(mtype.String(), decodableTypes...) {
		return nil, "", domain.ErrUnsupportedImageType
	}
	return content, mtype.String(), nil
}

func (s *imageService) GetImagesByBatch(ctx context.Context, batchID string) ([]domain.ImageContent, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, domain.ErrMissingBatchID
	}

	images, err := s.imageRepository.GetImagesByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ImageContent, 0, len(images))
	for _, img := range images {
		result = append(result, domain.ImageContent{
			ID:        img.ID,
			Nombre:    img.Nombre,
			Imagen:    base64.StdEncoding.EncodeToString(img.Contenido),
			CreatedAt: img.CreatedAt,
		})
	}
	return result, nil
}

func (s *imageService) GetImageByID(ctx context.Context, id int64) (domain.ImageFile, error) {
	image, err := s.imageRepository.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImageFile{}, domain.ErrImageNotFound
		}
		return domain.ImageFile{}, err
	}

	return domain.ImageFile{
		ID:      image.ID,
		Nombre:  image.Nombre,
		Content: image.Contenido,
	}, nil
}

func (s *imageService) DeleteImage(ctx context.Context, id int64) error {
	image, err := s.imageRepository.DeleteImage(ctx, id)
	if err != nil {
		return err
	}

	if err := s.archive.DeleteObject(ctx, storage.ImageKey(image.BatchID, image.ID, image.Nombre)); err != nil {
		log.Warnf("archive cleanup for image %d failed: %v", image.ID, err)
	}
	return nil
}
