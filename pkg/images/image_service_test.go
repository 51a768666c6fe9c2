package images

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/entities"
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
)

type fakeImageRepository struct {
	images    []*entities.Image
	nextID    int64
	createErr map[string]error
	deleted   *entities.Image
}

func newFakeImageRepository() *fakeImageRepository {
	return &fakeImageRepository{createErr: map[string]error{}}
}

func (f *fakeImageRepository) CreateImage(_ context.Context, image *entities.Image) error {
	if err, ok := f.createErr[string(image.Contenido)]; ok {
		return err
	}
	f.nextID++
	image.ID = f.nextID
	f.images = append(f.images, image)
	return nil
}

func (f *fakeImageRepository) GetImagesByBatch(_ context.Context, batchID string) ([]*entities.Image, error) {
	var out []*entities.Image
	for i := len(f.images) - 1; i >= 0; i-- {
		if f.images[i].BatchID == batchID {
			out = append(out, f.images[i])
		}
	}
	return out, nil
}

func (f *fakeImageRepository) GetImageByID(_ context.Context, id int64) (*entities.Image, error) {
	for _, img := range f.images {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeImageRepository) DeleteImage(_ context.Context, id int64) (*entities.Image, error) {
	for i, img := range f.images {
		if img.ID == id {
			f.images = append(f.images[:i], f.images[i+1:]...)
			f.deleted = img
			return img, nil
		}
	}
	return nil, domain.ErrImageNotFound
}

type fakeArchive struct {
	puts    []string
	deletes []string
	putErr  error
}

func (f *fakeArchive) Enabled() bool { return true }

func (f *fakeArchive) PutObject(_ context.Context, key string, _ []byte, _ string) error {
	f.puts = append(f.puts, key)
	return f.putErr
}

func (f *fakeArchive) DeleteObject(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeArchive) DeletePrefix(_ context.Context, _ string) error { return nil }

type upload struct {
	name    string
	content []byte
}

func fileHeaders(t *testing.T, field string, uploads ...upload) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, u := range uploads {
		part, err := writer.CreateFormFile(field, u.name)
		require.NoError(t, err)
		_, err = part.Write(u.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}

func newTestService(repo *fakeImageRepository, archive *fakeArchive) *imageService {
	return &imageService{
		imageRepository: repo,
		archive:         archive,
		maxFileSize:     5 << 20,
		defaultBatchID:  "uvas-1-2",
		now:             func() time.Time { return time.UnixMilli(1752667444299) },
	}
}

func TestUploadMultipleAllSucceed(t *testing.T) {
	repo := newFakeImageRepository()
	archive := &fakeArchive{}
	svc := newTestService(repo, archive)

	files := fileHeaders(t, domain.FormFieldImages,
		upload{"a.png", pngBytes},
		upload{"b.jpg", jpegBytes},
	)

	result, err := svc.UploadMultiple(context.Background(), "uvas-1-2", files)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded())
	assert.Equal(t, 0, result.Failed())
	assert.Equal(t, "a.png", result.Results[0].OriginalName)
	assert.Equal(t, "b.jpg", result.Results[1].OriginalName)
	assert.Equal(t, domain.UploadStatusSuccess, result.Results[0].Status)
	assert.Len(t, archive.puts, 2)
	assert.Equal(t, "lotes/uvas-1-2/1-"+result.Results[0].Nombre, archive.puts[0])
}

func TestUploadMultipleCapturesEachFailure(t *testing.T) {
	repo := newFakeImageRepository()
	failing := append([]byte{}, jpegBytes...)
	failing[len(failing)-1] = 1
	repo.createErr[string(failing)] = errors.New("connection reset")
	svc := newTestService(repo, &fakeArchive{})

	files := fileHeaders(t, domain.FormFieldImages,
		upload{"ok1.png", pngBytes},
		upload{"notes.txt", []byte("just some text")},
		upload{"broken.jpg", failing},
		upload{"empty.png", nil},
		upload{"ok2.jpg", jpegBytes},
	)

	result, err := svc.UploadMultiple(context.Background(), "uvas-1-2", files)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded())
	assert.Equal(t, 3, result.Failed())
	assert.Equal(t, "ok1.png", result.Results[0].OriginalName)
	assert.Equal(t, "ok2.jpg", result.Results[1].OriginalName)

	assert.Equal(t, "notes.txt", result.Errors[0].OriginalName)
	assert.Equal(t, domain.ErrUnsupportedImageType.Error(), result.Errors[0].Error)
	assert.Equal(t, "broken.jpg", result.Errors[1].OriginalName)
	assert.Contains(t, result.Errors[1].Error, "connection reset")
	assert.Equal(t, "empty.png", result.Errors[2].OriginalName)
	assert.Equal(t, domain.ErrEmptyFile.Error(), result.Errors[2].Error)
	assert.Len(t, repo.images, 2)
}

func TestUploadMultipleNoneSucceed(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})

	files := fileHeaders(t, domain.FormFieldImages,
		upload{"a.txt", []byte("a")},
		upload{"b.txt", []byte("b")},
	)

	result, err := svc.UploadMultiple(context.Background(), "uvas-1-2", files)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded())
	assert.Equal(t, 2, result.Failed())
}

func TestUploadMultipleRejectsRequestWithoutBatch(t *testing.T) {
	repo := newFakeImageRepository()
	svc := newTestService(repo, &fakeArchive{})

	files := fileHeaders(t, domain.FormFieldImages, upload{"a.png", pngBytes})

	_, err := svc.UploadMultiple(context.Background(), "  ", files)
	assert.ErrorIs(t, err, domain.ErrMissingBatchID)
	assert.Empty(t, repo.images)
}

func TestUploadMultipleRejectsEmptyFileList(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})

	_, err := svc.UploadMultiple(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrNoFiles)
}

func TestUploadMultipleUnknownBatch(t *testing.T) {
	repo := newFakeImageRepository()
	repo.createErr[string(pngBytes)] = gorm.ErrForeignKeyViolated
	svc := newTestService(repo, &fakeArchive{})

	files := fileHeaders(t, domain.FormFieldImages, upload{"a.png", pngBytes})

	result, err := svc.UploadMultiple(context.Background(), "missing", files)
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed())
	assert.Equal(t, domain.ErrBatchNotFound.Error(), result.Errors[0].Error)
}

func TestUploadRejectsFormatsTheClassifierCannotDecode(t *testing.T) {
	repo := newFakeImageRepository()
	svc := newTestService(repo, &fakeArchive{})

	gifBytes := append([]byte("GIF89a"), make([]byte, 32)...)
	svgBytes := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
	webpBytes := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)

	files := fileHeaders(t, domain.FormFieldImages,
		upload{"a.gif", gifBytes},
		upload{"b.svg", svgBytes},
		upload{"c.webp", webpBytes},
	)

	result, err := svc.UploadMultiple(context.Background(), "uvas-1-2", files)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded())
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "a.gif", result.Errors[0].OriginalName)
	assert.Equal(t, domain.ErrUnsupportedImageType.Error(), result.Errors[0].Error)
	assert.Equal(t, "b.svg", result.Errors[1].OriginalName)
	assert.Equal(t, domain.ErrUnsupportedImageType.Error(), result.Errors[1].Error)
	assert.Len(t, repo.images, 1)
}

func TestUploadSingleTooLarge(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})
	svc.maxFileSize = 16

	files := fileHeaders(t, domain.FormFieldImage, upload{"big.png", pngBytes})

	_, err := svc.UploadSingle(context.Background(), files[0])
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestUploadSingleUsesDefaultBatch(t *testing.T) {
	repo := newFakeImageRepository()
	svc := newTestService(repo, &fakeArchive{})

	files := fileHeaders(t, domain.FormFieldImage, upload{"foto.png", pngBytes})

	uploaded, err := svc.UploadSingle(context.Background(), files[0])
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^img-1752667444299-[0-9a-z]{4}\.png$`), uploaded.Nombre)
	require.Len(t, repo.images, 1)
	assert.Equal(t, "uvas-1-2", repo.images[0].BatchID)
}

func TestUploadSingleWithoutDefaultBatch(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})
	svc.defaultBatchID = ""

	files := fileHeaders(t, domain.FormFieldImage, upload{"foto.png", pngBytes})

	_, err := svc.UploadSingle(context.Background(), files[0])
	assert.ErrorIs(t, err, domain.ErrMissingBatchID)
}

func TestArchiveFailureDoesNotFailUpload(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{putErr: errors.New("s3 down")})

	files := fileHeaders(t, domain.FormFieldImage, upload{"foto.png", pngBytes})

	_, err := svc.UploadSingle(context.Background(), files[0])
	assert.NoError(t, err)
}

func TestGetImagesByBatchEncodesContent(t *testing.T) {
	repo := newFakeImageRepository()
	repo.images = []*entities.Image{
		{ID: 1, Nombre: "a.png", Contenido: []byte("hi"), BatchID: "uvas-1-2"},
		{ID: 2, Nombre: "b.png", Contenido: []byte("yo"), BatchID: "uvas-1-2"},
		{ID: 3, Nombre: "c.png", Contenido: []byte("no"), BatchID: "otro"},
	}
	svc := newTestService(repo, &fakeArchive{})

	images, err := svc.GetImagesByBatch(context.Background(), "uvas-1-2")
	require.NoError(t, err)

	require.Len(t, images, 2)
	assert.Equal(t, int64(2), images[0].ID)
	assert.Equal(t, "eW8=", images[0].Imagen)
	assert.Equal(t, "aGk=", images[1].Imagen)
}

func TestGetImagesByBatchEmptyIsSuccess(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})

	images, err := svc.GetImagesByBatch(context.Background(), "vacio")
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestGetImagesByBatchRequiresBatch(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})

	_, err := svc.GetImagesByBatch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingBatchID)
}

func TestGetImageByIDNotFound(t *testing.T) {
	svc := newTestService(newFakeImageRepository(), &fakeArchive{})

	_, err := svc.GetImageByID(context.Background(), 12)
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestDeleteImageRemovesArchiveCopy(t *testing.T) {
	repo := newFakeImageRepository()
	repo.images = []*entities.Image{{ID: 5, Nombre: "img-1-abcd.png", BatchID: "uvas-1-2"}}
	archive := &fakeArchive{}
	svc := newTestService(repo, archive)

	require.NoError(t, svc.DeleteImage(context.Background(), 5))

	assert.Empty(t, repo.images)
	assert.Equal(t, []string{"lotes/uvas-1-2/5-img-1-abcd.png"}, archive.deletes)
	assert.ErrorIs(t, svc.DeleteImage(context.Background(), 5), domain.ErrImageNotFound)
}
