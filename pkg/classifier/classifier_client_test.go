package classifier

import (
	"Lote-Tracker/domain"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchImages = []domain.ImageFile{
	{ID: 2, Nombre: "img-2-bbbb.jpg", Content: []byte("second")},
	{ID: 1, Nombre: "img-1-aaaa.jpg", Content: []byte("first")},
}

func TestClassifySendsAllImagesInOneRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseMultipartForm(1<<20))

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "img-2-bbbb.jpg", files[0].Filename)
		assert.Equal(t, "image/jpeg", files[0].Header.Get("Content-Type"))

		f, err := files[1].Open()
		require.NoError(t, err)
		content, _ := io.ReadAll(f)
		assert.Equal(t, "first", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"filename":"img-2-bbbb.jpg","color_stats":{"madura":2}},{"filename":"img-1-aaaa.jpg"}]}`))
	}))
	defer server.Close()

	client := newClassifierClient(server.URL, 5*time.Second, nil)
	results, err := client.Classify(context.Background(), batchImages)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].ColorStats[domain.ClassMadura])
	assert.Equal(t, "img-1-aaaa.jpg", results[1].Filename)
}

func TestClassifyNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newClassifierClient(server.URL, 5*time.Second, nil)
	_, err := client.Classify(context.Background(), batchImages)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassifierResponse)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestClassifyNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	client := newClassifierClient(server.URL, 5*time.Second, nil)
	_, err := client.Classify(context.Background(), batchImages)
	assert.ErrorIs(t, err, domain.ErrClassifierResponse)
}

func TestClassifyUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := newClassifierClient(url, time.Second, nil)
	_, err := client.Classify(context.Background(), batchImages)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
}

func TestClassifyTripsBreaker(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClassifierClient(server.URL, time.Second, nil)
	for i := 0; i < 5; i++ {
		_, err := client.Classify(context.Background(), batchImages)
		assert.ErrorIs(t, err, domain.ErrClassifierResponse)
	}

	_, err := client.Classify(context.Background(), batchImages)
	assert.ErrorIs(t, err, domain.ErrClassifierUnavailable)
	assert.Equal(t, 5, calls)
}

func TestDecodeResultsBareObject(t *testing.T) {
	results, err := DecodeResults([]byte(`{"filename":"a.jpg","estado_stats":{"buenEstado":3},"estado_porcentaje_defectos":12.5}`))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].EstadoStats[domain.ClassBuenEstado])
	require.NotNil(t, results[0].PorcentajeDefectos)
	assert.Equal(t, 12.5, *results[0].PorcentajeDefectos)
	assert.Nil(t, results[0].IndiceColorMedio)
}

func TestDecodeResultsRejectsGarbage(t *testing.T) {
	_, err := DecodeResults([]byte(`[1,2,3]`))
	assert.ErrorIs(t, err, domain.ErrClassifierResponse)

	_, err = DecodeResults([]byte(`{"results":"nope"}`))
	assert.ErrorIs(t, err, domain.ErrClassifierResponse)
}

func TestDecodeResultsRejectsNull(t *testing.T) {
	results, err := DecodeResults([]byte(`null`))
	assert.ErrorIs(t, err, domain.ErrClassifierResponse)
	assert.Nil(t, results)
}
