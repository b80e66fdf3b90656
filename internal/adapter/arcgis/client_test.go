package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_ExtractPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1=1", q.Get("where"))
		assert.Equal(t, outFields, q.Get("outFields"))
		assert.Equal(t, "true", q.Get("returnGeometry"))
		assert.Equal(t, "4326", q.Get("outSR"))
		assert.Equal(t, "json", q.Get("f"))
		assert.Equal(t, "4000", q.Get("resultOffset"))
		assert.Equal(t, "2000", q.Get("resultRecordCount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [
				{
					"attributes": {"Gatuadress": "Storgatan 5", "AntalPlatser": 40, "Skyddsrumsnr": "1-1", "Kommunnamn": "Stockholm"},
					"geometry": {"x": 18.07, "y": 59.33}
				},
				{
					"attributes": {"Gatuadress": null, "AntalPlatser": null},
					"geometry": {"x": 13.0, "y": 55.6}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	page, err := c.ExtractPage(context.Background(), 4000, 2000)
	require.NoError(t, err)

	require.Len(t, page, 2)
	require.NotNil(t, page[0].Attributes.Gatuadress)
	assert.Equal(t, "Storgatan 5", *page[0].Attributes.Gatuadress)
	assert.True(t, page[0].HasGeometry())
	assert.Equal(t, 18.07, *page[0].Geometry.X)
	assert.Nil(t, page[1].Attributes.Gatuadress)
}

func TestClient_ExtractPage_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(queryResponse{Features: []domain.RawShelter{}}))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	page, err := c.ExtractPage(context.Background(), 0, 2000)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestClient_ExtractPage_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// ArcGIS reports query rejections inside a 200 response.
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Invalid query parameters"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.ExtractPage(context.Background(), 0, 2000)
	require.Error(t, err)

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 400, svcErr.Code)
	assert.Contains(t, svcErr.Error(), "Invalid query parameters")
}

func TestClient_ExtractPage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.ExtractPage(context.Background(), 0, 2000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ExtractPage_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.ExtractPage(context.Background(), 0, 2000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ExtractPage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, discardLogger())
	_, err := c.ExtractPage(context.Background(), 0, 2000)
	require.Error(t, err)

	var svcErr *domain.ServiceError
	assert.False(t, errors.As(err, &svcErr), "timeouts are transport errors, not service errors")
}
