package exports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/catalog"
	"movie-catalog/movies"
)

var exportMovies = []movies.MovieRecord{
	{
		Name: "Alpha, the First", Type: "Drama", Translator: "Tuda", Poster: "https://img.example/a.jpg",
		Date: "2024-01-02", Description: "Opening night", Link: "https://watch.example/a",
		Trailer: "https://www.youtube.com/embed/ABC123",
		Extra:   map[string]string{"year": "2024", "imdbrating": "7.9"},
	},
	{
		Name: "Beta", Type: "Comedy", Translator: "Gio", Poster: "https://img.example/b.jpg",
		Date: "2024-02-03", Description: "Second", Link: "https://watch.example/b",
		Trailer: "https://www.youtube.com/embed/XYZ789",
	},
}

func newExportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := catalog.NewStore()
	store.Swap(catalog.Build(exportMovies, time.Now(), "job-1"))

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1/exports"), store)
	return r
}

// withoutExtra drops ad-hoc columns, which the CSV export does not carry
func withoutExtra(records []movies.MovieRecord) []movies.MovieRecord {
	out := make([]movies.MovieRecord, len(records))
	for i, m := range records {
		m.Extra = nil
		out[i] = m
	}
	return out
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestStreamExport_CSVRoundTrip(t *testing.T) {
	store := catalog.NewStore()
	store.Swap(catalog.Build(withoutExtra(exportMovies), time.Now(), "job-1"))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1/exports"), store)

	w := get(r, "/api/v1/exports?format=csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "title,category,translator"))

	assert.Equal(t, withoutExtra(exportMovies), movies.Parse(w.Body.String()))
}

func TestStreamExport_NDJSONRoundTrip(t *testing.T) {
	w := get(newExportRouter(), "/api/v1/exports?format=ndjson")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"year":"2024"`, "ad-hoc columns are top-level keys")
	assert.NotContains(t, w.Body.String(), `"extra"`)

	results, err := movies.ParseFeed(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	records, skipped := movies.Collect(results)
	assert.Empty(t, skipped)
	assert.Equal(t, exportMovies, records)
}

func TestStreamExport_CategoryFilter(t *testing.T) {
	r := newExportRouter()

	w := get(r, "/api/v1/exports?category=comedy")
	require.Equal(t, http.StatusOK, w.Code)
	records := movies.Parse(w.Body.String())
	require.Len(t, records, 1)
	assert.Equal(t, "Beta", records[0].Name)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/exports?category=horror").Code)
}

func TestStreamExport_BadFormat(t *testing.T) {
	w := get(newExportRouter(), "/api/v1/exports?format=xml")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "format must be one of")
}
