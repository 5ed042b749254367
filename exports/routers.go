package exports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog/catalog"
	"movie-catalog/common"
	"movie-catalog/movies"
)

// Columns written by CSV exports, in order. The header names round-trip
// through the sheet parser to the same fields.
var Columns = []string{"title", "category", "translator", "poster", "date", "description", "link", "trailer"}

// Formats accepted by StreamExport
var Formats = []string{"csv", "ndjson"}

// RegisterRoutes mounts the export endpoint
func RegisterRoutes(router *gin.RouterGroup, store *catalog.Store) {
	router.GET("", StreamExport(store))
}

// StreamExport godoc
// @Summary Stream the current catalog
// @Description Streams every movie of the current snapshot in CSV or NDJSON format
// @Tags exports
// @Produce text/csv
// @Produce application/x-ndjson
// @Param format query string false "Export format (csv or ndjson, default csv)"
// @Param category query string false "Only movies in the category with this slug"
// @Success 200 {file} file "Streaming export data"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /exports [get]
func StreamExport(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")
		if err := common.ValidateEnum("format", format, Formats); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Message})
			return
		}

		snapshot := store.Current()
		records := snapshot.Movies
		if sl := c.Query("category"); sl != "" {
			cat, ok := snapshot.CategoryBySlug(sl)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			records = cat.Movies
		}

		// Set appropriate headers for streaming
		timestamp := time.Now().Format("20060102_150405")
		filename := fmt.Sprintf("movies_%s.%s", timestamp, format)
		if format == "csv" {
			c.Header("Content-Type", "text/csv; charset=utf-8")
		} else {
			c.Header("Content-Type", "application/x-ndjson")
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Status(http.StatusOK)

		var err error
		if format == "csv" {
			err = writeCSV(c.Writer, records)
		} else {
			err = writeNDJSON(c.Writer, records)
		}
		if err != nil {
			c.Error(err)
		}
		c.Writer.Flush()

		// Set rows_processed for metrics
		c.Set("rows_processed", len(records))
	}
}

func writeCSV(w io.Writer, records []movies.MovieRecord) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(Columns); err != nil {
		return err
	}
	for _, m := range records {
		csvWriter.Write([]string{
			m.Name,
			m.Type,
			m.Translator,
			m.Poster,
			m.Date,
			m.Description,
			m.Link,
			m.Trailer,
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeNDJSON(w io.Writer, records []movies.MovieRecord) error {
	enc := json.NewEncoder(w)
	for _, m := range records {
		// Encode appends the newline
		if err := enc.Encode(flatten(m)); err != nil {
			return err
		}
	}
	return nil
}

// flatten lays a record out as one flat object with ad-hoc columns as
// top-level keys, the shape the feed parser reads back.
func flatten(m movies.MovieRecord) map[string]string {
	object := make(map[string]string, len(m.Extra)+8)
	for k, v := range m.Extra {
		object[k] = v
	}
	fields := map[string]string{
		"name":        m.Name,
		"type":        m.Type,
		"translator":  m.Translator,
		"poster":      m.Poster,
		"date":        m.Date,
		"description": m.Description,
		"link":        m.Link,
		"trailer":     m.Trailer,
	}
	for k, v := range fields {
		if v != "" {
			object[k] = v
		}
	}
	return object
}
