package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog/common"
	"movie-catalog/movies"
)

// MovieDetail is the detail view of one record
type MovieDetail struct {
	Movie        movies.MovieRecord   `json:"movie"`
	Category     string               `json:"category"`
	RelativeDate string               `json:"relative_date"`
	TrailerEmbed string               `json:"trailer_embed,omitempty"`
	WatchLink    string               `json:"watch_link,omitempty"`
	Related      []movies.MovieRecord `json:"related"`
}

// NewMovieDetail assembles the detail view, applying the display rules for
// trailers (embeddable only) and watch links (http only).
func NewMovieDetail(s *Snapshot, movie movies.MovieRecord, now time.Time) MovieDetail {
	detail := MovieDetail{
		Movie:        movie,
		Category:     movie.Category(),
		RelativeDate: RelativeTime(movie.Date, now),
		Related:      s.Related(movie, RelatedLimit),
	}
	if movie.HasEmbeddableTrailer() {
		detail.TrailerEmbed = movie.Trailer
	}
	if common.IsHTTPURL(movie.Link) {
		detail.WatchLink = movie.Link
	}
	if detail.Related == nil {
		detail.Related = []movies.MovieRecord{}
	}
	return detail
}

// CategorySummary is a bucket without its records
type CategorySummary struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type handler struct {
	store *Store
	now   func() time.Time
}

// RegisterRoutes mounts the read-only catalog API
func RegisterRoutes(router *gin.RouterGroup, store *Store) {
	h := &handler{store: store, now: time.Now}

	router.GET("/movies", h.ListMovies)
	router.GET("/movies/:name", h.GetMovie)
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:slug", h.GetCategory)
	router.GET("/featured", h.GetFeatured)
	router.GET("/hero", h.GetHero)
	router.GET("/search", h.SearchMovies)
}

// ListMovies godoc
// @Summary List all movies
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Movies in sheet order"
// @Router /movies [get]
func (h *handler) ListMovies(c *gin.Context) {
	s := h.store.Current()
	c.Set("rows_processed", len(s.Movies))
	c.JSON(http.StatusOK, gin.H{
		"movies":    nonNil(s.Movies),
		"count":     len(s.Movies),
		"loaded_at": loadedAt(s),
	})
}

// GetMovie godoc
// @Summary Get a movie by exact name
// @Tags catalog
// @Produce json
// @Param name path string true "Movie name"
// @Success 200 {object} MovieDetail
// @Failure 404 {object} map[string]string "Movie not found"
// @Router /movies/{name} [get]
func (h *handler) GetMovie(c *gin.Context) {
	s := h.store.Current()
	movie, ok := s.FindByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	c.JSON(http.StatusOK, NewMovieDetail(s, movie, h.now()))
}

// ListCategories godoc
// @Summary List categories in display order
// @Tags catalog
// @Produce json
// @Success 200 {array} CategorySummary
// @Router /categories [get]
func (h *handler) ListCategories(c *gin.Context) {
	categories := h.store.Current().Categories()
	summaries := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		summaries = append(summaries, CategorySummary{Name: cat.Name, Slug: cat.Slug, Count: len(cat.Movies)})
	}
	c.JSON(http.StatusOK, gin.H{"categories": summaries})
}

// GetCategory godoc
// @Summary Get every movie in a category
// @Tags catalog
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} Category
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{slug} [get]
func (h *handler) GetCategory(c *gin.Context) {
	cat, ok := h.store.Current().CategoryBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.Set("rows_processed", len(cat.Movies))
	c.JSON(http.StatusOK, cat)
}

// GetFeatured godoc
// @Summary Featured movies for the hero stack
// @Tags catalog
// @Produce json
// @Router /featured [get]
func (h *handler) GetFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"movies": nonNil(h.store.Current().Featured)})
}

// GetHero godoc
// @Summary Current hero rotation
// @Tags catalog
// @Produce json
// @Router /hero [get]
func (h *handler) GetHero(c *gin.Context) {
	s, state := h.store.View()
	c.JSON(http.StatusOK, gin.H{
		"state":  state,
		"movies": nonNil(s.Featured),
	})
}

// SearchMovies godoc
// @Summary Search movies by name
// @Description Case-insensitive substring match; terms shorter than two characters return no results
// @Tags catalog
// @Produce json
// @Param q query string true "Search term"
// @Router /search [get]
func (h *handler) SearchMovies(c *gin.Context) {
	term := c.Query("q")
	results := h.store.Current().Search(term)
	c.Set("rows_processed", len(results))
	c.JSON(http.StatusOK, gin.H{
		"query":   term,
		"results": nonNil(results),
	})
}

func nonNil(records []movies.MovieRecord) []movies.MovieRecord {
	if records == nil {
		return []movies.MovieRecord{}
	}
	return records
}

func loadedAt(s *Snapshot) *string {
	if s.LoadedAt.IsZero() {
		return nil
	}
	formatted := s.LoadedAt.Format(time.RFC3339)
	return &formatted
}
