package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog/catalog"
	"movie-catalog/movies"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const placeholderBase = "https://via.placeholder.com/"

var funcs = template.FuncMap{
	"poster":   posterURL,
	"movieURL": movieURL,
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.New("web").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// posterURL falls back to a placeholder of the given size when the record has no poster
func posterURL(poster, size string) string {
	if poster == "" {
		return placeholderBase + size
	}
	return poster
}

func movieURL(name string) string {
	return "/movie?name=" + url.QueryEscape(name)
}

type page struct {
	Title string
}

type homePage struct {
	page
	Featured   []movies.MovieRecord
	Hero       catalog.HeroState
	Categories []catalog.Category
}

type categoryPage struct {
	page
	Category catalog.Category
}

type moviePage struct {
	page
	Detail catalog.MovieDetail
}

type searchFragment struct {
	Results []movies.MovieRecord
}

type notFoundPage struct {
	page
	Message string
}

type handler struct {
	store *catalog.Store
	now   func() time.Time
}

// RegisterRoutes installs the page templates on the engine and mounts the HTML views
func RegisterRoutes(engine *gin.Engine, store *catalog.Store) {
	engine.SetHTMLTemplate(Templates())

	h := &handler{store: store, now: time.Now}
	engine.GET("/", h.Home)
	engine.GET("/category/:slug", h.CategoryPage)
	engine.GET("/movie", h.MoviePage)
	engine.GET("/search", h.SearchDropdown)
}

// Home renders the hero stack and one carousel per category
func (h *handler) Home(c *gin.Context) {
	s, hero := h.store.View()
	c.HTML(http.StatusOK, "home", homePage{
		page:       page{Title: "Movies"},
		Featured:   s.Featured,
		Hero:       hero,
		Categories: s.Categories(),
	})
}

// CategoryPage renders every movie of one category
func (h *handler) CategoryPage(c *gin.Context) {
	cat, ok := h.store.Current().CategoryBySlug(c.Param("slug"))
	if !ok {
		h.notFound(c, "Category not found")
		return
	}
	c.Set("rows_processed", len(cat.Movies))
	c.HTML(http.StatusOK, "category", categoryPage{
		page:     page{Title: cat.Name},
		Category: cat,
	})
}

// MoviePage renders the detail view of the movie named by the name query parameter
func (h *handler) MoviePage(c *gin.Context) {
	s := h.store.Current()
	movie, ok := s.FindByName(c.Query("name"))
	if !ok {
		h.notFound(c, "Movie not found")
		return
	}
	c.HTML(http.StatusOK, "movie", moviePage{
		page:   page{Title: movie.Name},
		Detail: catalog.NewMovieDetail(s, movie, h.now()),
	})
}

// SearchDropdown renders the search results fragment for the q query parameter
func (h *handler) SearchDropdown(c *gin.Context) {
	results := h.store.Current().Search(c.Query("q"))
	c.Set("rows_processed", len(results))
	c.HTML(http.StatusOK, "search", searchFragment{Results: results})
}

func (h *handler) notFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "notfound", notFoundPage{
		page:    page{Title: message},
		Message: message,
	})
}
