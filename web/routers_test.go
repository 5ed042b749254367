package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/catalog"
	"movie-catalog/movies"
)

var pageMovies = []movies.MovieRecord{
	{Name: "Alpha", Type: "Drama", Translator: "Tuda", Poster: "https://img.example/a.jpg",
		Link: "https://watch.example/a", Trailer: "https://www.youtube.com/embed/ABC123", Description: "Opening night"},
	{Name: "Beta", Type: "Comedy", Trailer: "https://vimeo.com/1", Link: "magnet:?xt=1"},
	{Name: "Gamma", Type: "Drama", Translator: "Gio"},
	{Name: "Delta"},
}

func newWebRouter(records []movies.MovieRecord) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := catalog.NewStore()
	store.Swap(catalog.Build(records, time.Now(), "job-1"))

	r := gin.New()
	RegisterRoutes(r, store)
	return r
}

func getDoc(t *testing.T, r http.Handler, target string, status int) *goquery.Document {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, status, w.Code)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestHome(t *testing.T) {
	doc := getDoc(t, newWebRouter(pageMovies), "/", http.StatusOK)

	cards := doc.Find("#hero-stack .hero-card")
	require.Equal(t, 3, cards.Length())
	assert.True(t, cards.Eq(0).HasClass("center"))
	assert.True(t, cards.Eq(1).HasClass("right"))
	assert.True(t, cards.Eq(2).HasClass("left"))

	var titles []string
	doc.Find(".category-section h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s.Text()), ".")))
	})
	assert.Equal(t, []string{"Comedy", "Drama", "Other"}, titles)

	link, ok := doc.Find(".category-section .view-all-btn").First().Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/category/comedy", link)

	drama := doc.Find("#carousel-drama .movie-card")
	assert.Equal(t, 2, drama.Length())
	assert.Equal(t, "Tuda", drama.First().Find(".card-badge-translator").Text())

	other := doc.Find("#carousel-other .movie-card")
	require.Equal(t, 1, other.Length())
	assert.Equal(t, "N/A", other.Find(".card-badge-translator").Text())
	src, _ := other.Find("img.poster-img").Attr("src")
	assert.Equal(t, "https://via.placeholder.com/200x300", src)
}

func TestHome_EmptyCatalog(t *testing.T) {
	doc := getDoc(t, newWebRouter(nil), "/", http.StatusOK)

	assert.Equal(t, 0, doc.Find(".hero-card").Length())
	assert.Equal(t, 0, doc.Find(".category-section").Length())
}

func TestCategoryPage(t *testing.T) {
	r := newWebRouter(pageMovies)

	doc := getDoc(t, r, "/category/drama", http.StatusOK)
	assert.Equal(t, "Drama", doc.Find("#cat-page-title").Text())
	assert.Equal(t, 2, doc.Find("#category-grid .movie-card").Length())

	doc = getDoc(t, r, "/category/horror", http.StatusNotFound)
	assert.Equal(t, "Category not found", doc.Find("h1").Text())
}

func TestMoviePage(t *testing.T) {
	r := newWebRouter(pageMovies)

	doc := getDoc(t, r, "/movie?name=Alpha", http.StatusOK)
	assert.Equal(t, "Alpha", doc.Find("#page-title").Text())
	assert.Equal(t, "Drama", doc.Find("#page-type").Text())
	assert.Contains(t, doc.Find("#page-translator").Text(), "Tuda")
	assert.Equal(t, "Opening night", doc.Find("#page-desc").Text())
	assert.Contains(t, doc.Find("#page-date").Text(), "Date N/A")

	src, ok := doc.Find("#trailer-frame").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/embed/ABC123", src)
	href, ok := doc.Find("#watch-link").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://watch.example/a", href)

	related := doc.Find("#related-movies-grid .movie-card .card-title")
	require.Equal(t, 1, related.Length())
	assert.Equal(t, "Gamma", related.Text())
}

func TestMoviePage_Fallbacks(t *testing.T) {
	r := newWebRouter(pageMovies)

	doc := getDoc(t, r, "/movie?name=Beta", http.StatusOK)
	assert.Contains(t, doc.Find("#page-translator").Text(), "Unknown")
	assert.Equal(t, "No description provided.", doc.Find("#page-desc").Text())
	assert.Equal(t, 0, doc.Find("#trailer-frame").Length(), "non-embeddable trailer is hidden")
	assert.Equal(t, 0, doc.Find("#watch-link").Length(), "non-http link is hidden")
	assert.Equal(t, "No other movies found.", doc.Find("#related-movies-grid .no-related").Text())

	doc = getDoc(t, r, "/movie?name=Delta", http.StatusOK)
	assert.Equal(t, "Film", doc.Find("#page-type").Text())

	getDoc(t, r, "/movie?name=alpha", http.StatusNotFound)
}

func TestSearchDropdown(t *testing.T) {
	r := newWebRouter(pageMovies)

	doc := getDoc(t, r, "/search?q=ALP", http.StatusOK)
	items := doc.Find("#search-results-dropdown .search-item")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "Alpha", items.Find("h4").Text())
	assert.Equal(t, "Drama", items.Find("span").Text())
	src, _ := items.Find("img").Attr("src")
	assert.Equal(t, "https://img.example/a.jpg", src)

	doc = getDoc(t, r, "/search?q=el", http.StatusOK)
	items = doc.Find(".search-item")
	require.Equal(t, 1, items.Length())
	src, _ = items.Find("img").Attr("src")
	assert.Equal(t, "https://via.placeholder.com/40x60", src)

	doc = getDoc(t, r, "/search?q=a", http.StatusOK)
	assert.Equal(t, 0, doc.Find(".search-item").Length())
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://via.placeholder.com/300x450", posterURL("", "300x450"))
	assert.Equal(t, "https://img.example/p.jpg", posterURL("https://img.example/p.jpg", "300x450"))
	assert.Equal(t, "/movie?name=Alpha%2C+the+First", movieURL("Alpha, the First"))
}
