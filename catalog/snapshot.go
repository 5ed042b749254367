package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"movie-catalog/movies"
)

const (
	// FeaturedCount is the size of the hero set
	FeaturedCount = 3
	// RelatedLimit caps the related list on a detail view
	RelatedLimit = 8
	// MinSearchLength is the shortest term that produces results
	MinSearchLength = 2
)

// Category is one bucket of the index in display form
type Category struct {
	Name   string               `json:"name"`
	Slug   string               `json:"slug"`
	Movies []movies.MovieRecord `json:"movies,omitempty"`
}

// Snapshot is the catalog produced by one successful load.
// It is never modified after Build returns; a reload installs a new one.
type Snapshot struct {
	Movies     []movies.MovieRecord
	ByCategory map[string][]movies.MovieRecord
	Featured   []movies.MovieRecord
	LoadedAt   time.Time
	JobID      string

	categories []Category
	bySlug     map[string]int
}

// Build indexes records into a new snapshot
func Build(records []movies.MovieRecord, loadedAt time.Time, jobID string) *Snapshot {
	s := &Snapshot{
		Movies:     records,
		ByCategory: Index(records),
		Featured:   SelectFeatured(records),
		LoadedAt:   loadedAt,
		JobID:      jobID,
	}

	keys := SortedKeys(s.ByCategory)
	s.categories = make([]Category, 0, len(keys))
	s.bySlug = make(map[string]int, len(keys))
	for i, name := range keys {
		sl := uniqueSlug(name, s.bySlug)
		s.bySlug[sl] = i
		s.categories = append(s.categories, Category{Name: name, Slug: sl, Movies: s.ByCategory[name]})
	}
	return s
}

// Empty returns a snapshot with no records
func Empty() *Snapshot {
	return Build(nil, time.Time{}, "")
}

// Categories returns the buckets sorted by name
func (s *Snapshot) Categories() []Category {
	return s.categories
}

// CategoryBySlug finds a bucket by its URL slug
func (s *Snapshot) CategoryBySlug(sl string) (Category, bool) {
	i, ok := s.bySlug[sl]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// FindByName returns the first record with exactly this name
func (s *Snapshot) FindByName(name string) (movies.MovieRecord, bool) {
	return FindByName(s.Movies, name)
}

// Search applies the minimum term length before matching. Shorter terms
// are treated as no query and return nothing.
func (s *Snapshot) Search(term string) []movies.MovieRecord {
	if utf8.RuneCountInString(term) < MinSearchLength {
		return nil
	}
	return Search(s.Movies, term)
}

// Related lists other records from the same bucket as movie
func (s *Snapshot) Related(movie movies.MovieRecord, limit int) []movies.MovieRecord {
	var related []movies.MovieRecord
	for _, m := range s.ByCategory[movie.Category()] {
		if len(related) >= limit {
			break
		}
		if m.Name == movie.Name {
			continue
		}
		related = append(related, m)
	}
	return related
}

// Index groups records by category, keeping input order inside each bucket
func Index(records []movies.MovieRecord) map[string][]movies.MovieRecord {
	index := make(map[string][]movies.MovieRecord)
	for _, m := range records {
		key := m.Category()
		index[key] = append(index[key], m)
	}
	return index
}

// SortedKeys returns bucket names in lexicographic order
func SortedKeys(index map[string][]movies.MovieRecord) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SelectFeatured returns the first FeaturedCount records
func SelectFeatured(records []movies.MovieRecord) []movies.MovieRecord {
	n := min(FeaturedCount, len(records))
	featured := make([]movies.MovieRecord, n)
	copy(featured, records[:n])
	return featured
}

// FindByName scans for the first exact name match
func FindByName(records []movies.MovieRecord, name string) (movies.MovieRecord, bool) {
	for _, m := range records {
		if m.Name == name {
			return m, true
		}
	}
	return movies.MovieRecord{}, false
}

// Search matches records whose name contains term, ignoring case
func Search(records []movies.MovieRecord, term string) []movies.MovieRecord {
	term = strings.ToLower(term)
	var matches []movies.MovieRecord
	for _, m := range records {
		if strings.Contains(strings.ToLower(m.Name), term) {
			matches = append(matches, m)
		}
	}
	return matches
}

func uniqueSlug(name string, taken map[string]int) string {
	base := slug.Make(name)
	if base == "" {
		base = "category"
	}
	sl := base
	for n := 2; ; n++ {
		if _, exists := taken[sl]; !exists {
			return sl
		}
		sl = base + "-" + strconv.Itoa(n)
	}
}
