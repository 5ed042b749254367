package movies

import (
	"strings"

	"movie-catalog/parsers"
)

const (
	watchParam = "watch?v="
	shortHost  = "youtu.be/"
	embedPath  = "embed/"
	embedHost  = "www.youtube.com/embed/"
)

// NormalizeTrailer rewrites video watch links into their embeddable form.
//
//	https://www.youtube.com/watch?v=ID&t=5s -> https://www.youtube.com/embed/ID
//	https://youtu.be/ID?t=3                 -> https://www.youtube.com/embed/ID
//
// Any other URL is returned unchanged.
func NormalizeTrailer(url string) string {
	switch {
	case url == "":
		return url
	case strings.Contains(url, watchParam):
		url = strings.Replace(url, watchParam, embedPath, 1)
		url, _, _ = strings.Cut(url, "&")
	case strings.Contains(url, shortHost):
		url = strings.Replace(url, shortHost, embedHost, 1)
		url, _, _ = strings.Cut(url, "?")
	}
	return url
}

// Embeddable reports whether a stored trailer URL can be framed
func Embeddable(url string) bool {
	return strings.Contains(url, "embed")
}

// NormalizeMovieRecord builds a typed record from a mapped row.
// Unknown fields land in Extra; the trailer is rewritten.
func NormalizeMovieRecord(record parsers.Record) MovieRecord {
	var movie MovieRecord
	for field, value := range record {
		switch field {
		case "name":
			movie.Name = value
		case "type":
			movie.Type = value
		case "translator":
			movie.Translator = value
		case "poster":
			movie.Poster = value
		case "date":
			movie.Date = value
		case "description":
			movie.Description = value
		case "link":
			movie.Link = value
		case "trailer":
			movie.Trailer = value
		default:
			if movie.Extra == nil {
				movie.Extra = make(map[string]string)
			}
			movie.Extra[field] = value
		}
	}

	movie.Trailer = NormalizeTrailer(movie.Trailer)
	return movie
}
