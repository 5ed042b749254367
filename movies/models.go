package movies

// DefaultCategory is the bucket for records without a type
const DefaultCategory = "Other"

// MovieRecord is one catalog row after normalization.
// Only Name is guaranteed to be non-empty.
type MovieRecord struct {
	Name        string            `json:"name"`
	Type        string            `json:"type,omitempty"`
	Translator  string            `json:"translator,omitempty"`
	Poster      string            `json:"poster,omitempty"`
	Date        string            `json:"date,omitempty"`
	Description string            `json:"description,omitempty"`
	Link        string            `json:"link,omitempty"`
	Trailer     string            `json:"trailer,omitempty"` // always in embeddable form when set
	Extra       map[string]string `json:"extra,omitempty"`   // any other column, keyed by canonical header
}

// Category returns the bucket key: the type, or DefaultCategory when empty
func (m MovieRecord) Category() string {
	if m.Type == "" {
		return DefaultCategory
	}
	return m.Type
}

// HasEmbeddableTrailer reports whether the trailer can be loaded in a player frame
func (m MovieRecord) HasEmbeddableTrailer() bool {
	return Embeddable(m.Trailer)
}
