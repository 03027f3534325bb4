package catalog

import "errors"

// ErrNotFound is returned when no book exists for the requested ISBN.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when creating a book whose ISBN is already in
// the catalog. It is raised both by the service's existence pre-check and by
// the store's own primary-key enforcement, whichever fires first.
var ErrDuplicateISBN = errors.New("isbn already exists")

// ErrInvalidSortField is returned when a sort token names no known field.
var ErrInvalidSortField = errors.New("invalid sort field")

// Genre is the fixed set of catalog genres.
type Genre string

const (
	GenreFiction        Genre = "FICTION"
	GenreNonfiction     Genre = "NONFICTION"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreFantasy        Genre = "FANTASY"
	GenreMystery        Genre = "MYSTERY"
	GenreBiography      Genre = "BIOGRAPHY"
	GenreHistory        Genre = "HISTORY"
	GenreRomance        Genre = "ROMANCE"
)

// Genres lists every valid genre value.
var Genres = []Genre{
	GenreFiction,
	GenreNonfiction,
	GenreScienceFiction,
	GenreFantasy,
	GenreMystery,
	GenreBiography,
	GenreHistory,
	GenreRomance,
}

// Book is a catalog record keyed by ISBN. The ISBN is immutable after
// creation; every other field may be overwritten by a full or partial update.
type Book struct {
	ISBN            string `json:"isbn" validate:"required,book_isbn"`
	Title           string `json:"title" validate:"required,max=100"`
	Author          string `json:"author" validate:"required,max=50"`
	PublicationYear int    `json:"publicationYear" validate:"gte=1800,lte=2025"`
	Genre           Genre  `json:"genre,omitempty" validate:"omitempty,book_genre"`
	CopiesAvailable int    `json:"copiesAvailable" validate:"gte=0"`
}

// BookPatch describes a partial update. Nil fields are absent and leave the
// existing value alone. A non-nil empty Title or Author also means "no
// change"; for the numeric and genre fields only nil means that.
type BookPatch struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	PublicationYear *int    `json:"publicationYear"`
	Genre           *Genre  `json:"genre"`
	CopiesAvailable *int    `json:"copiesAvailable"`
}

// ValidationError carries every field constraint violated by a candidate
// book or patch, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "book validation failed"
}

// SortField names a book field the catalog can be ordered by.
type SortField string

const (
	SortByYear   SortField = "year"
	SortByTitle  SortField = "title"
	SortByAuthor SortField = "author"
	SortByGenre  SortField = "genre"
	SortByCopies SortField = "copies"
)

// ParseSortField maps a client-supplied token to a SortField. Unknown tokens
// are a client-input error, not a missing resource.
func ParseSortField(token string) (SortField, error) {
	switch SortField(token) {
	case SortByYear, SortByTitle, SortByAuthor, SortByGenre, SortByCopies:
		return SortField(token), nil
	default:
		return "", ErrInvalidSortField
	}
}
