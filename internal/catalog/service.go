package catalog

import "context"

// Service owns the catalog business rules: field validation, duplicate
// detection, partial-update merging and sort-field dispatch. It holds no
// state of its own; everything durable lives behind Repository.
type Service struct {
	repo Repository
}

// NewService creates a catalog service on top of a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the candidate, rejects duplicate ISBNs and stores the
// book. The existence pre-check is advisory; a concurrent create losing the
// race is still reported as a duplicate via the store's uniqueness error.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	if fields := Validate(b); fields != nil {
		return Book{}, &ValidationError{Fields: fields}
	}

	exists, err := s.repo.Exists(ctx, b.ISBN)
	if err != nil {
		return Book{}, err
	}
	if exists {
		return Book{}, ErrDuplicateISBN
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get returns the book stored under isbn.
func (s *Service) Get(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// List returns every book in storage order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.FindAll(ctx)
}

// Replace overwrites every mutable field of an existing book with the
// candidate's values. The ISBN is fixed by the caller and never changes.
func (s *Service) Replace(ctx context.Context, isbn string, b Book) (Book, error) {
	existing, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		return Book{}, err
	}

	b.ISBN = existing.ISBN
	if fields := Validate(b); fields != nil {
		return Book{}, &ValidationError{Fields: fields}
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Patch applies a partial update to an existing book. Nil patch fields keep
// the stored value, as does a set-but-empty title or author; zero is a real
// value for copiesAvailable. Only the fields being replaced are validated.
func (s *Service) Patch(ctx context.Context, isbn string, p BookPatch) (Book, error) {
	existing, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		return Book{}, err
	}

	if fields := ValidatePatch(p); fields != nil {
		return Book{}, &ValidationError{Fields: fields}
	}

	merged := mergePatch(existing, p)
	if err := s.repo.Save(ctx, merged); err != nil {
		return Book{}, err
	}
	return merged, nil
}

func mergePatch(b Book, p BookPatch) Book {
	if p.Title != nil && *p.Title != "" {
		b.Title = *p.Title
	}
	if p.Author != nil && *p.Author != "" {
		b.Author = *p.Author
	}
	if p.PublicationYear != nil {
		b.PublicationYear = *p.PublicationYear
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.CopiesAvailable != nil {
		b.CopiesAvailable = *p.CopiesAvailable
	}
	return b
}

// Delete removes the book stored under isbn. Deleting an absent ISBN fails
// with ErrNotFound, so repeating a delete fails the same way.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}

// ListByISBNRange returns books whose ISBN falls within the inclusive
// bounds, compared lexicographically, ascending. The bounds are passed to the
// store as given.
func (s *Service) ListByISBNRange(ctx context.Context, start, end string) ([]Book, error) {
	return s.repo.FindByISBNRange(ctx, start, end)
}

// ListSortedDesc returns all books ordered descending by the named field.
func (s *Service) ListSortedDesc(ctx context.Context, field string) ([]Book, error) {
	sortField, err := ParseSortField(field)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAllSortedDesc(ctx, sortField)
}

// Top3Newest returns at most three books with the largest publication year.
func (s *Service) Top3Newest(ctx context.Context) ([]Book, error) {
	return s.repo.FindNewest(ctx, 3)
}

// Top10ByTitle returns at most ten books whose title contains keyword as a
// case-sensitive substring, ordered ascending by title.
func (s *Service) Top10ByTitle(ctx context.Context, keyword string) ([]Book, error) {
	return s.repo.SearchByTitle(ctx, keyword, 10)
}
