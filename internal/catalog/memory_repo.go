package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository. It preserves
// insertion order, which stands in for the relational store's storage order.
// It backs the test suite and the server's no-database development mode.
type MemoryRepository struct {
	mu    sync.RWMutex
	books map[string]Book
	order []string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[string]Book)}
}

func (r *MemoryRepository) Exists(_ context.Context, isbn string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.books[isbn]
	return ok, nil
}

func (r *MemoryRepository) GetByISBN(_ context.Context, isbn string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepository) Insert(_ context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ISBN]; ok {
		return ErrDuplicateISBN
	}
	r.books[b.ISBN] = b
	r.order = append(r.order, b.ISBN)
	return nil
}

func (r *MemoryRepository) Save(_ context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ISBN]; !ok {
		r.order = append(r.order, b.ISBN)
	}
	r.books[b.ISBN] = b
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[isbn]; !ok {
		return ErrNotFound
	}
	delete(r.books, isbn)
	for i, key := range r.order {
		if key == isbn {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

func (r *MemoryRepository) FindByISBNRange(_ context.Context, start, end string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Book
	for _, b := range r.snapshot() {
		if b.ISBN >= start && b.ISBN <= end {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out, nil
}

func (r *MemoryRepository) FindAllSortedDesc(_ context.Context, field SortField) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		switch field {
		case SortByYear:
			return out[i].PublicationYear > out[j].PublicationYear
		case SortByTitle:
			return out[i].Title > out[j].Title
		case SortByAuthor:
			return out[i].Author > out[j].Author
		case SortByGenre:
			return out[i].Genre > out[j].Genre
		case SortByCopies:
			return out[i].CopiesAvailable > out[j].CopiesAvailable
		default:
			return false
		}
	})
	return out, nil
}

func (r *MemoryRepository) FindNewest(_ context.Context, n int) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Stable sort keeps insertion order among books of the same year.
	out := r.snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublicationYear > out[j].PublicationYear
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *MemoryRepository) SearchByTitle(_ context.Context, keyword string, n int) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Book
	for _, b := range r.snapshot() {
		if strings.Contains(b.Title, keyword) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// snapshot copies the books in insertion order. Callers hold at least the
// read lock.
func (r *MemoryRepository) snapshot() []Book {
	out := make([]Book, 0, len(r.order))
	for _, isbn := range r.order {
		out = append(out, r.books[isbn])
	}
	return out
}
