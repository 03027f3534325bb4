package catalog

import "context"

// Repository is the persistence contract the catalog service depends on.
// Implementations own durability only; every business invariant lives in the
// service. GetByISBN and Delete return ErrNotFound for absent ISBNs, and
// Insert returns ErrDuplicateISBN when the store's primary-key uniqueness
// check rejects the row.
type Repository interface {
	Exists(ctx context.Context, isbn string) (bool, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Insert(ctx context.Context, b Book) error
	Save(ctx context.Context, b Book) error
	Delete(ctx context.Context, isbn string) error
	FindAll(ctx context.Context) ([]Book, error)
	FindByISBNRange(ctx context.Context, start, end string) ([]Book, error)
	FindAllSortedDesc(ctx context.Context, field SortField) ([]Book, error)
	FindNewest(ctx context.Context, n int) ([]Book, error)
	SearchByTitle(ctx context.Context, keyword string, n int) ([]Book, error)
}
