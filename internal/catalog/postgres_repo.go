package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository on a pgx connection pool. Every
// query runs under a per-call timeout so a slow database cannot pin request
// goroutines.
type PostgresRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepository creates a Postgres-backed repository.
func NewPostgresRepository(db *pgxpool.Pool, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, timeout: timeout}
}

func (r *PostgresRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = "isbn, title, author, publication_year, genre, copies"

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	var genre *string
	err := row.Scan(&b.ISBN, &b.Title, &b.Author, &b.PublicationYear, &genre, &b.CopiesAvailable)
	if err != nil {
		return Book{}, err
	}
	if genre != nil {
		b.Genre = Genre(*genre)
	}
	return b, nil
}

func (r *PostgresRepository) collect(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullableGenre(g Genre) *string {
	if g == "" {
		return nil
	}
	s := string(g)
	return &s
}

func (r *PostgresRepository) Exists(ctx context.Context, isbn string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, isbn).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepository) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE isbn = $1 LIMIT 1`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, b Book) error {
	const query = `
		INSERT INTO books (isbn, title, author, publication_year, genre, copies)
		VALUES ($1, $2, $3, $4, $5, $6)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, query,
		b.ISBN, b.Title, b.Author, b.PublicationYear, nullableGenre(b.Genre), b.CopiesAvailable)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateISBN
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, b Book) error {
	const query = `
		INSERT INTO books (isbn, title, author, publication_year, genre, copies)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (isbn) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			publication_year = EXCLUDED.publication_year,
			genre = EXCLUDED.genre,
			copies = EXCLUDED.copies`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, query,
		b.ISBN, b.Title, b.Author, b.PublicationYear, nullableGenre(b.Genre), b.CopiesAvailable)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, isbn string) error {
	const query = `DELETE FROM books WHERE isbn = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, isbn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY created_at`, bookColumns)
	return r.collect(ctx, query)
}

func (r *PostgresRepository) FindByISBNRange(ctx context.Context, start, end string) ([]Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE isbn BETWEEN $1 AND $2
		ORDER BY isbn ASC`, bookColumns)
	return r.collect(ctx, query, start, end)
}

func (r *PostgresRepository) FindAllSortedDesc(ctx context.Context, field SortField) ([]Book, error) {
	column, ok := sortColumns[field]
	if !ok {
		return nil, ErrInvalidSortField
	}
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY %s DESC`, bookColumns, column)
	return r.collect(ctx, query)
}

// sortColumns whitelists the ORDER BY targets; field names never reach SQL
// without passing through it.
var sortColumns = map[SortField]string{
	SortByYear:   "publication_year",
	SortByTitle:  "title",
	SortByAuthor: "author",
	SortByGenre:  "genre",
	SortByCopies: "copies",
}

func (r *PostgresRepository) FindNewest(ctx context.Context, n int) ([]Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		ORDER BY publication_year DESC, created_at ASC
		LIMIT $1`, bookColumns)
	return r.collect(ctx, query, n)
}

func (r *PostgresRepository) SearchByTitle(ctx context.Context, keyword string, n int) ([]Book, error) {
	// LIKE, not ILIKE: the title match is case-sensitive.
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE title LIKE '%%' || $1 || '%%'
		ORDER BY title ASC
		LIMIT $2`, bookColumns)
	return r.collect(ctx, query, keyword, n)
}
