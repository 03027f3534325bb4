package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, books ...Book) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	for _, b := range books {
		require.NoError(t, repo.Insert(context.Background(), b))
	}
	return NewService(repo), repo
}

func TestService_CreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	want := validBook()
	created, err := svc.Create(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, created)

	got, err := svc.Get(ctx, want.ISBN)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_CreateInvalidBook(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	b := validBook()
	b.ISBN = "nope"
	b.CopiesAvailable = -2

	_, err := svc.Create(ctx, b)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "isbn")
	assert.Contains(t, verr.Fields, "copiesAvailable")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_CreateDuplicateLeavesOriginalUntouched(t *testing.T) {
	original := validBook()
	svc, _ := newTestService(t, original)
	ctx := context.Background()

	dup := original
	dup.Title = "A Different Title"

	_, err := svc.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateISBN)

	got, err := svc.Get(ctx, original.ISBN)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestService_GetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "9999999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Replace(t *testing.T) {
	original := validBook()
	svc, _ := newTestService(t, original)
	ctx := context.Background()

	candidate := Book{
		Title:           "Rewritten",
		Author:          "Someone Else",
		PublicationYear: 2020,
		Genre:           GenreHistory,
		CopiesAvailable: 1,
	}

	updated, err := svc.Replace(ctx, original.ISBN, candidate)
	require.NoError(t, err)
	assert.Equal(t, original.ISBN, updated.ISBN, "isbn is fixed by the path")
	assert.Equal(t, "Rewritten", updated.Title)

	got, err := svc.Get(ctx, original.ISBN)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestService_ReplaceMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Replace(context.Background(), "9999999999999", validBook())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ReplaceInvalidCandidate(t *testing.T) {
	original := validBook()
	svc, _ := newTestService(t, original)

	candidate := validBook()
	candidate.Title = ""

	_, err := svc.Replace(context.Background(), original.ISBN, candidate)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
}

func TestService_PatchMergePolicy(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(n int) *int { return &n }
	genrePtr := func(g Genre) *Genre { return &g }

	tests := []struct {
		name  string
		patch BookPatch
		want  func(Book) Book
	}{
		{
			name:  "empty patch changes nothing",
			patch: BookPatch{},
			want:  func(b Book) Book { return b },
		},
		{
			name:  "empty title means no change",
			patch: BookPatch{Title: strPtr("")},
			want:  func(b Book) Book { return b },
		},
		{
			name:  "empty author means no change",
			patch: BookPatch{Author: strPtr("")},
			want:  func(b Book) Book { return b },
		},
		{
			name:  "title replaced",
			patch: BookPatch{Title: strPtr("New Title")},
			want: func(b Book) Book {
				b.Title = "New Title"
				return b
			},
		},
		{
			name:  "zero copies is a real value",
			patch: BookPatch{CopiesAvailable: intPtr(0)},
			want: func(b Book) Book {
				b.CopiesAvailable = 0
				return b
			},
		},
		{
			name: "several fields at once",
			patch: BookPatch{
				Author:          strPtr("Brian Kernighan"),
				PublicationYear: intPtr(1988),
				Genre:           genrePtr(GenreHistory),
			},
			want: func(b Book) Book {
				b.Author = "Brian Kernighan"
				b.PublicationYear = 1988
				b.Genre = GenreHistory
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := validBook()
			svc, _ := newTestService(t, original)
			ctx := context.Background()

			updated, err := svc.Patch(ctx, original.ISBN, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want(original), updated)

			got, err := svc.Get(ctx, original.ISBN)
			require.NoError(t, err)
			assert.Equal(t, updated, got)
		})
	}
}

func TestService_PatchInvalidField(t *testing.T) {
	original := validBook()
	svc, _ := newTestService(t, original)
	year := 1500

	_, err := svc.Patch(context.Background(), original.ISBN, BookPatch{PublicationYear: &year})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "publicationYear")
}

func TestService_PatchMissing(t *testing.T) {
	svc, _ := newTestService(t)
	title := "x"
	_, err := svc.Patch(context.Background(), "9999999999999", BookPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteIsNotIdempotent(t *testing.T) {
	original := validBook()
	svc, _ := newTestService(t, original)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, original.ISBN))

	_, err := svc.Get(ctx, original.ISBN)
	assert.ErrorIs(t, err, ErrNotFound)

	// A second delete of the same ISBN fails the same way.
	assert.ErrorIs(t, svc.Delete(ctx, original.ISBN), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "9999999999999"), ErrNotFound)
}

func rangedBook(isbn string, year int) Book {
	b := validBook()
	b.ISBN = isbn
	b.PublicationYear = year
	return b
}

func TestService_ListByISBNRange(t *testing.T) {
	svc, _ := newTestService(t,
		rangedBook("9781234567893", 2001),
		rangedBook("9781234567890", 2002),
		rangedBook("9781234567891", 2003),
		rangedBook("9781234567899", 2004),
	)

	books, err := svc.ListByISBNRange(context.Background(), "9781234567890", "9781234567891")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "9781234567890", books[0].ISBN)
	assert.Equal(t, "9781234567891", books[1].ISBN)
}

func TestService_ListSortedDesc(t *testing.T) {
	a := validBook()
	a.ISBN = "1111111111"
	a.Title = "Alpha"
	a.PublicationYear = 1990
	b := validBook()
	b.ISBN = "2222222222"
	b.Title = "Zulu"
	b.PublicationYear = 2010
	c := validBook()
	c.ISBN = "3333333333"
	c.Title = "Mike"
	c.PublicationYear = 2000

	svc, _ := newTestService(t, a, b, c)
	ctx := context.Background()

	byYear, err := svc.ListSortedDesc(ctx, "year")
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2000, 1990}, []int{
		byYear[0].PublicationYear, byYear[1].PublicationYear, byYear[2].PublicationYear,
	})

	byTitle, err := svc.ListSortedDesc(ctx, "title")
	require.NoError(t, err)
	assert.Equal(t, "Zulu", byTitle[0].Title)
	assert.Equal(t, "Alpha", byTitle[2].Title)

	_, err = svc.ListSortedDesc(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestService_Top3Newest(t *testing.T) {
	var books []Book
	for i := 0; i < 5; i++ {
		books = append(books, rangedBook(fmt.Sprintf("978000000000%d", i), 2000+i))
	}
	svc, _ := newTestService(t, books...)

	top, err := svc.Top3Newest(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 2004, top[0].PublicationYear)
	assert.Equal(t, 2003, top[1].PublicationYear)
	assert.Equal(t, 2002, top[2].PublicationYear)
}

func TestService_Top3NewestTiesKeepStorageOrder(t *testing.T) {
	svc, _ := newTestService(t,
		rangedBook("1111111111", 2000),
		rangedBook("2222222222", 2000),
		rangedBook("3333333333", 1999),
	)

	top, err := svc.Top3Newest(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "1111111111", top[0].ISBN)
	assert.Equal(t, "2222222222", top[1].ISBN)
}

func titledBook(isbn, title string) Book {
	b := validBook()
	b.ISBN = isbn
	b.Title = title
	return b
}

func TestService_Top10ByTitle(t *testing.T) {
	svc, _ := newTestService(t,
		titledBook("1111111111", "The Great Gatsby"),
		titledBook("2222222222", "Great Expectations"),
		titledBook("3333333333", "A great day"), // lowercase, must not match
		titledBook("4444444444", "Moby Dick"),
	)

	books, err := svc.Top10ByTitle(context.Background(), "Great")
	require.NoError(t, err)
	require.Len(t, books, 2)
	// Ascending title order.
	assert.Equal(t, "Great Expectations", books[0].Title)
	assert.Equal(t, "The Great Gatsby", books[1].Title)
}

func TestService_Top10ByTitleCap(t *testing.T) {
	var books []Book
	for i := 0; i < 12; i++ {
		books = append(books, titledBook(fmt.Sprintf("97800000000%02d", i), fmt.Sprintf("Great Book %02d", i)))
	}
	svc, _ := newTestService(t, books...)

	got, err := svc.Top10ByTitle(context.Background(), "Great")
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestService_ListKeepsStorageOrder(t *testing.T) {
	first := rangedBook("9990000000001", 2001)
	second := rangedBook("1110000000002", 2002)
	svc, _ := newTestService(t, first, second)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ISBN, all[0].ISBN)
	assert.Equal(t, second.ISBN, all[1].ISBN)
}
