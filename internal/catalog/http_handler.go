package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"libraryapi/internal/httpx"
)

// HTTPHandler exposes the catalog service over HTTP. It owns request and
// response marshaling only; every decision belongs to the service.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler creates an HTTP handler over a catalog service.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts every catalog route on mux under the given prefix, so the
// same handler set can serve both the root surface and the versioned one.
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string, wrap func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	handle("POST "+prefix+"/books", h.Create)
	handle("GET "+prefix+"/books", h.List)
	handle("GET "+prefix+"/books/{isbn}", h.GetByISBN)
	handle("PUT "+prefix+"/books/{isbn}", h.Replace)
	handle("PATCH "+prefix+"/books/{isbn}", h.Patch)
	handle("DELETE "+prefix+"/books/{isbn}", h.Delete)
	handle("GET "+prefix+"/books/isbn-range", h.ListByISBNRange)
	handle("GET "+prefix+"/books/sorted/{field}/desc", h.ListSortedDesc)
	handle("GET "+prefix+"/books/top3/newest", h.Top3Newest)
	handle("GET "+prefix+"/books/top10/search", h.Top10ByTitle)
}

// Create handles POST /books.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), b)
	if err != nil {
		// The duplicate ISBN comes from the body here, not the path.
		if errors.Is(err, ErrDuplicateISBN) {
			httpx.Error(w, http.StatusConflict, fmt.Sprintf("ISBN %s already exists", b.ISBN))
			return
		}
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /books.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookList(books))
}

// GetByISBN handles GET /books/{isbn}.
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, book)
}

// Replace handles PUT /books/{isbn}.
func (h *HTTPHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var b Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Replace(r.Context(), r.PathValue("isbn"), b)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /books/{isbn}.
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var p BookPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.Patch(r.Context(), r.PathValue("isbn"), p)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /books/{isbn}.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("isbn")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByISBNRange handles GET /books/isbn-range?startIsbn=&endIsbn=.
func (h *HTTPHandler) ListByISBNRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	books, err := h.service.ListByISBNRange(r.Context(), query.Get("startIsbn"), query.Get("endIsbn"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookList(books))
}

// ListSortedDesc handles GET /books/sorted/{field}/desc.
func (h *HTTPHandler) ListSortedDesc(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListSortedDesc(r.Context(), r.PathValue("field"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookList(books))
}

// Top3Newest handles GET /books/top3/newest.
func (h *HTTPHandler) Top3Newest(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Top3Newest(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookList(books))
}

// Top10ByTitle handles GET /books/top10/search?title=.
func (h *HTTPHandler) Top10ByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.Top10ByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookList(books))
}

// bookList keeps empty results as [] rather than null on the wire.
func bookList(books []Book) []Book {
	if books == nil {
		return []Book{}
	}
	return books
}

// writeDomainError maps a service error to its HTTP outcome. The specific
// kinds are matched before the 500 catch-all.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, ErrDuplicateISBN):
		httpx.Error(w, http.StatusConflict, fmt.Sprintf("ISBN %s already exists", r.PathValue("isbn")))
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, fmt.Sprintf("book not found with ISBN: %s", r.PathValue("isbn")))
	case errors.Is(err, ErrInvalidSortField):
		httpx.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid sort field: %s", r.PathValue("field")))
	default:
		log.Printf("catalog: %s %s failed: %v", r.Method, r.URL.Path, err)
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
