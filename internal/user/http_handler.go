package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"libraryapi/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// HTTPHandler exposes user registration and listing over HTTP.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler creates an HTTP handler over a user service.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerReq struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,min=8"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Roles    []string `json:"roles"`
}

// Register handles POST /create-user.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if fields := validateRegister(req); fields != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, fields)
		return
	}

	created, err := h.service.Register(r.Context(), User{
		Username: req.Username,
		Email:    req.Email,
		Roles:    req.Roles,
	}, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			httpx.Error(w, http.StatusConflict, fmt.Sprintf("username %s already exists", req.Username))
			return
		}
		log.Printf("user: register failed: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v2/users.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("user: list failed: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if users == nil {
		users = []User{}
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func validateRegister(req registerReq) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		switch fe.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("%s cannot be blank", name)
		case "min":
			fields[name] = fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
		case "email":
			fields[name] = "email must be a valid email address"
		default:
			fields[name] = fmt.Sprintf("%s is invalid", name)
		}
	}
	return fields
}
