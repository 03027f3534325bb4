package catalog

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report violations under the JSON field names clients actually sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("book_isbn", validateISBN)
	validate.RegisterValidation("book_genre", validateGenre)
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	if len(isbn) != 10 && len(isbn) != 13 {
		return false
	}
	for _, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

func validateGenre(fl validator.FieldLevel) bool {
	return knownGenre(Genre(fl.Field().String()))
}

func knownGenre(g Genre) bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Validate checks every field constraint on a candidate book and returns all
// violations at once, keyed by JSON field name. A nil map means valid.
func Validate(b Book) map[string]string {
	return violationMap(validate.Struct(b))
}

// ValidatePatch checks only the fields a patch sets. Nil fields are skipped.
// A set-but-empty title or author passes because the merge treats it as "keep
// existing value", but a set zero year or negative copy count is a real
// violation. The checks are explicit here: validator's omitempty would let a
// pointer to a zero value slide through.
func ValidatePatch(p BookPatch) map[string]string {
	fields := make(map[string]string)

	if p.Title != nil && utf8.RuneCountInString(*p.Title) > 100 {
		fields["title"] = violationLimit("title", "cannot exceed 100 characters")
	}
	if p.Author != nil && utf8.RuneCountInString(*p.Author) > 50 {
		fields["author"] = violationLimit("author", "cannot exceed 50 characters")
	}
	if p.PublicationYear != nil && (*p.PublicationYear < 1800 || *p.PublicationYear > 2025) {
		fields["publicationYear"] = violationLimit("publicationYear", "must be between 1800 and 2025")
	}
	if p.Genre != nil && !knownGenre(*p.Genre) {
		fields["genre"] = "genre must be one of the known genre values"
	}
	if p.CopiesAvailable != nil && *p.CopiesAvailable < 0 {
		fields["copiesAvailable"] = violationLimit("copiesAvailable", "must be at least 0")
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func violationLimit(name, rule string) string {
	return name + " " + rule
}

func violationMap(err error) map[string]string {
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = violationMessage(name, fe)
	}
	return fields
}

func violationMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be blank", name)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "book_isbn":
		return "isbn must be 10 or 13 characters long, containing only letters and digits"
	case "book_genre":
		return "genre must be one of the known genre values"
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
