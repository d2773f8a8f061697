package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/fieldwork/internal/db"
)

// Request describes one board import.
type Request struct {
	Board      string `json:"board" validate:"required"`
	Company    string `json:"company" validate:"required,max=200"`
	WebsiteURL string `json:"website_url,omitempty" validate:"omitempty,url"`
	Industry   string `json:"industry,omitempty" validate:"max=100"`
	Reimport   bool   `json:"reimport,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`
}

// Manifest lists the boards imported by one batch run.
type Manifest struct {
	Companies []Request `json:"companies" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request fields.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fieldError(err)
	}
	if db.NormalizeName(r.Company) == "" {
		return &ValidationError{Field: "company", Message: "must contain letters or digits"}
	}
	return nil
}

// Validate checks every request and rejects manifests that name the same
// company twice.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fieldError(err)
	}
	seen := make(map[string]int, len(m.Companies))
	for i := range m.Companies {
		if err := m.Companies[i].Validate(); err != nil {
			return fmt.Errorf("companies[%d]: %w", i, err)
		}
		key := db.NormalizeName(m.Companies[i].Company)
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Field:   fmt.Sprintf("companies[%d].company", i),
				Message: fmt.Sprintf("%q duplicates companies[%d]", m.Companies[i].Company, j),
			}
		}
		seen[key] = i
	}
	return nil
}

// LoadManifest reads and validates a JSON manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ValidationError{Message: "manifest is not valid JSON", Cause: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func fieldError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &ValidationError{Field: fe.Field(), Message: msg, Cause: err}
	}
	return &ValidationError{Message: err.Error(), Cause: err}
}
