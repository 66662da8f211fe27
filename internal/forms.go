package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iksnae/captain-session/internal/api"
)

const (
	// DefaultCategory is used when a compliance question names none
	DefaultCategory = "trade_compliance"

	pdfExt = ".pdf"
)

// Categories lists the compliance knowledge bases the backend indexes
var Categories = []string{"trade_compliance", "documentation", "esg", "logistics", "payments", "insurance"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// validateForm checks s against its validate tags
func validateForm(form string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: failed to validate: %w", form, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Form: form, Fields: fields, Reason: "missing or invalid fields"}
}

// LoginForm is the identity a user signs in with
type LoginForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// User validates the form and derives a stable identity from it. The same
// email always maps to the same id, whatever the name.
func (f LoginForm) User() (User, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if err := validateForm("login", f); err != nil {
		return User{}, err
	}

	seed := strings.ToLower(f.Email)
	if seed == "" {
		seed = strings.ToLower(f.Name)
	}
	return User{
		ID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String(),
		Name:  f.Name,
		Email: f.Email,
	}, nil
}

// RAGForm is a question for the compliance knowledge base
type RAGForm struct {
	Query    string `json:"query" validate:"required"`
	Category string `json:"category" validate:"required,oneof=trade_compliance documentation esg logistics payments insurance"`
}

// UploadForm names a compliance document on disk
type UploadForm struct {
	Path string `json:"file" validate:"required"`
}

// AuxBackend is the part of the Captain API the side forms call
type AuxBackend interface {
	AskCompliance(ctx context.Context, r api.RAGRequest) (string, error)
	UploadCompliance(ctx context.Context, fileName string, content io.Reader) (*api.ComplianceReport, error)
	GenerateBill(ctx context.Context, r api.BillRequest) (*api.BillResult, error)
}

// Forms validates and submits the auxiliary forms. Nothing is sent when
// validation fails.
type Forms struct {
	backend  AuxBackend
	sessions *SessionManager
}

// NewForms creates the form handlers
func NewForms(backend AuxBackend, sessions *SessionManager) *Forms {
	return &Forms{backend: backend, sessions: sessions}
}

// AskCompliance submits a compliance question as the current user
func (f *Forms) AskCompliance(ctx context.Context, form RAGForm) (string, error) {
	form.Query = strings.TrimSpace(form.Query)
	form.Category = strings.TrimSpace(form.Category)
	if form.Category == "" {
		form.Category = DefaultCategory
	}
	if err := validateForm("compliance question", form); err != nil {
		return "", err
	}

	LogDebug("Asking compliance question in %s", form.Category)
	return f.backend.AskCompliance(ctx, api.RAGRequest{
		Query:    form.Query,
		Category: form.Category,
		User:     f.sessions.User().ID,
	})
}

// UploadCompliance checks and uploads a PDF for extraction and verification
func (f *Forms) UploadCompliance(ctx context.Context, form UploadForm) (*api.ComplianceReport, error) {
	form.Path = strings.TrimSpace(form.Path)
	if err := validateForm("compliance upload", form); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(form.Path), pdfExt) {
		return nil, &ValidationError{Form: "compliance upload", Fields: []string{"file"}, Reason: "must be a PDF"}
	}

	file, err := os.Open(form.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ValidationError{Form: "compliance upload", Fields: []string{"file"}, Reason: "no such file"}
		}
		return nil, fmt.Errorf("failed to open %s: %w", form.Path, err)
	}
	defer file.Close()

	LogInfo("Uploading %s", form.Path)
	return f.backend.UploadCompliance(ctx, filepath.Base(form.Path), file)
}

// GenerateBill validates every bill field and submits the bill
func (f *Forms) GenerateBill(ctx context.Context, bill api.BillRequest) (*api.BillResult, error) {
	if err := validateForm("bill", bill); err != nil {
		return nil, err
	}
	LogDebug("Generating bill %s", bill.BillNumber)
	return f.backend.GenerateBill(ctx, bill)
}
