package internal

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/iksnae/captain-session/internal/api"
	"github.com/iksnae/captain-session/testutil"
)

type stubAuxBackend struct {
	calls    int
	rag      api.RAGRequest
	fileName string
	content  []byte
	bill     api.BillRequest
}

func (b *stubAuxBackend) AskCompliance(ctx context.Context, r api.RAGRequest) (string, error) {
	b.calls++
	b.rag = r
	return "answer", nil
}

func (b *stubAuxBackend) UploadCompliance(ctx context.Context, fileName string, content io.Reader) (*api.ComplianceReport, error) {
	b.calls++
	b.fileName = fileName
	b.content, _ = io.ReadAll(content)
	return &api.ComplianceReport{FileName: fileName}, nil
}

func (b *stubAuxBackend) GenerateBill(ctx context.Context, r api.BillRequest) (*api.BillResult, error) {
	b.calls++
	b.bill = r
	return &api.BillResult{Customer: r.CustomerName}, nil
}

func newTestForms(t *testing.T) (*Forms, *stubAuxBackend, *SessionManager) {
	t.Helper()
	m, _ := newTestSessionManager(t)
	backend := &stubAuxBackend{}
	return NewForms(backend, m), backend, m
}

func completeBill() api.BillRequest {
	return api.BillRequest{
		BillNumber:      "LB-001",
		BillDate:        "2024-05-01",
		CustomerName:    "Acme Traders",
		CustomerAddress: "12 Harbour Rd",
		DriverName:      "Kumar",
		DriverPhone:     "+91 98400 00000",
		VehicleNumber:   "TN 01 AB 1234",
		Origin:          "Chennai",
		Destination:     "Bengaluru",
		Material:        "Cotton yarn",
		GrossWeight:     "12000",
		TareWeight:      "4000",
		Rate:            "2.5",
	}
}

func TestLoginForm_User(t *testing.T) {
	a, err := LoginForm{Name: "Priya", Email: "priya@example.com"}.User()
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	b, _ := LoginForm{Name: "P. Raman", Email: "  PRIYA@example.com "}.User()
	if a.ID != b.ID {
		t.Errorf("same email gave ids %q and %q", a.ID, b.ID)
	}
	if b.Email != "PRIYA@example.com" || b.Name != "P. Raman" {
		t.Errorf("User() = %+v, want trimmed fields", b)
	}

	c, _ := LoginForm{Name: "Priya"}.User()
	if c.ID == a.ID || c.ID == "" {
		t.Errorf("name-only id = %q", c.ID)
	}
}

func TestLoginForm_Invalid(t *testing.T) {
	tests := []struct {
		name string
		form LoginForm
		want []string
	}{
		{name: "missing name", form: LoginForm{Name: "  "}, want: []string{"name"}},
		{name: "bad email", form: LoginForm{Name: "Ana", Email: "ana@"}, want: []string{"email"}},
		{name: "both", form: LoginForm{Email: "x"}, want: []string{"name", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.User()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("User() error = %v, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.Fields, tt.want) {
				t.Errorf("Fields = %v, want %v", verr.Fields, tt.want)
			}
		})
	}
}

func TestForms_AskCompliance(t *testing.T) {
	f, backend, m := newTestForms(t)

	answer, err := f.AskCompliance(context.Background(), RAGForm{Query: " Which documents for HS 5205? "})
	if err != nil {
		t.Fatalf("AskCompliance() error = %v", err)
	}
	if answer != "answer" {
		t.Errorf("answer = %q", answer)
	}
	want := api.RAGRequest{Query: "Which documents for HS 5205?", Category: DefaultCategory, User: m.User().ID}
	if backend.rag != want {
		t.Errorf("request = %+v, want %+v", backend.rag, want)
	}
}

func TestForms_AskComplianceInvalid(t *testing.T) {
	tests := []struct {
		name string
		form RAGForm
	}{
		{name: "blank query", form: RAGForm{Query: "  "}},
		{name: "unknown category", form: RAGForm{Query: "q", Category: "weather"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, backend, _ := newTestForms(t)
			_, err := f.AskCompliance(context.Background(), tt.form)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error = %v, want *ValidationError", err)
			}
			if backend.calls != 0 {
				t.Errorf("invalid form made %d calls", backend.calls)
			}
		})
	}
}

func TestForms_UploadCompliance(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	pdf := testutil.WriteFile(t, dir, "invoice.PDF", testutil.MinimalPDF)
	txt := testutil.WriteFile(t, dir, "notes.txt", []byte("hello"))

	f, backend, _ := newTestForms(t)
	report, err := f.UploadCompliance(context.Background(), UploadForm{Path: pdf})
	if err != nil {
		t.Fatalf("UploadCompliance() error = %v", err)
	}
	if report.FileName != "invoice.PDF" || string(backend.content) != string(testutil.MinimalPDF) {
		t.Errorf("uploaded %q with %d bytes", backend.fileName, len(backend.content))
	}

	for _, path := range []string{"", txt, dir + "/missing.pdf"} {
		f, backend, _ := newTestForms(t)
		_, err := f.UploadCompliance(context.Background(), UploadForm{Path: path})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("UploadCompliance(%q) error = %v, want *ValidationError", path, err)
		}
		if backend.calls != 0 {
			t.Errorf("UploadCompliance(%q) made a call", path)
		}
	}
}

func TestForms_GenerateBill(t *testing.T) {
	f, backend, _ := newTestForms(t)

	result, err := f.GenerateBill(context.Background(), completeBill())
	if err != nil {
		t.Fatalf("GenerateBill() error = %v", err)
	}
	if result.Customer != "Acme Traders" || backend.bill != completeBill() {
		t.Errorf("GenerateBill() = %+v, sent %+v", result, backend.bill)
	}

	bill := completeBill()
	bill.DriverPhone = ""
	bill.Rate = ""
	f, backend, _ = newTestForms(t)
	_, err = f.GenerateBill(context.Background(), bill)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Fields, []string{"driver_phone", "rate"}) {
		t.Errorf("Fields = %v, want [driver_phone rate]", verr.Fields)
	}
	if backend.calls != 0 {
		t.Errorf("invalid bill made a call")
	}
}
