package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is where the Captain backend listens by default
	DefaultBaseURL = "http://localhost:5000"

	chatPath     = "/api/chat"
	historyPath  = "/api/history"
	ragPath      = "/api/rag"
	uploadPath   = "/api/compliance/upload"
	billPath     = "/api/generate_laidbill"
	uploadField  = "file"
	jsonMimeType = "application/json"
)

// Config holds client configuration
type Config struct {
	BaseURL    string
	Timeout    time.Duration // zero means no client-side timeout
	HTTPClient *http.Client
}

// Validate fills defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return nil
}

// Message is one history entry as the backend returns it
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// RAGRequest is the compliance question payload
type RAGRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	User     string `json:"user"`
}

type ragResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// KeyFields are the fields the backend pulls out of a compliance PDF
type KeyFields struct {
	ProductName string `json:"product_name" yaml:"product_name"`
	HSNCode     string `json:"hsn_code" yaml:"hsn_code"`
	Weight      string `json:"weight" yaml:"weight"`
}

// Verification is the backend's verdict on the key fields
type Verification struct {
	Status        string   `json:"status" yaml:"status"`
	Remarks       string   `json:"remarks" yaml:"remarks"`
	MissingFields []string `json:"missing_fields,omitempty" yaml:"missing_fields,omitempty"`
}

// ComplianceReport is the response of a compliance PDF upload
type ComplianceReport struct {
	FileName     string       `json:"file_name" yaml:"file_name"`
	KeyFields    KeyFields    `json:"key_fields" yaml:"key_fields"`
	Summary      string       `json:"summary" yaml:"summary"`
	Verification Verification `json:"verification" yaml:"verification"`
	Error        string       `json:"error,omitempty" yaml:"-"`
}

// BillRequest is the flat bill-of-lading payload. Every field is required.
type BillRequest struct {
	BillNumber      string `json:"bill_number" validate:"required"`
	BillDate        string `json:"bill_date" validate:"required"`
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerAddress string `json:"customer_address" validate:"required"`
	DriverName      string `json:"driver_name" validate:"required"`
	DriverPhone     string `json:"driver_phone" validate:"required"`
	VehicleNumber   string `json:"vehicle_number" validate:"required"`
	Origin          string `json:"origin" validate:"required"`
	Destination     string `json:"destination" validate:"required"`
	Material        string `json:"material" validate:"required"`
	GrossWeight     string `json:"gross_weight" validate:"required"`
	TareWeight      string `json:"tare_weight" validate:"required"`
	Rate            string `json:"rate" validate:"required"`
}

// BillResult is the response of bill generation
type BillResult struct {
	Customer string `json:"customer" yaml:"customer"`
	Driver   string `json:"driver" yaml:"driver"`
	Gross    Amount `json:"gross" yaml:"gross"`
	Net      Amount `json:"net" yaml:"net"`
	FileURL  string `json:"file_url" yaml:"file_url"`
	Error    string `json:"error,omitempty" yaml:"-"`
}

// Amount is a figure the backend sends either as a JSON string or a number
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// StatusError is returned for a response that arrived with a failure status
// or an error body. Message carries the server text when there was any.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("captain api: %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("captain api: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// TransportError is returned when a request never produced a usable response
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("captain api: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
