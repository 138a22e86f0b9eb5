package efatura

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout format dat kalendarzowych w API i w zapytaniach do AT
const DateLayout = "2006-01-02"

type Credentials struct {
	Username string
	Password string
}

// QueryParameters zapytanie o faktury jednego podatnika w jednym kierunku.
type QueryParameters struct {
	Environment       Environment
	TaxpayerID        string
	CounterpartyTaxID string // opcjonalny
	Direction         Direction
	StartDate         time.Time
	EndDate           time.Time
}

// Day truncates t to a calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (q QueryParameters) Validate() error {
	if q.Environment != Test && q.Environment != Prod {
		return &ValidationError{Field: "environment", Msg: "unknown environment"}
	}
	if q.TaxpayerID == "" {
		return &ValidationError{Field: "clientNif", Msg: "must not be empty"}
	}
	if !q.Direction.Valid() {
		return &ValidationError{Field: "type", Msg: "unknown direction"}
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return &ValidationError{Field: "startDate", Msg: "start and end dates are required"}
	}
	if Day(q.StartDate).After(Day(q.EndDate)) {
		return &ValidationError{Field: "startDate", Msg: "must not be after endDate"}
	}
	return nil
}

// SecurityHeader jednorazowy UsernameToken; pola zaszyfrowane i zakodowane base64.
type SecurityHeader struct {
	Username string
	Password string
	Nonce    string
	Created  string
}

type SubRange struct {
	Start time.Time
	End   time.Time
}

func (r SubRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

type PageResult struct {
	PageNumber   int
	TotalPages   int
	TotalRecords int
	Invoices     []InvoiceRecord
}

type InvoiceRecord struct {
	SupplierTaxID      string          `json:"supplierTaxId"`
	SupplierName       string          `json:"supplierName"`
	CustomerTaxID      string          `json:"customerTaxId"`
	CustomerName       *string         `json:"customerName,omitempty"`
	DocumentNumber     string          `json:"documentNumber"`
	DocumentDate       string          `json:"documentDate"`
	DocumentType       string          `json:"documentType"`
	UniqueDocumentCode *string         `json:"uniqueDocumentCode,omitempty"`
	GrossTotal         decimal.Decimal `json:"grossTotal"`
	NetTotal           decimal.Decimal `json:"netTotal"`
	TaxPayable         decimal.Decimal `json:"taxPayable"`
	Lines              []LineSummary   `json:"lineSummaries"`
}

type LineSummary struct {
	TaxCode          string          `json:"taxCode"`
	TaxPercentage    decimal.Decimal `json:"taxPercentage"`
	TaxCountryRegion string          `json:"taxCountryRegion"`
	Amount           decimal.Decimal `json:"amount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
}

// AggregatedResult wynik całego zapytania, po zwróceniu należy do wywołującego.
type AggregatedResult struct {
	Success      bool            `json:"success"`
	TotalRecords int             `json:"totalRecords"`
	Invoices     []InvoiceRecord `json:"invoices"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
}

// Failed builds the all-or-nothing failure result.
func Failed(err error) *AggregatedResult {
	msg := Message(err)
	return &AggregatedResult{
		Success:      false,
		Invoices:     []InvoiceRecord{},
		ErrorMessage: &msg,
	}
}
