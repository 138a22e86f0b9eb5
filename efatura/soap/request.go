// Package soap zamienia zapytanie na kopertę SOAP 1.1 usługi consultarFaturas i interpretuje odpowiedź.
package soap

import (
	"strconv"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/beevik/etree"
	"github.com/go-faster/errors"
)

const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	SecextNamespace   = "http://schemas.xmlsoap.org/ws/2002/12/secext"
	ServiceNamespace  = "http://factemi.at.min_financas.pt/documents"

	// MaxPageSize limit wielkości strony narzucony przez AT
	MaxPageSize = 5000
	// DefaultPageSize used when the caller does not configure one.
	DefaultPageSize = 1000

	SOAPAction = "consultarFaturas"
)

// BuildQueryRequest składa kopertę dla jednej strony jednego podzakresu.
// Dla sprzedaży podatnik jest dostawcą (SupplierTaxID), dla zakupów nabywcą (CustomerTaxID);
// kontrahent, jeśli podany, trafia w drugą rolę.
func BuildQueryRequest(q efatura.QueryParameters, r efatura.SubRange, h *efatura.SecurityHeader, page, pageSize int) ([]byte, error) {
	if h == nil {
		return nil, errors.New("security header is required")
	}
	if page < 1 {
		return nil, errors.Errorf("invalid page number %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, errors.Errorf("page size %d out of range 1..%d", pageSize, MaxPageSize)
	}

	var supplier, customer string
	switch q.Direction {
	case efatura.Sales:
		supplier, customer = q.TaxpayerID, q.CounterpartyTaxID
	case efatura.Purchases:
		supplier, customer = q.CounterpartyTaxID, q.TaxpayerID
	default:
		return nil, errors.Errorf("unknown direction %v", q.Direction)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("S:Envelope")
	env.CreateAttr("xmlns:S", EnvelopeNamespace)

	sec := env.CreateElement("S:Header").CreateElement("wss:Security")
	sec.CreateAttr("xmlns:wss", SecextNamespace)
	token := sec.CreateElement("wss:UsernameToken")
	token.CreateElement("wss:Username").SetText(h.Username)
	token.CreateElement("wss:Password").SetText(h.Password)
	token.CreateElement("wss:Nonce").SetText(h.Nonce)
	token.CreateElement("wss:Created").SetText(h.Created)

	req := env.CreateElement("S:Body").CreateElement("ns:ConsultarFaturasRequest")
	req.CreateAttr("xmlns:ns", ServiceNamespace)
	if supplier != "" {
		req.CreateElement("ns:SupplierTaxID").SetText(supplier)
	}
	if customer != "" {
		req.CreateElement("ns:CustomerTaxID").SetText(customer)
	}
	req.CreateElement("ns:StartDate").SetText(r.Start.Format(efatura.DateLayout))
	req.CreateElement("ns:EndDate").SetText(r.End.Format(efatura.DateLayout))
	req.CreateElement("ns:PageNumber").SetText(strconv.Itoa(page))
	req.CreateElement("ns:PageSize").SetText(strconv.Itoa(pageSize))

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "serialize envelope")
	}
	return out, nil
}

// ClampPageSize sprowadza rozmiar strony do zakresu akceptowanego przez AT.
func ClampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}
