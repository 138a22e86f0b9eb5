package soap

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "efatura.soap")

// SuccessCode ReturnCode oznaczający poprawne wykonanie operacji
const SuccessCode = "0"

// entities AT bywa, że escapuje treść podwójnie; dekodujemy jeszcze raz, jednym przebiegiem.
// Koszt: tekst, który naprawdę zawierał encję (na drucie "&amp;lt;"), wychodzi jako "<".
// Po parsowaniu etree obu przypadków nie da się odróżnić.
var entities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
)

// ParseQueryResponse interpretuje odpowiedź: SOAP Fault i status różny od sukcesu
// zwracane są jako *efatura.ProtocolFault.
func ParseQueryResponse(body []byte) (*efatura.PageResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, &efatura.ProtocolFault{Message: "malformed response envelope: " + err.Error()}
	}
	root := doc.Root()
	if root == nil {
		return nil, &efatura.ProtocolFault{Message: "empty response envelope"}
	}

	if fault := first(root, "Fault"); fault != nil {
		msg, ok := optText(fault, "faultstring")
		if !ok {
			msg, ok = optText(fault, "Text") // SOAP 1.2 Reason/Text
		}
		if !ok || msg == "" {
			msg = "SOAP Fault"
		}
		code, _ := optText(fault, "faultcode")
		return nil, &efatura.ProtocolFault{Code: code, Message: msg}
	}

	if code, ok := optText(root, "ReturnCode"); ok && code != SuccessCode {
		msg, _ := optText(root, "ReturnMessage")
		if msg == "" {
			msg = "operation failed with code " + code
		}
		return nil, &efatura.ProtocolFault{Code: code, Message: msg}
	}

	res := &efatura.PageResult{
		TotalRecords: intOf(root, "TotalRecords"),
		TotalPages:   intOf(root, "TotalPages"),
		PageNumber:   intOf(root, "CurrentPage"),
		Invoices:     []efatura.InvoiceRecord{},
	}

	for _, inv := range all(root, "Invoice") {
		res.Invoices = append(res.Invoices, decodeInvoice(inv))
	}
	return res, nil
}

func decodeInvoice(el *etree.Element) efatura.InvoiceRecord {
	// pola faktury nie mogą pochodzić z wnętrza linii
	text := func(name string) string { s, _ := optTextSkip(el, name, "Line"); return s }
	optional := func(name string) *string {
		if s, ok := optTextSkip(el, name, "Line"); ok && s != "" {
			return &s
		}
		return nil
	}
	dec := func(name string) decimal.Decimal {
		s, ok := optTextSkip(el, name, "Line")
		return decimalOf(name, s, ok)
	}

	inv := efatura.InvoiceRecord{
		SupplierTaxID:      text("SupplierTaxID"),
		SupplierName:       text("SupplierName"),
		CustomerTaxID:      text("CustomerTaxID"),
		CustomerName:       optional("CustomerName"),
		DocumentNumber:     text("InvoiceNo"),
		DocumentDate:       text("InvoiceDate"),
		DocumentType:       text("InvoiceType"),
		UniqueDocumentCode: optional("ATCUD"),
		GrossTotal:         dec("GrossTotal"),
		NetTotal:           dec("NetTotal"),
		TaxPayable:         dec("TaxPayable"),
		Lines:              []efatura.LineSummary{},
	}

	for _, line := range all(el, "Line") {
		ld := func(name string) decimal.Decimal {
			s, ok := optText(line, name)
			return decimalOf(name, s, ok)
		}
		ls := func(name string) string { s, _ := optText(line, name); return s }

		inv.Lines = append(inv.Lines, efatura.LineSummary{
			TaxCode:          ls("TaxCode"),
			TaxPercentage:    ld("TaxPercentage"),
			TaxCountryRegion: ls("TaxCountryRegion"),
			Amount:           ld("Amount"),
			TaxAmount:        ld("TaxAmount"),
		})
	}
	return inv
}

// first szuka w głąb pierwszego elementu o danej nazwie lokalnej, niezależnie od prefiksu.
func first(el *etree.Element, local string, skip ...string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			return c
		}
		if contains(skip, c.Tag) {
			continue
		}
		if f := first(c, local, skip...); f != nil {
			return f
		}
	}
	return nil
}

// all zbiera elementy o danej nazwie lokalnej, nie schodząc do wnętrza znalezionych.
func all(el *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
			continue
		}
		out = append(out, all(c, local)...)
	}
	return out
}

func optText(el *etree.Element, local string) (string, bool) {
	return optTextSkip(el, local)
}

func optTextSkip(el *etree.Element, local string, skip ...string) (string, bool) {
	f := first(el, local, skip...)
	if f == nil {
		return "", false
	}
	return Unescape(strings.TrimSpace(f.Text())), true
}

func intOf(el *etree.Element, local string) int {
	s, ok := optText(el, local)
	if !ok || s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		logger.Warnf("non-numeric %s %q treated as 0", local, s)
		return 0
	}
	return n
}

func decimalOf(name, s string, present bool) decimal.Decimal {
	if !present || s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// zdarza się przecinek dziesiętny i separator tysięcy
		if d2, err2 := decimal.NewFromString(normalizeDecimal(s)); err2 == nil {
			return d2
		}
		logger.Warnf("non-numeric %s %q treated as 0", name, s)
		return decimal.Zero
	}
	return d
}

// normalizeDecimal: separatorem dziesiętnym jest ostatni z "," i ".", drugi to separator tysięcy.
// "1.234,56" i "1,234.56" dają "1234.56", "12,50" daje "12.50".
func normalizeDecimal(s string) string {
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma < 0:
		return s
	case dot < 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case comma > dot:
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Unescape decodes the five markup entities once more.
func Unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entities.Replace(s)
}

// Preview skraca body odpowiedzi do n bajtów na potrzeby diagnostyki.
func Preview(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "...(truncated)"
}
