// Package invoices pobiera faktury strona po stronie dla kolejnych miesięcy i scala wyniki.
package invoices

import (
	"context"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/period"
	"github.com/alapierre/go-efatura-connector/efatura/soap"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "efatura.invoices")

// PreviewSize ile bajtów odpowiedzi zachowujemy w TransportError.
const PreviewSize = 512

type Client struct {
	transport Transport
	headers   HeaderBuilder
	pageSize  int
}

type Option func(*Client)

// WithPageSize ustawia rozmiar strony, przycięty do zakresu akceptowanego przez AT.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = soap.ClampPageSize(n) }
}

func NewClient(t Transport, h HeaderBuilder, opts ...Option) *Client {
	c := &Client{transport: t, headers: h, pageSize: soap.DefaultPageSize}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) PageSize() int {
	return c.pageSize
}

// Query pobiera wszystkie faktury z okresu. Zakresy miesięczne i strony są przetwarzane
// po kolei; pierwszy błąd przerywa całe zapytanie i zwracany jest wynik bez faktur
// razem z błędem typowanym.
func (c *Client) Query(ctx context.Context, q efatura.QueryParameters, creds efatura.Credentials) (*efatura.AggregatedResult, error) {
	if err := q.Validate(); err != nil {
		return efatura.Failed(err), err
	}

	ranges, err := period.Split(q.StartDate, q.EndDate)
	if err != nil {
		return efatura.Failed(err), err
	}

	log := logger.WithFields(logrus.Fields{
		"taxpayer":    q.TaxpayerID,
		"direction":   q.Direction.String(),
		"environment": q.Environment.Name(),
	})
	started := time.Now()

	result := &efatura.AggregatedResult{Success: true, Invoices: []efatura.InvoiceRecord{}}
	for _, r := range ranges {
		total, records, err := c.queryRange(ctx, q, r, creds, log)
		if err != nil {
			log.WithField("range", r.String()).Errorf("query aborted: %v", err)
			return efatura.Failed(err), err
		}
		result.TotalRecords += total
		result.Invoices = append(result.Invoices, records...)
	}

	log.WithFields(logrus.Fields{
		"ranges":   len(ranges),
		"invoices": len(result.Invoices),
		"elapsed":  time.Since(started).String(),
	}).Info("query finished")
	return result, nil
}

func (c *Client) queryRange(ctx context.Context, q efatura.QueryParameters, r efatura.SubRange, creds efatura.Credentials, log *logrus.Entry) (int, []efatura.InvoiceRecord, error) {
	var (
		records      []efatura.InvoiceRecord
		totalRecords int
	)

	for page, totalPages := 1, 1; page <= totalPages; page++ {
		res, err := c.fetchPage(ctx, q, r, creds, page)
		if err != nil {
			return 0, nil, err
		}

		// liczba stron bywa znana dopiero po pierwszej odpowiedzi
		totalPages = res.TotalPages
		if res.TotalRecords > totalRecords {
			totalRecords = res.TotalRecords
		}
		records = append(records, res.Invoices...)

		log.WithFields(logrus.Fields{
			"range":       r.String(),
			"page":        page,
			"total_pages": totalPages,
			"records":     len(res.Invoices),
		}).Debug("page fetched")
	}

	if totalRecords < len(records) {
		totalRecords = len(records)
	}
	return totalRecords, records, nil
}

func (c *Client) fetchPage(ctx context.Context, q efatura.QueryParameters, r efatura.SubRange, creds efatura.Credentials, page int) (*efatura.PageResult, error) {
	header, err := c.headers.BuildHeader(creds)
	if err != nil {
		return nil, err
	}

	envelope, err := soap.BuildQueryRequest(q, r, header, page, c.pageSize)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, q.Environment, envelope)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &efatura.TransportError{Status: resp.StatusCode, Body: soap.Preview(resp.Body, PreviewSize)}
	}

	return soap.ParseQueryResponse(resp.Body)
}
