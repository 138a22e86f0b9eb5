package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/period"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "handler")

// Querier wykonuje jedno zapytanie dla jednego kierunku; implementuje go invoices.Client.
type Querier interface {
	Query(ctx context.Context, q efatura.QueryParameters, creds efatura.Credentials) (*efatura.AggregatedResult, error)
}

type InvoiceRequest struct {
	Environment     string `json:"environment"`
	ClientNif       string `json:"clientNif"`
	CounterpartyNif string `json:"counterpartyNif"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Type            string `json:"type"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
}

type InvoicesResponse struct {
	Success   bool                      `json:"success"`
	Purchases *efatura.AggregatedResult `json:"compras,omitempty"`
	Sales     *efatura.AggregatedResult `json:"vendas,omitempty"`
	TimingMs  int64                     `json:"timingMs"`
}

type InvoiceHandler struct {
	querier Querier
}

func NewInvoiceHandler(q Querier) *InvoiceHandler {
	return &InvoiceHandler{querier: q}
}

// QueryInvoices obsługuje POST /v1/invoices. Kierunki są odpytywane po kolei;
// błąd któregokolwiek kończy całe żądanie, wyniki kierunków zakończonych wcześniej są odrzucane.
// Przy błędzie AT (502) body niesie nieudany wynik tego kierunku (success=false, errorMessage).
func (h *InvoiceHandler) QueryInvoices(c *gin.Context) {
	started := time.Now()

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON body")
		return
	}

	params, directions, creds, err := req.parse()
	if err != nil {
		respondFailure(c, err)
		return
	}

	resp := InvoicesResponse{Success: true}
	for _, d := range directions {
		q := params
		q.Direction = d

		res, err := h.querier.Query(c.Request.Context(), q, creds)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"direction":  d.String(),
				"request_id": c.GetString("request_id"),
			}).Warnf("invoice query failed: %v", err)
			respondDirectionFailure(c, d, res, err)
			return
		}

		switch d {
		case efatura.Purchases:
			resp.Purchases = res
		case efatura.Sales:
			resp.Sales = res
		}
	}

	resp.TimingMs = time.Since(started).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

func (r InvoiceRequest) parse() (efatura.QueryParameters, []efatura.Direction, efatura.Credentials, error) {
	var (
		q     efatura.QueryParameters
		creds efatura.Credentials
	)

	if err := q.Environment.UnmarshalText([]byte(r.Environment)); err != nil {
		return q, nil, creds, err
	}

	q.TaxpayerID = strings.TrimSpace(r.ClientNif)
	q.CounterpartyTaxID = strings.TrimSpace(r.CounterpartyNif)
	if q.TaxpayerID == "" {
		return q, nil, creds, &efatura.ValidationError{Field: "clientNif", Msg: "must not be empty"}
	}
	if strings.TrimSpace(r.Username) == "" {
		return q, nil, creds, &efatura.ValidationError{Field: "username", Msg: "must not be empty"}
	}
	if r.Password == "" {
		return q, nil, creds, &efatura.ValidationError{Field: "password", Msg: "must not be empty"}
	}
	creds = efatura.Credentials{Username: strings.TrimSpace(r.Username), Password: r.Password}

	directions, err := efatura.RequestType(r.Type).Directions()
	if err != nil {
		return q, nil, creds, err
	}

	if q.StartDate, err = period.ParseDate("startDate", r.StartDate); err != nil {
		return q, nil, creds, err
	}
	if q.EndDate, err = period.ParseDate("endDate", r.EndDate); err != nil {
		return q, nil, creds, err
	}
	if q.StartDate.After(q.EndDate) {
		return q, nil, creds, &efatura.ValidationError{Field: "startDate", Msg: "must not be after endDate"}
	}
	return q, directions, creds, nil
}
