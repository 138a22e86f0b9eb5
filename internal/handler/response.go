package handler

import (
	"net/http"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
)

const ErrInternalServer = "Internal server error"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	// wynik kierunku, który zawiódł po stronie AT
	Purchases *efatura.AggregatedResult `json:"compras,omitempty"`
	Sales     *efatura.AggregatedResult `json:"vendas,omitempty"`
}

func respondWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Success: false, Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, message)
}

// respondFailure dobiera status do rodzaju błędu. Szczegóły błędów wewnętrznych zostają w logach.
func respondFailure(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *efatura.ValidationError
	switch {
	case errors.As(err, &ve):
		respondBadRequest(c, ve.Error())
	case efatura.IsUpstream(err):
		respondWithError(c, http.StatusBadGateway, efatura.Message(err))
	default:
		respondWithError(c, http.StatusInternalServerError, ErrInternalServer)
	}
}

// respondDirectionFailure jak respondFailure, ale przy błędzie AT dołącza wynik kierunku d.
func respondDirectionFailure(c *gin.Context, d efatura.Direction, res *efatura.AggregatedResult, err error) {
	if !efatura.IsUpstream(err) {
		respondFailure(c, err)
		return
	}
	_ = c.Error(err)

	if res == nil || res.Success {
		res = efatura.Failed(err)
	}
	body := ErrorResponse{Success: false, Error: efatura.Message(err)}
	switch d {
	case efatura.Purchases:
		body.Purchases = res
	case efatura.Sales:
		body.Sales = res
	}
	c.AbortWithStatusJSON(http.StatusBadGateway, body)
}

// NotFound obsługuje niedopasowane trasy i metody.
func NotFound(c *gin.Context) {
	respondWithError(c, http.StatusNotFound, "Resource not found")
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
