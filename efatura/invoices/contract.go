package invoices

import (
	"context"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/efatura/transport"
)

//go:generate mockgen -destination=mocks/mock_contract.go -package=mocks -source=contract.go

// Transport wysyła gotową kopertę; implementuje ją transport.HTTPTransport.
type Transport interface {
	Do(ctx context.Context, env efatura.Environment, envelope []byte) (*transport.Response, error)
}

// HeaderBuilder tworzy jednorazowy nagłówek bezpieczeństwa; implementuje go cipher.EncryptionService.
type HeaderBuilder interface {
	BuildHeader(creds efatura.Credentials) (*efatura.SecurityHeader, error)
}
