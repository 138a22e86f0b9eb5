package efatura

import (
	"fmt"
	"strings"
)

type Environment int

const (
	Test Environment = iota
	Prod
)

// BaseURL zwraca domyślny endpoint usługi consultarFaturas dla środowiska.
func (e Environment) BaseURL() string {
	switch e {
	case Prod:
		return "https://servicos.portaldasfinancas.gov.pt:425/fatcorews/ws/consultarFaturas"
	case Test:
		return "https://servicos.portaldasfinancas.gov.pt:725/fatcorews/ws/consultarFaturas"
	}
	panic("Invalid environment")
}

func (e Environment) Name() string {
	switch e {
	case Prod:
		return "production"
	case Test:
		return "test"
	}
	panic("Invalid environment")
}

func (e Environment) String() string {
	if e != Test && e != Prod {
		return fmt.Sprintf("Environment(%d)", int(e))
	}
	return e.Name()
}

func (e Environment) MarshalText() ([]byte, error) {
	if e != Test && e != Prod {
		return nil, fmt.Errorf("invalid environment: %d", int(e))
	}
	return []byte(e.Name()), nil
}

func (e *Environment) UnmarshalText(text []byte) error {
	val := strings.ToLower(strings.TrimSpace(string(text)))

	switch val {
	case "production", "prod":
		*e = Prod
	case "test":
		*e = Test
	default:
		return &ValidationError{Field: "environment", Msg: fmt.Sprintf("invalid environment %q (allowed: test, production)", val)}
	}
	return nil
}

// Direction określa, czy pytamy o faktury otrzymane (compras) czy wystawione (vendas).
type Direction int

const (
	Purchases Direction = iota + 1
	Sales
)

func (d Direction) String() string {
	switch d {
	case Purchases:
		return "purchases"
	case Sales:
		return "sales"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Key is the wire name used by the HTTP facade.
func (d Direction) Key() string {
	switch d {
	case Purchases:
		return "compras"
	case Sales:
		return "vendas"
	}
	return ""
}

func (d Direction) Valid() bool {
	return d == Purchases || d == Sales
}

// RequestType is the facade's "type" field: compras, vendas or ambos.
type RequestType string

const (
	RequestPurchases RequestType = "compras"
	RequestSales     RequestType = "vendas"
	RequestBoth      RequestType = "ambos"
)

// Directions expands the request type, purchases first.
func (t RequestType) Directions() ([]Direction, error) {
	switch RequestType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case RequestPurchases, "purchases":
		return []Direction{Purchases}, nil
	case RequestSales, "sales":
		return []Direction{Sales}, nil
	case RequestBoth, "both":
		return []Direction{Purchases, Sales}, nil
	}
	return nil, &ValidationError{Field: "type", Msg: fmt.Sprintf("invalid type %q (allowed: compras, vendas, ambos)", string(t))}
}
