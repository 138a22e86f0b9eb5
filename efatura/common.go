package efatura

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrUnauthorized ogólny marker dla 401
	ErrUnauthorized = errors.New("efatura unauthorized")
	ErrNoPublicKey  = errors.New("counterparty public key not loaded")
)

// ConfigError is fatal at startup.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Msg
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

// ValidationError niepoprawne dane wejściowe wywołującego
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// TransportError błąd komunikacji z usługą AT (TLS, socket, timeout, status spoza 2xx)
type TransportError struct {
	Status int    // HTTP status, 0 gdy nie dostaliśmy odpowiedzi
	Body   string // fragment body, do diagnostyki
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("AT returns http status %d: %s", e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("AT returns http status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("AT transport failure: %v", e.Err)
	}
	return "AT transport failure"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolFault SOAP Fault albo status operacji różny od sukcesu
type ProtocolFault struct {
	Code    string
	Message string
}

func (e *ProtocolFault) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

// CryptoError never carries key material, only the failing operation.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto failure during %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err came from the tax authority or the way to it.
func IsUpstream(err error) bool {
	var te *TransportError
	var pf *ProtocolFault
	return errors.As(err, &te) || errors.As(err, &pf)
}

// Message gives the caller-facing text of a failure.
func Message(err error) string {
	var pf *ProtocolFault
	if errors.As(err, &pf) {
		return pf.Message
	}
	return err.Error()
}
