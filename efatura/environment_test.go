package efatura

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_UnmarshalText(t *testing.T) {
	var env Environment
	require.NoError(t, env.UnmarshalText([]byte("production")))
	assert.Equal(t, Prod, env)
	require.NoError(t, env.UnmarshalText([]byte(" Test ")))
	assert.Equal(t, Test, env)

	err := env.UnmarshalText([]byte("demo"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "environment", ve.Field)
}

func TestEnvironment_JSON(t *testing.T) {
	out, err := json.Marshal(struct{ Env Environment }{Prod})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Env":"production"}`, string(out))

	assert.Contains(t, Test.BaseURL(), ":725/")
	assert.Contains(t, Prod.BaseURL(), ":425/")
}

func TestRequestType_Directions(t *testing.T) {
	d, err := RequestType("ambos").Directions()
	require.NoError(t, err)
	assert.Equal(t, []Direction{Purchases, Sales}, d)

	d, err = RequestType("VENDAS").Directions()
	require.NoError(t, err)
	assert.Equal(t, []Direction{Sales}, d)

	d, err = RequestType("purchases").Directions()
	require.NoError(t, err)
	assert.Equal(t, []Direction{Purchases}, d)

	_, err = RequestType("").Directions()
	assert.Error(t, err)

	assert.Equal(t, "compras", Purchases.Key())
	assert.Equal(t, "vendas", Sales.Key())
	assert.False(t, Direction(0).Valid())
}

func TestQueryParameters_Validate(t *testing.T) {
	day := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	q := QueryParameters{Environment: Test, TaxpayerID: "123456789", Direction: Sales, StartDate: day, EndDate: day}
	assert.NoError(t, q.Validate(), "same calendar day with time parts is valid")

	bad := q
	bad.StartDate = day.AddDate(0, 0, 1)
	assert.Error(t, bad.Validate())

	bad = q
	bad.TaxpayerID = ""
	assert.Error(t, bad.Validate())

	bad = q
	bad.Direction = 0
	assert.Error(t, bad.Validate())
}

func TestErrors(t *testing.T) {
	te := &TransportError{Status: 502, Body: "Bad Gateway"}
	assert.True(t, IsUpstream(errors.Wrap(te, "page 2")))
	assert.Equal(t, "AT returns http status 502: Bad Gateway", Message(te))

	pf := &ProtocolFault{Code: "-1", Message: "Erro X"}
	assert.True(t, IsUpstream(pf))
	assert.Equal(t, "Erro X", Message(errors.Wrap(pf, "range 2024-01")))

	ce := &CryptoError{Op: "wrap session key", Err: ErrNoPublicKey}
	assert.False(t, IsUpstream(ce))
	assert.ErrorIs(t, ce, ErrNoPublicKey)

	res := Failed(pf)
	assert.False(t, res.Success)
	assert.Empty(t, res.Invoices)
	assert.Equal(t, "Erro X", *res.ErrorMessage)
}
