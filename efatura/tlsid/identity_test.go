package tlsid

import (
	"crypto/tls"
	"testing"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/alapierre/go-efatura-connector/internal/testpki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"
)

func TestLoad_PEM(t *testing.T) {
	dir := t.TempDir()
	client := testpki.New(t, "software producer")
	at := testpki.New(t, "AT encryption")

	id, err := Load(Source{
		CertFile:             testpki.WriteFile(t, dir, "client.crt", client.CertPEM()),
		KeyFile:              testpki.WriteFile(t, dir, "client.key", client.KeyPEM()),
		CounterpartyCertFile: testpki.WriteFile(t, dir, "at.pem", at.CertPEM()),
		MinVersion:           "1.3",
		CipherSuites:         []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"},
	})
	require.NoError(t, err)

	cfg := id.TLSConfig()
	require.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	assert.Equal(t, []uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256}, cfg.CipherSuites)
	assert.Equal(t, at.Key.PublicKey.N, id.CounterpartyKey().N)
	assert.Equal(t, "software producer", id.Leaf().Subject.CommonName)
	assert.True(t, at.Cert.NotAfter.Equal(id.CounterpartyNotAfter()))

	// kopia, nie oryginał
	cfg.MinVersion = tls.VersionTLS10
	assert.Equal(t, uint16(tls.VersionTLS13), id.TLSConfig().MinVersion)
}

func TestLoad_PKCS12(t *testing.T) {
	dir := t.TempDir()
	client := testpki.New(t, "pfx client")
	at := testpki.New(t, "AT encryption")

	pfx, err := pkcs12.Modern.Encode(client.Key, client.Cert, nil, "segredo")
	require.NoError(t, err)

	id, err := Load(Source{
		PFXFile:              testpki.WriteFile(t, dir, "client.pfx", pfx),
		PFXPassword:          "segredo",
		CounterpartyCertFile: testpki.WriteFile(t, dir, "at.pem", at.CertPEM()),
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), id.TLSConfig().MinVersion)
	assert.Equal(t, "pfx client", id.Leaf().Subject.CommonName)

	_, err = Load(Source{
		PFXFile:              testpki.WriteFile(t, dir, "client2.pfx", pfx),
		PFXPassword:          "wrong",
		CounterpartyCertFile: testpki.WriteFile(t, dir, "at2.pem", at.CertPEM()),
	})
	var ce *efatura.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestLoad_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	client := testpki.New(t, "client")
	other := testpki.New(t, "other")
	certPath := testpki.WriteFile(t, dir, "client.crt", client.CertPEM())
	keyPath := testpki.WriteFile(t, dir, "client.key", client.KeyPEM())
	otherKey := testpki.WriteFile(t, dir, "other.key", other.KeyPEM())
	atPath := testpki.WriteFile(t, dir, "at.pem", other.CertPEM())

	tests := []struct {
		name  string
		src   Source
		field string
	}{
		{"missing counterparty", Source{CertFile: certPath, KeyFile: keyPath}, "EFATURA_AT_PUBLIC_CERT"},
		{"no identity", Source{CounterpartyCertFile: atPath}, "EFATURA_TLS_CERT"},
		{"cert without key", Source{CertFile: certPath, CounterpartyCertFile: atPath}, "EFATURA_TLS_CERT"},
		{"pfx without passphrase", Source{PFXFile: certPath, CounterpartyCertFile: atPath}, "EFATURA_TLS_CERT"},
		{"key mismatch", Source{CertFile: certPath, KeyFile: otherKey, CounterpartyCertFile: atPath}, "EFATURA_TLS_KEY"},
		{"bad min version", Source{CertFile: certPath, KeyFile: keyPath, CounterpartyCertFile: atPath, MinVersion: "1.0"}, "EFATURA_TLS_MIN_VERSION"},
		{"bad cipher", Source{CertFile: certPath, KeyFile: keyPath, CounterpartyCertFile: atPath, CipherSuites: []string{"NOPE"}}, "EFATURA_TLS_CIPHERS"},
		{"unreadable counterparty", Source{CertFile: certPath, KeyFile: keyPath, CounterpartyCertFile: keyPath}, "EFATURA_AT_PUBLIC_CERT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			var ce *efatura.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}
