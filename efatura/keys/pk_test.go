package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youmark/pkcs8"
)

func TestLoadPrivateKey_EncryptedPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := pkcs8.MarshalPrivateKey(key, []byte("tajne"), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "client.key")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: der}), 0o600))

	signer, err := LoadPrivateKeyFromFile(path, []byte("tajne"))
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(signer.Public()))

	_, err = LoadPrivateKeyFromFile(path, nil)
	assert.Error(t, err, "password is required")

	_, err = LoadPrivateKeyFromFile(path, []byte("zle"))
	assert.Error(t, err)
}

func TestLoadPrivateKey_PlainForms(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	p8, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	require.NoError(t, err)
	ecDer, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)

	cases := map[string]*pem.Block{
		"pkcs8": {Type: "PRIVATE KEY", Bytes: p8},
		"pkcs1": {Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)},
		"ec":    {Type: "EC PRIVATE KEY", Bytes: ecDer},
	}
	for name, block := range cases {
		t.Run(name, func(t *testing.T) {
			signer, err := LoadPrivateKeyFromPEM(pem.EncodeToMemory(block), nil)
			require.NoError(t, err)
			assert.NotNil(t, signer.Public())
		})
	}
}

func TestLoadPrivateKey_NoKey(t *testing.T) {
	_, err := LoadPrivateKeyFromPEM(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2}}), nil)
	assert.Error(t, err)

	_, err = LoadPrivateKeyFromPEM([]byte("garbage"), nil)
	assert.Error(t, err)
}
