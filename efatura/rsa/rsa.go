package rsa

import (
	rsa2 "crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// LoadCertificateFromFile czyta certyfikat X.509 w PEM albo DER.
func LoadCertificateFromFile(path string) (*x509.Certificate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read cert file")
	}
	return LoadCertificate(b)
}

func LoadCertificate(certBytes []byte) (*x509.Certificate, error) {
	// PEM?
	if block, _ := pem.Decode(certBytes); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, errors.Errorf("unexpected PEM block: %s", block.Type)
		}
		certBytes = block.Bytes
	} else if der, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(certBytes))); err == nil {
		// AT publikuje też sam base64 bez nagłówków PEM
		certBytes = der
	}

	cert, err := x509.ParseCertificate(certBytes)
	if err != nil {
		return nil, errors.Wrap(err, "parse x509")
	}
	return cert, nil
}

func ParseRSAPubFromCert(xc *x509.Certificate) (*rsa2.PublicKey, error) {
	if xc == nil {
		return nil, errors.New("cert is nil")
	}
	rsaPub, ok := xc.PublicKey.(*rsa2.PublicKey)
	if !ok {
		return nil, errors.Errorf("cert nie zawiera klucza RSA (typ: %T)", xc.PublicKey)
	}
	return rsaPub, nil
}

// LoadRSAPubFromCertFile zwraca klucz publiczny AT i datę ważności certyfikatu.
func LoadRSAPubFromCertFile(path string) (*rsa2.PublicKey, time.Time, error) {
	xc, err := LoadCertificateFromFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	pub, err := ParseRSAPubFromCert(xc)
	if err != nil {
		return nil, time.Time{}, err
	}
	return pub, xc.NotAfter, nil
}
