package tlsid

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
)

// nextCertificate zwraca kolejny certyfikat z łańcucha PEM, pomija inne bloki.
func nextCertificate(rest []byte) (*x509.Certificate, []byte, bool) {
	for len(rest) > 0 {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, nil, false
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		xc, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			logger.Warnf("skipping unparsable certificate in chain: %v", err)
			continue
		}
		return xc, rest, true
	}
	return nil, nil, false
}

func publicKeysMatch(leaf *x509.Certificate, pub crypto.PublicKey) bool {
	if leaf == nil {
		return false
	}
	k, ok := leaf.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	return ok && k.Equal(pub)
}
