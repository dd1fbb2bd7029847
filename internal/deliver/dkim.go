package deliver

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/emersion/go-msgauth/dkim"
)

// Signer signs outgoing messages with DKIM.
type Signer struct {
	key      *rsa.PrivateKey
	domain   string
	selector string
}

// NewSignerFromFile loads an RSA private key (PKCS#1 or PKCS#8 PEM) and
// returns a signer for the given domain and selector.
func NewSignerFromFile(keyFile, domain, selector string) (*Signer, error) {
	key, err := readRSAKey(keyFile)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key, domain: domain, selector: selector}, nil
}

func readRSAKey(keyFile string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read DKIM key: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to parse DKIM key: no PEM block in %s", keyFile)
	}

	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DKIM key: %w", err)
	}
	rsaKey, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("DKIM key in %s is not RSA", keyFile)
	}
	return rsaKey, nil
}

// Sign returns the message with a DKIM-Signature header prepended.
func (s *Signer) Sign(message []byte) ([]byte, error) {
	options := &dkim.SignOptions{
		Domain:                 s.domain,
		Selector:               s.selector,
		Signer:                 s.key,
		Hash:                   crypto.SHA256,
		HeaderCanonicalization: dkim.CanonicalizationRelaxed,
		BodyCanonicalization:   dkim.CanonicalizationRelaxed,
	}

	var signed bytes.Buffer
	if err := dkim.Sign(&signed, bytes.NewReader(message), options); err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return signed.Bytes(), nil
}
