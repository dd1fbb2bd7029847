package deliver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// DKIMKey is a generated signing key together with the DNS publication data
// the domain owner needs.
type DKIMKey struct {
	PrivateKey *rsa.PrivateKey
	Domain     string
	Selector   string
}

// GenerateDKIMKey creates a new RSA 2048-bit DKIM signing key.
func GenerateDKIMKey(domain, selector string) (*DKIMKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return &DKIMKey{PrivateKey: key, Domain: domain, Selector: selector}, nil
}

// Save writes the private key as a PKCS#1 PEM file readable by
// NewSignerFromFile.
func (k *DKIMKey) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create key file: %w", err)
	}
	defer f.Close()

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(k.PrivateKey),
	}
	if err := pem.Encode(f, block); err != nil {
		return fmt.Errorf("failed to encode private key: %w", err)
	}
	return nil
}

// LoadDKIMKey reads an existing private key so its DNS record can be shown.
func LoadDKIMKey(path, domain, selector string) (*DKIMKey, error) {
	key, err := readRSAKey(path)
	if err != nil {
		return nil, err
	}
	return &DKIMKey{PrivateKey: key, Domain: domain, Selector: selector}, nil
}

// DNSName returns the name of the TXT record that publishes this key.
func (k *DKIMKey) DNSName() string {
	return fmt.Sprintf("%s._domainkey.%s", k.Selector, k.Domain)
}

// DNSRecord returns the TXT record content for this key.
func (k *DKIMKey) DNSRecord() string {
	pub, err := x509.MarshalPKIXPublicKey(&k.PrivateKey.PublicKey)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("v=DKIM1; k=rsa; p=%s", base64.StdEncoding.EncodeToString(pub))
}
