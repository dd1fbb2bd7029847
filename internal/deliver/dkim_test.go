package deliver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestKey(t *testing.T, pkcs8 bool) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var block *pem.Block
	if pkcs8 {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			t.Fatalf("marshal key: %v", err)
		}
		block = &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	} else {
		block = &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	}

	path := filepath.Join(t.TempDir(), "dkim.key")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return path
}

func TestSignerSignsMessage(t *testing.T) {
	for _, format := range []struct {
		name  string
		pkcs8 bool
	}{
		{"pkcs1", false},
		{"pkcs8", true},
	} {
		t.Run(format.name, func(t *testing.T) {
			s, err := NewSignerFromFile(writeTestKey(t, format.pkcs8), "example.com", "mail")
			if err != nil {
				t.Fatalf("load signer: %v", err)
			}

			msg := buildMessage("Ada", "ada@example.com", "grace@example.com", "Hello", "Body text\n")
			signed, err := s.Sign(msg)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}

			header := string(signed)
			if !strings.HasPrefix(header, "DKIM-Signature:") {
				t.Fatalf("signed message does not start with a DKIM-Signature header")
			}
			if !strings.Contains(header, "d=example.com") || !strings.Contains(header, "s=mail") {
				t.Errorf("signature missing domain or selector tags")
			}
			if !strings.Contains(header, string(msg)) {
				t.Errorf("signing must not alter the original message")
			}
		})
	}
}

func TestNewSignerFromFileErrors(t *testing.T) {
	if _, err := NewSignerFromFile(filepath.Join(t.TempDir(), "missing.key"), "example.com", "mail"); err == nil {
		t.Error("missing key file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.key")
	if err := os.WriteFile(bad, []byte("not a pem"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSignerFromFile(bad, "example.com", "mail"); err == nil {
		t.Error("non-PEM key should fail")
	}
}
