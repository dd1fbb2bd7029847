package deliver

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateDKIMKey(t *testing.T) {
	key, err := GenerateDKIMKey("example.com", "reachly")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got := key.DNSName(); got != "reachly._domainkey.example.com" {
		t.Errorf("DNSName = %q", got)
	}
	record := key.DNSRecord()
	if !strings.HasPrefix(record, "v=DKIM1; k=rsa; p=") {
		t.Errorf("DNSRecord = %q", record)
	}
	if len(record) < 100 {
		t.Errorf("DNS record suspiciously short: %d bytes", len(record))
	}
}

func TestDKIMKeySaveAndLoad(t *testing.T) {
	key, err := GenerateDKIMKey("example.com", "reachly")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "keys", "example.com.key")
	if err := key.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadDKIMKey(path, "example.com", "reachly")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DNSRecord() != key.DNSRecord() {
		t.Error("loaded key publishes a different DNS record")
	}

	// The saved key is usable by the signer.
	if _, err := NewSignerFromFile(path, "example.com", "reachly"); err != nil {
		t.Fatalf("signer rejects generated key: %v", err)
	}
}
