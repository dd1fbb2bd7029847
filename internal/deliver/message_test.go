package deliver

import (
	"net/mail"
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	raw := buildMessage("Ada Lovelace", "ada@example.com", "grace@example.com", "Quick question", "Hi Grace,\n\nShort note.\n")

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("message does not parse: %v", err)
	}

	from, err := mail.ParseAddress(msg.Header.Get("From"))
	if err != nil {
		t.Fatalf("bad From header: %v", err)
	}
	if from.Name != "Ada Lovelace" || from.Address != "ada@example.com" {
		t.Errorf("From = %+v", from)
	}

	to, err := mail.ParseAddress(msg.Header.Get("To"))
	if err != nil {
		t.Fatalf("bad To header: %v", err)
	}
	if to.Address != "grace@example.com" {
		t.Errorf("To = %s", to.Address)
	}

	if got := msg.Header.Get("Subject"); got != "Quick question" {
		t.Errorf("Subject = %q", got)
	}
	if msg.Header.Get("Date") == "" {
		t.Error("missing Date header")
	}

	mid := msg.Header.Get("Message-Id")
	if mid == "" {
		mid = msg.Header.Get("Message-ID")
	}
	if !strings.HasSuffix(strings.TrimSuffix(mid, ">"), "@example.com") {
		t.Errorf("Message-ID domain should come from the sender address, got %q", mid)
	}

	if ct := msg.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestBuildMessageCRLFBody(t *testing.T) {
	raw := string(buildMessage("A", "a@example.com", "b@example.com", "s", "line one\nline two"))

	body := raw[strings.Index(raw, "\r\n\r\n")+4:]
	if strings.Contains(strings.ReplaceAll(body, "\r\n", ""), "\n") {
		t.Errorf("body contains bare LF: %q", body)
	}
	if !strings.Contains(body, "line one\r\nline two") {
		t.Errorf("body lines not CRLF-joined: %q", body)
	}
	if !strings.HasSuffix(body, "\r\n") {
		t.Errorf("body should end with CRLF: %q", body)
	}
}

func TestBuildMessageEncodesUnicodeSubject(t *testing.T) {
	raw := string(buildMessage("A", "a@example.com", "b@example.com", "Grüße aus Köln", "body"))

	headers := raw[:strings.Index(raw, "\r\n\r\n")]
	for _, r := range headers {
		if r > 127 {
			t.Fatalf("raw non-ASCII byte in headers: %q", headers)
		}
	}
	if !strings.Contains(headers, "=?utf-8?") {
		t.Errorf("subject not Q-encoded: %q", headers)
	}
}

func TestBuildMessageDistinctMessageIDs(t *testing.T) {
	a := string(buildMessage("A", "a@example.com", "b@example.com", "s", "b"))
	b := string(buildMessage("A", "a@example.com", "b@example.com", "s", "b"))

	idOf := func(raw string) string {
		for _, line := range strings.Split(raw, "\r\n") {
			if strings.HasPrefix(line, "Message-ID:") {
				return line
			}
		}
		return ""
	}
	if idOf(a) == "" || idOf(a) == idOf(b) {
		t.Errorf("Message-IDs must be unique per message")
	}
}
