package campaign

import (
	"errors"
	"testing"
)

func testViews() []ContactView {
	return []ContactView{
		{Contact: Contact{ID: "1", Email: "pending1@example.com"}, Status: StatusPending},
		{Contact: Contact{ID: "2", Email: "sent@example.com"}, Status: StatusSent},
		{Contact: Contact{ID: "3", Email: "drafted@example.com"}, Status: StatusDrafted},
		{Contact: Contact{ID: "4", Email: ""}, Status: StatusNoEmail},
		{Contact: Contact{ID: "5", Email: "errored@example.com"}, Status: StatusErrored},
		{Contact: Contact{ID: "6", Email: "pending2@example.com"}, Status: StatusPending},
	}
}

func TestEligibleContactsBulk(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		scope Scope
		want  []string
	}{
		{
			name: "dry run takes pending only",
			mode: ModeDryRun,
			want: []string{"pending1@example.com", "pending2@example.com"},
		},
		{
			name: "send takes pending and drafted",
			mode: ModeSend,
			want: []string{"pending1@example.com", "drafted@example.com", "pending2@example.com"},
		},
		{
			name:  "limit truncates in directory order",
			mode:  ModeSend,
			scope: Scope{Limit: 2},
			want:  []string{"pending1@example.com", "drafted@example.com"},
		},
		{
			name:  "limit larger than set is harmless",
			mode:  ModeDryRun,
			scope: Scope{Limit: 50},
			want:  []string{"pending1@example.com", "pending2@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EligibleContacts(testViews(), tt.mode, tt.scope)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d eligible, got %d", len(tt.want), len(got))
			}
			for i, v := range got {
				if v.Email != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], v.Email)
				}
			}
		})
	}
}

func TestEligibleContactsSingle(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		scope   Scope
		want    string
		wantErr error
	}{
		{
			name:  "pending contact",
			mode:  ModeSend,
			scope: Scope{Email: "pending1@example.com"},
			want:  "pending1@example.com",
		},
		{
			name:  "case insensitive lookup",
			mode:  ModeDryRun,
			scope: Scope{Email: "PENDING1@Example.COM"},
			want:  "pending1@example.com",
		},
		{
			name:  "errored contact is retryable",
			mode:  ModeSend,
			scope: Scope{Email: "errored@example.com"},
			want:  "errored@example.com",
		},
		{
			name:    "unknown contact",
			mode:    ModeSend,
			scope:   Scope{Email: "nobody@example.com"},
			wantErr: ErrUnknownContact,
		},
		{
			name:    "send to already sent without force",
			mode:    ModeSend,
			scope:   Scope{Email: "sent@example.com"},
			wantErr: ErrAlreadySent,
		},
		{
			name:  "send to already sent with force",
			mode:  ModeSend,
			scope: Scope{Email: "sent@example.com", Force: true},
			want:  "sent@example.com",
		},
		{
			name:  "dry run on sent contact regenerates",
			mode:  ModeDryRun,
			scope: Scope{Email: "sent@example.com"},
			want:  "sent@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EligibleContacts(testViews(), tt.mode, tt.scope)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].Email != tt.want {
				t.Fatalf("expected exactly [%s], got %v", tt.want, got)
			}
		})
	}
}

func TestEligibleSingleNoUsableEmail(t *testing.T) {
	views := []ContactView{
		{Contact: Contact{ID: "1", Email: "not-an-address"}, Status: StatusNoEmail},
	}
	_, err := EligibleContacts(views, ModeSend, Scope{Email: "not-an-address"})
	if !errors.Is(err, ErrNoUsableEmail) {
		t.Fatalf("expected ErrNoUsableEmail, got %v", err)
	}
}
