package campaign

import (
	"testing"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
)

func TestReconcile(t *testing.T) {
	contacts := []Contact{
		{ID: "1", FirstName: "Ada", Email: "ada@example.com", Company: "Analytical"},
		{ID: "2", FirstName: "Grace", Email: "GRACE@Example.com", Company: "Navy"},
		{ID: "3", FirstName: "Nobody", Email: "", Company: "Ghost"},
		{ID: "4", FirstName: "Linus", Email: "linus@example.com", Company: "Kernel"},
	}

	tests := []struct {
		name    string
		entries []activitylog.Entry
		want    []Status
	}{
		{
			name:    "empty log",
			entries: nil,
			want:    []Status{StatusPending, StatusPending, StatusNoEmail, StatusPending},
		},
		{
			name: "single sent",
			entries: []activitylog.Entry{
				{Email: "ada@example.com", Outcome: activitylog.OutcomeSent},
			},
			want: []Status{StatusSent, StatusPending, StatusNoEmail, StatusPending},
		},
		{
			name: "latest entry wins",
			entries: []activitylog.Entry{
				{Email: "ada@example.com", Outcome: activitylog.OutcomeErrored},
				{Email: "ada@example.com", Outcome: activitylog.OutcomeSent},
			},
			want: []Status{StatusSent, StatusPending, StatusNoEmail, StatusPending},
		},
		{
			name: "sent then errored downgrades",
			entries: []activitylog.Entry{
				{Email: "ada@example.com", Outcome: activitylog.OutcomeSent},
				{Email: "ada@example.com", Outcome: activitylog.OutcomeErrored},
			},
			want: []Status{StatusErrored, StatusPending, StatusNoEmail, StatusPending},
		},
		{
			name: "case insensitive match",
			entries: []activitylog.Entry{
				{Email: "grace@EXAMPLE.COM", Outcome: activitylog.OutcomeDrafted},
			},
			want: []Status{StatusPending, StatusDrafted, StatusNoEmail, StatusPending},
		},
		{
			name: "entry for unknown email is ignored",
			entries: []activitylog.Entry{
				{Email: "stranger@example.com", Outcome: activitylog.OutcomeSent},
			},
			want: []Status{StatusPending, StatusPending, StatusNoEmail, StatusPending},
		},
		{
			name: "no-email contact stays NO_EMAIL regardless of log",
			entries: []activitylog.Entry{
				{Email: "", Outcome: activitylog.OutcomeSent},
			},
			want: []Status{StatusPending, StatusPending, StatusNoEmail, StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := Reconcile(contacts, tt.entries)
			if len(views) != len(contacts) {
				t.Fatalf("expected %d views, got %d", len(contacts), len(views))
			}
			for i, v := range views {
				if v.Status != tt.want[i] {
					t.Errorf("contact %s: expected status %s, got %s", v.Email, tt.want[i], v.Status)
				}
				if v.ID != contacts[i].ID {
					t.Errorf("view %d: directory order not preserved", i)
				}
			}
		})
	}
}

func TestReconcileDeterministic(t *testing.T) {
	contacts := []Contact{
		{ID: "1", Email: "a@example.com"},
		{ID: "2", Email: "b@example.com"},
	}
	entries := []activitylog.Entry{
		{Timestamp: time.Now(), Email: "a@example.com", Outcome: activitylog.OutcomeDrafted},
		{Timestamp: time.Now(), Email: "b@example.com", Outcome: activitylog.OutcomeErrored},
		{Timestamp: time.Now(), Email: "a@example.com", Outcome: activitylog.OutcomeSent},
	}

	first := Reconcile(contacts, entries)
	for i := 0; i < 10; i++ {
		again := Reconcile(contacts, entries)
		for j := range first {
			if again[j].Status != first[j].Status {
				t.Fatalf("run %d: status for %s changed from %s to %s",
					i, first[j].Email, first[j].Status, again[j].Status)
			}
		}
	}
}

func TestHasUsableEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"  ada@example.com  ", true},
		{"", false},
		{"   ", false},
		{"not-an-address", false},
	}
	for _, tt := range tests {
		c := Contact{Email: tt.email}
		if got := c.HasUsableEmail(); got != tt.want {
			t.Errorf("HasUsableEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", "Unknown"},
	}
	for _, tt := range tests {
		c := Contact{FirstName: tt.first, LastName: tt.last}
		if got := c.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
