package domain

import "testing"

func TestAccount_CanManageComplaints(t *testing.T) {
	var nilAccount *Account
	cases := []struct {
		name    string
		account *Account
		want    bool
	}{
		{name: "nil", account: nilAccount, want: false},
		{name: "regular", account: &Account{ID: "a"}, want: false},
		{name: "admin", account: &Account{ID: "b", IsAdmin: true}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.account.CanManageComplaints(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAccount_Owns(t *testing.T) {
	alice := &Account{ID: "alice"}
	bob := &Account{ID: "bob"}
	complaint := &Complaint{ID: "c1", OwnerID: "alice"}

	if !alice.Owns(complaint) {
		t.Fatal("alice should own her complaint")
	}
	if bob.Owns(complaint) {
		t.Fatal("bob must not own alice's complaint")
	}
	if (&Account{}).Owns(&Complaint{}) {
		t.Fatal("empty ids must never match")
	}
	if alice.Owns(nil) {
		t.Fatal("nil complaint is never owned")
	}
}

func TestComplaintStatus(t *testing.T) {
	for _, s := range []ComplaintStatus{ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ComplaintStatus("CLOSED").Valid() {
		t.Fatal("unknown status reported valid")
	}
	if ComplaintStatusInProgress.Label() != "In Progress" {
		t.Fatalf("unexpected label %q", ComplaintStatusInProgress.Label())
	}
}
