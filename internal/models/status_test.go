package models

import "testing"

func TestCompletionStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    CompletionStatus
		to      CompletionStatus
		allowed bool
	}{
		{CompletionPending, CompletionCompleted, true},
		{CompletionPending, CompletionNotCompleted, true},
		{CompletionPending, CompletionPending, false},
		{CompletionCompleted, CompletionNotCompleted, false},
		{CompletionCompleted, CompletionPending, false},
		{CompletionNotCompleted, CompletionCompleted, false},
		{CompletionNotCompleted, CompletionPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: allowed = %v, expected %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestCompletionStatus_Terminal(t *testing.T) {
	if CompletionPending.Terminal() {
		t.Error("pending should not be terminal")
	}
	if !CompletionCompleted.Terminal() {
		t.Error("completed should be terminal")
	}
	if !CompletionNotCompleted.Terminal() {
		t.Error("not_completed should be terminal")
	}
}

func TestCompletionStatus_Valid(t *testing.T) {
	for _, s := range []CompletionStatus{CompletionPending, CompletionCompleted, CompletionNotCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if CompletionStatus("dropped").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestRequestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{RequestPending, RequestApproved, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, false},
		{RequestApproved, RequestRejected, false},
		{RequestApproved, RequestPending, false},
		{RequestRejected, RequestApproved, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: allowed = %v, expected %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestUrgency_Valid(t *testing.T) {
	for _, u := range []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh} {
		if !u.Valid() {
			t.Errorf("%s should be valid", u)
		}
	}
	if Urgency("Critical").Valid() {
		t.Error("unknown urgency should be invalid")
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"food bank org name", User{Role: RoleFoodBank, OrgName: "Harvest Hope"}, "Harvest Hope"},
		{"donor full name", User{Role: RoleDonor, FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"donor first only", User{Role: RoleDonor, FirstName: "Ada"}, "Ada"},
		{"fallback to email", User{Role: RoleDonor, Email: "a@b.c"}, "a@b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, expected %q", got, tt.want)
			}
		})
	}
}
