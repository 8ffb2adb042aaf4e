package model

import "testing"

func TestPositionValid(t *testing.T) {
	if !PositionStart.Valid() {
		t.Error("start should be valid")
	}
	if !PositionEnd.Valid() {
		t.Error("end should be valid")
	}
	if Position("middle").Valid() {
		t.Error("middle should be invalid")
	}
}

func TestPositionMatches(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		username string
		prefix   string
		want     bool
	}{
		{"start match", PositionStart, "wifi-abc123", "wifi-", true},
		{"start mismatch", PositionStart, "corp_abc123", "wifi-", false},
		{"end match", PositionEnd, "abc123wifi-", "wifi-", true},
		{"end mismatch", PositionEnd, "wifi-abc123", "wifi-", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Matches(tt.username, tt.prefix); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.username, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestGroupName(t *testing.T) {
	tests := []struct {
		name   string
		policy AccessPolicy
		want   string
	}{
		{"explicit group wins", AccessPolicy{Prefix: "wifi-", Group: "aps"}, "aps"},
		{"derived from hyphen prefix", AccessPolicy{Prefix: "office-"}, "office-devs"},
		{"derived from underscore prefix", AccessPolicy{Prefix: "corp_"}, "corp-devs"},
		{"derived without separator", AccessPolicy{Prefix: "guest"}, "guest-devs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.GroupName(); got != tt.want {
				t.Errorf("GroupName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortfall(t *testing.T) {
	d := DesiredState{Prefix: "wifi-", TargetCount: 3}
	if got := d.Shortfall(0); got != 3 {
		t.Errorf("Shortfall(0) = %d, want 3", got)
	}
	if got := d.Shortfall(3); got != 0 {
		t.Errorf("Shortfall(3) = %d, want 0", got)
	}
	// 余剰は負数にならない（削除はしない）
	if got := d.Shortfall(5); got != 0 {
		t.Errorf("Shortfall(5) = %d, want 0", got)
	}
}
