package netmatch

import (
	"errors"
	"regexp"
	"testing"

	"github.com/mcguer0/radius-rotate/internal/apperr"
)

// matches はコンパイル済みパターンでアドレス文字列を照合するヘルパー。
func matches(t *testing.T, p Pattern, addr string) bool {
	t.Helper()
	re, err := regexp.Compile(p.Expr)
	if err != nil {
		t.Fatalf("pattern does not compile as regexp: %q: %v", p.Expr, err)
	}
	return re.MatchString(addr)
}

func TestCompileOctetAligned(t *testing.T) {
	tests := []struct {
		name    string
		cidr    string
		inside  []string
		outside []string
	}{
		{
			name:    "/32 exact",
			cidr:    "192.168.10.7/32",
			inside:  []string{"192.168.10.7"},
			outside: []string{"192.168.10.70", "192.168.10.8", "1.2.3.4"},
		},
		{
			name:    "/24 last octet free",
			cidr:    "10.0.0.0/24",
			inside:  []string{"10.0.0.0", "10.0.0.5", "10.0.0.255"},
			outside: []string{"10.0.1.5", "110.0.0.5", "10.0.10.5"},
		},
		{
			name:    "/16 last two octets free",
			cidr:    "172.16.0.0/16",
			inside:  []string{"172.16.0.1", "172.16.255.255"},
			outside: []string{"172.17.0.1", "2.16.0.1"},
		},
		{
			name:    "/8 last three octets free",
			cidr:    "10.0.0.0/8",
			inside:  []string{"10.0.0.1", "10.255.255.255"},
			outside: []string{"11.0.0.1", "110.0.0.1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.cidr)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.cidr, err)
			}
			if p.Approximate {
				t.Errorf("octet-aligned %q should not be approximate", tt.cidr)
			}
			for _, addr := range tt.inside {
				if !matches(t, p, addr) {
					t.Errorf("pattern %q should match %q", p.Expr, addr)
				}
			}
			for _, addr := range tt.outside {
				if matches(t, p, addr) {
					t.Errorf("pattern %q should not match %q", p.Expr, addr)
				}
			}
		})
	}
}

func TestCompileAnchoring(t *testing.T) {
	// 10.0.0.1 のパターンが 10.0.0.10 にマッチしてはならない
	p, err := Compile("10.0.0.1/32")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if matches(t, p, "10.0.0.10") {
		t.Errorf("pattern %q must not match 10.0.0.10", p.Expr)
	}
}

func TestCompileNonOctetAligned(t *testing.T) {
	// /20はネットワークアドレスの完全一致に縮退し、近似フラグが立つ
	p, err := Compile("10.0.16.0/20")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !p.Approximate {
		t.Error("/20 should be flagged as approximate")
	}
	if !matches(t, p, "10.0.16.0") {
		t.Errorf("pattern %q should match the network address", p.Expr)
	}
	// ネットワーク内の他アドレスにはマッチしない（近似の縮退仕様）
	if matches(t, p, "10.0.17.1") {
		t.Errorf("pattern %q should match only the network address", p.Expr)
	}
}

func TestCompileZeroLength(t *testing.T) {
	p, err := Compile("0.0.0.0/0")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	for _, addr := range []string{"0.0.0.0", "10.1.2.3", "255.255.255.255"} {
		if !matches(t, p, addr) {
			t.Errorf("/0 pattern should match %q", addr)
		}
	}
}

func TestCompileZeroesHostBits(t *testing.T) {
	// ホストビットはコンパイル前にゼロ化される
	p, err := Compile("10.0.0.99/24")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if p.Network != "10.0.0.0/24" {
		t.Errorf("Network = %q, want %q", p.Network, "10.0.0.0/24")
	}
	if !matches(t, p, "10.0.0.5") {
		t.Errorf("pattern %q should match 10.0.0.5", p.Expr)
	}
}

func TestCompileInvalid(t *testing.T) {
	tests := []struct {
		name string
		cidr string
	}{
		{"missing length", "10.0.0.0"},
		{"length not a number", "10.0.0.0/abc"},
		{"negative length", "10.0.0.0/-1"},
		{"length too large", "10.0.0.0/33"},
		{"malformed address", "10.0.0/24"},
		{"ipv6 address", "::1/64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.cidr)
			if !errors.Is(err, apperr.ErrInvalidNetwork) {
				t.Errorf("Compile(%q) should fail with ErrInvalidNetwork, got %v", tt.cidr, err)
			}
		})
	}
}
