package credential

import (
	"strings"
	"testing"

	"github.com/mcguer0/radius-rotate/internal/model"
)

func TestTail(t *testing.T) {
	tail, err := Tail(32)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(tail) != 32 {
		t.Errorf("tail length = %d, want 32", len(tail))
	}
	for _, c := range tail {
		if !strings.ContainsRune(TailAlphabet, c) {
			t.Errorf("tail contains character outside alphabet: %q", c)
		}
	}
}

func TestTailInvalidLength(t *testing.T) {
	if _, err := Tail(0); err == nil {
		t.Error("Tail(0) should fail")
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		tailLen  int
		position model.Position
		wantLen  int
		check    func(t *testing.T, username string)
	}{
		{
			name: "prefix at start", prefix: "wifi-", tailLen: 32, position: model.PositionStart,
			wantLen: 37,
			check: func(t *testing.T, u string) {
				if !strings.HasPrefix(u, "wifi-") {
					t.Errorf("username should start with prefix: %q", u)
				}
			},
		},
		{
			name: "prefix at end", prefix: "wifi-", tailLen: 16, position: model.PositionEnd,
			wantLen: 21,
			check: func(t *testing.T, u string) {
				if !strings.HasSuffix(u, "wifi-") {
					t.Errorf("username should end with prefix: %q", u)
				}
			},
		},
		{
			name: "empty prefix", prefix: "", tailLen: 8, position: model.PositionStart,
			wantLen: 8,
			check:   func(t *testing.T, u string) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Username(tt.prefix, tt.tailLen, tt.position)
			if err != nil {
				t.Fatalf("Username failed: %v", err)
			}
			// username長 = prefix長 + tail長
			if len(u) != tt.wantLen {
				t.Errorf("username length = %d, want %d: %q", len(u), tt.wantLen, u)
			}
			tt.check(t, u)
		})
	}
}

func TestPassword(t *testing.T) {
	p, err := Password(64, "")
	if err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	if len(p) != 64 {
		t.Errorf("password length = %d, want 64", len(p))
	}
	for _, c := range p {
		if !strings.ContainsRune(TailAlphabet+DefaultPunctuation, c) {
			t.Errorf("password contains character outside alphabet: %q", c)
		}
	}
}

func TestPasswordCustomPunctuation(t *testing.T) {
	// 引用符・バックスラッシュを除いた記号セットに制限できること
	const punct = "!#$%&()*+,-./:;<=>?@[]^_{|}~"
	p, err := Password(256, punct)
	if err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	for _, c := range p {
		if strings.ContainsRune("\"'\\`", c) {
			t.Errorf("password contains excluded character: %q", c)
		}
	}
}

func TestPasswordUniqueness(t *testing.T) {
	// 連続生成で同一パスワードが出ないこと（衝突は実質起こらない長さ）
	a, err := Password(64, "")
	if err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	b, err := Password(64, "")
	if err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	if a == b {
		t.Error("two generated passwords should differ")
	}
}
