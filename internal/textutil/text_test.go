package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"already normalized", "your otp is 1234", "your otp is 1234"},
		{"uppercase folded", "YOUR OTP IS 1234", "your otp is 1234"},
		{"leading and trailing trimmed", "  hello world  ", "hello world"},
		{"runs collapsed", "hello   \t world\n\nagain", "hello world again"},
		{"mixed", "  Claim   NOW: https://Fakewebsite.com ", "claim now: https://fakewebsite.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestExtractDomains(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"no urls", "your otp is 1234", nil},
		{"http url", "go to http://example.com now", []string{"example.com"}},
		{"https url", "claim now: https://fakewebsite.com", []string{"fakewebsite.com"}},
		{"www stripped", "see https://www.trip.com/deals", []string{"trip.com"}},
		{"path stops host", "https://example.com/path/to/page", []string{"example.com"}},
		{"whitespace stops host", "https://example.com next", []string{"example.com"}},
		{
			"multiple urls in order",
			"first http://a.example then https://b.example/x",
			[]string{"a.example", "b.example"},
		},
		{"scheme without host skipped", "broken link https:// end", nil},
		{"non-http scheme ignored", "ftp://files.example.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomains(tt.in))
		})
	}
}
