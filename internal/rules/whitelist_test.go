package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWhitelist() *Whitelist {
	return NewWhitelist(
		[]string{"OTP is", "has been shipped"},
		[]string{"trip.com"},
		[]string{"AX-BANKIN"},
		nil,
	)
}

func TestWhitelistMatches(t *testing.T) {
	wl := newTestWhitelist()

	tests := []struct {
		name   string
		text   string
		sender string
		want   bool
	}{
		{"phrase match", "your otp is 1234. do not share it with anyone.", "", true},
		{"phrase is case-insensitive via lowercased entries", "your otp is 1234", "", true},
		{"domain substring match", "check out our sale at https://trip.com", "", true},
		{"domain match with subdomain", "see https://promo.trip.com/deals", "", true},
		{"sender exact match", "renew your plan today", "AX-BANKIN", true},
		{"sender is not substring matched", "renew your plan today", "AX-BANKING", false},
		{"no sender supplied", "renew your plan today", "", false},
		{"no match at all", "you have won a prize", "", false},
		{"unlisted domain", "claim at https://fakewebsite.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wl.Matches(tt.text, tt.sender))
		})
	}
}

func TestWhitelistEntriesNormalized(t *testing.T) {
	wl := NewWhitelist([]string{"  Thank You  ", ""}, []string{" Trip.COM "}, []string{" AX-BANKIN ", ""}, nil)

	assert.True(t, wl.Matches("thank you for shopping", ""))
	assert.True(t, wl.Matches("deal at https://trip.com", ""))
	assert.True(t, wl.Matches("anything", "AX-BANKIN"))
}

func TestLoadWhitelist(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "whitelist.json")
		data := `{"phrases": ["otp is"], "domains": ["trip.com"], "senders": ["AX-BANKIN"]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		wl, err := LoadWhitelist(path, nil)
		require.NoError(t, err)
		assert.True(t, wl.Matches("your otp is 1234", ""))
		assert.True(t, wl.Matches("", "AX-BANKIN"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadWhitelist(filepath.Join(t.TempDir(), "missing.json"), nil)
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "whitelist.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

		_, err := LoadWhitelist(path, nil)
		assert.Error(t, err)
	})
}
