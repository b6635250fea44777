package filter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/sms-guard/internal/audit"
	"github.com/mikey/sms-guard/internal/core"
	"github.com/mikey/sms-guard/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	category   string
	confidence float64
	err        error
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (*core.Classification, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &core.Classification{
		Category:     s.category,
		Confidence:   s.confidence,
		ModelUsed:    "stub",
		ClassifiedAt: time.Now(),
	}, nil
}

func newTestHTTPFilter(classifier core.Classifier) *HTTPFilter {
	whitelist := rules.NewWhitelist(
		[]string{"otp is"},
		[]string{"trip.com"},
		[]string{"AX-BANKIN"},
		nil,
	)
	blocklist := rules.NewBlocklist(rules.DefaultBlockedDomains(), nil)
	service := core.NewFilterService(classifier, nil, whitelist, blocklist, zap.NewNop(), false, 0, 0.80)
	return NewHTTPFilter(service, audit.NewRecorder(50), zap.NewNop(), "127.0.0.1:0", 50)
}

func doRequest(f *HTTPFilter, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{category: "transactional", confidence: 0.9})

	w := doRequest(f, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["model_ready"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestCheckEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		classifier *stubClassifier
		body       string
		wantCode   int
		wantBody   map[string]interface{}
	}{
		{
			name:       "whitelisted phrase",
			classifier: &stubClassifier{category: "spam", confidence: 0.99},
			body:       `{"message": "Your OTP is 1234. Do not share it with anyone."}`,
			wantCode:   http.StatusOK,
			wantBody:   map[string]interface{}{"verdict": "allowed", "reason": "whitelisted"},
		},
		{
			name:       "whitelisted sender",
			classifier: &stubClassifier{category: "spam", confidence: 0.99},
			body:       `{"message": "Renew your plan today", "sender_id": "AX-BANKIN"}`,
			wantCode:   http.StatusOK,
			wantBody:   map[string]interface{}{"verdict": "allowed", "reason": "whitelisted"},
		},
		{
			name:       "suspicious domain",
			classifier: &stubClassifier{category: "transactional", confidence: 0.9},
			body:       `{"message": "Claim now: https://fakewebsite.com"}`,
			wantCode:   http.StatusOK,
			wantBody: map[string]interface{}{
				"verdict":        "blocked",
				"reason":         "suspicious_domain",
				"matched_domain": "fakewebsite.com",
			},
		},
		{
			name:       "spam above threshold",
			classifier: &stubClassifier{category: "spam", confidence: 0.92},
			body:       `{"message": "You have won a prize, claim immediately"}`,
			wantCode:   http.StatusOK,
			wantBody:   map[string]interface{}{"verdict": "blocked", "reason": "ai", "confidence": 0.92},
		},
		{
			name:       "spam below threshold",
			classifier: &stubClassifier{category: "spam", confidence: 0.55},
			body:       `{"message": "You have won a prize, claim immediately"}`,
			wantCode:   http.StatusOK,
			wantBody:   map[string]interface{}{"verdict": "allowed", "reason": "ai_low_confidence", "confidence": 0.55},
		},
		{
			name:       "non-spam category",
			classifier: &stubClassifier{category: "promotional", confidence: 0.99},
			body:       `{"message": "Flat 50% off this weekend only"}`,
			wantCode:   http.StatusOK,
			wantBody: map[string]interface{}{
				"verdict":    "allowed",
				"reason":     "ai",
				"category":   "promotional",
				"confidence": 0.99,
			},
		},
		{
			name:       "empty message",
			classifier: &stubClassifier{category: "transactional", confidence: 0.9},
			body:       `{"message": ""}`,
			wantCode:   http.StatusBadRequest,
			wantBody:   map[string]interface{}{"verdict": "blocked", "reason": "empty_message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestHTTPFilter(tt.classifier)

			w := doRequest(f, http.MethodPost, "/check_sms", tt.body)
			require.Equal(t, tt.wantCode, w.Code)

			body := decodeBody(t, w)
			for key, want := range tt.wantBody {
				assert.Equal(t, want, body[key], "field %q", key)
			}
		})
	}
}

func TestCheckEndpointOmitsAbsentFields(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{category: "spam", confidence: 0.99})

	w := doRequest(f, http.MethodPost, "/check_sms", `{"message": "Your OTP is 1234"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotContains(t, body, "confidence")
	assert.NotContains(t, body, "category")
	assert.NotContains(t, body, "matched_domain")
}

func TestCheckEndpointTooLong(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{category: "transactional", confidence: 0.9})

	msg, err := json.Marshal(map[string]string{"message": strings.Repeat("a", core.MaxMessageLength+1)})
	require.NoError(t, err)

	w := doRequest(f, http.MethodPost, "/check_sms", string(msg))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Message too long", decodeBody(t, w)["detail"])
}

func TestCheckEndpointClassifierFailure(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{err: errors.New("backend down")})

	w := doRequest(f, http.MethodPost, "/check_sms", `{"message": "Some unremarkable message"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckEndpointInvalidBody(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{category: "transactional", confidence: 0.9})

	w := doRequest(f, http.MethodPost, "/check_sms", `{"message": 42`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecentLogsEndpoint(t *testing.T) {
	f := newTestHTTPFilter(&stubClassifier{category: "spam", confidence: 0.92})

	w := doRequest(f, http.MethodGet, "/recent_logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["logs"])

	doRequest(f, http.MethodPost, "/check_sms", `{"message": "You have won a prize"}`)
	doRequest(f, http.MethodPost, "/check_sms", `{"message": "Your OTP is 1234"}`)

	w = doRequest(f, http.MethodGet, "/recent_logs", "")
	require.Equal(t, http.StatusOK, w.Code)

	logs, ok := decodeBody(t, w)["logs"].([]interface{})
	require.True(t, ok)
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0], "BLOCKED")
	assert.Contains(t, logs[1], "ALLOWED")
}
