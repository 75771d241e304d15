package ipchecker

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("not-a-cidr")
	assert.Error(t, err)

	checker, err := New("")
	require.NoError(t, err)
	assert.False(t, checker.Check(net.ParseIP("127.0.0.1")))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"real ip wins", map[string]string{"X-Real-IP": "10.0.0.5", "X-Forwarded-For": "10.0.0.6"}, "1.2.3.4:80", "10.0.0.5"},
		{"first forwarded", map[string]string{"X-Forwarded-For": "10.0.0.6, 10.0.0.7"}, "1.2.3.4:80", "10.0.0.6"},
		{"remote addr", nil, "1.2.3.4:80", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				request.Header.Set(k, v)
			}
			ip, err := GetClientIP(request)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip.String())
		})
	}
}

func TestTrustedSubnetOnly(t *testing.T) {
	checker, err := New("10.0.0.0/8")
	require.NoError(t, err)

	handler := checker.TrustedSubnetOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for ip, want := range map[string]int{"10.1.2.3": http.StatusOK, "192.168.0.1": http.StatusForbidden} {
		request := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
		request.Header.Set("X-Real-IP", ip)
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)
		assert.Equal(t, want, response.Code, ip)
	}

	assert.True(t, checker.CheckAddr("10.0.0.1:5000"))
	assert.False(t, checker.CheckAddr("bufconn"))
}
