package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = "10.0.0.5:4242"
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		deviceType string
		isBot      bool
	}{
		{"empty", "", "unknown", false},
		{"android phone", "Mozilla/5.0 (Linux; Android 12; SM-A525F) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36", "mobile", false},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Mobile/15E148 Safari/604.1", "tablet", false},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36", "desktop", false},
		{"crawler", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "desktop", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.userAgent)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.isBot, info.IsBot)
			assert.NotEmpty(t, info.OS)
			assert.NotEmpty(t, info.Browser)
		})
	}
}

func TestRealIP(t *testing.T) {
	t.Run("X-Real-IP", func(t *testing.T) {
		c := newContext(map[string]string{"X-Real-IP": "203.0.113.7"})
		assert.Equal(t, "203.0.113.7", RealIP(c))
	})

	t.Run("First Public Forwarded Address", func(t *testing.T) {
		c := newContext(map[string]string{"X-Forwarded-For": "192.168.1.10, 198.51.100.4, 10.0.0.1"})
		assert.Equal(t, "198.51.100.4", RealIP(c))
	})

	t.Run("Socket Peer Fallback", func(t *testing.T) {
		c := newContext(nil)
		assert.Equal(t, "10.0.0.5", RealIP(c))
	})
}

func TestDescribeClient(t *testing.T) {
	c := newContext(map[string]string{
		"X-Real-IP":  "203.0.113.7",
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	})

	info := DescribeClient(c)
	assert.Equal(t, "203.0.113.7", info.IP)
	assert.Equal(t, "desktop", info.DeviceType)
}
