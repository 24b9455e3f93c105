package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleEN, "error.user_not_found"); got != "User not found." {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("fr-FR", "error.user_not_found"); got != "존재하지 않는 회원입니다." {
		t.Fatalf("unsupported locale should fall back to ko, got %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters." {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	for key := range messages[LocaleKO] {
		if _, ok := messages[LocaleEN][key]; !ok {
			t.Fatalf("en missing key %s", key)
		}
	}
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleKO][key]; !ok {
			t.Fatalf("ko missing key %s", key)
		}
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{name: "default", target: "/", want: LocaleKO},
		{name: "query", target: "/?lang=en", want: LocaleEN},
		{name: "x_locale", target: "/", header: map[string]string{"X-Locale": "en-GB"}, want: LocaleEN},
		{name: "accept_language", target: "/", header: map[string]string{"Accept-Language": "fr-FR,en;q=0.8"}, want: LocaleEN},
		{name: "accept_language_unsupported", target: "/", header: map[string]string{"Accept-Language": "ja,*"}, want: LocaleKO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			c.Request = req
			if got := ResolveLocale(c); got != tt.want {
				t.Fatalf("want %s got %s", tt.want, got)
			}
		})
	}
}
