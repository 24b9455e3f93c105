package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleKO      = "ko-KR"
	LocaleEN      = "en-US"
	DefaultLocale = LocaleKO
)

// localeContextKey 中间件可提前写入解析结果
const localeContextKey = "locale"

// T 返回 key 对应的文案，未命中时回退默认语言，仍未命中返回 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(normalize(locale), key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 格式化带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 || format == key {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// ResolveLocale 依次从 lang 参数、X-Locale 与 Accept-Language 解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if v, ok := c.Get(localeContextKey); ok {
		if locale, ok := v.(string); ok && locale != "" {
			return locale
		}
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return normalize(lang)
	}
	if header := strings.TrimSpace(c.GetHeader("X-Locale")); header != "" {
		return normalize(header)
	}
	return FromAcceptLanguage(c.GetHeader("Accept-Language"))
}

// FromAcceptLanguage 取 Accept-Language 中第一个受支持的语言
func FromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		if locale, ok := match(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

func normalize(locale string) string {
	if matched, ok := match(locale); ok {
		return matched
	}
	return DefaultLocale
}

func match(tag string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case strings.HasPrefix(l, "ko"):
		return LocaleKO, true
	case strings.HasPrefix(l, "en"):
		return LocaleEN, true
	default:
		return "", false
	}
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
