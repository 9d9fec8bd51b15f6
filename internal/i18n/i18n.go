package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleES      = "es"
	LocaleEN      = "en"
	DefaultLocale = LocaleES
)

// ResolveLocale 从请求中解析语言（?lang= 优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := NormalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := NormalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标识，不支持时返回空
func NormalizeLocale(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return ""
	}
	base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
	if _, ok := catalog[base]; ok {
		return base
	}
	return ""
}

// T 获取翻译文本，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 获取带参数的翻译文本
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Has 判断 key 是否存在于默认语言
func Has(key string) bool {
	_, ok := catalog[DefaultLocale][key]
	return ok
}
