package translation

import (
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Configure loads <localesDir>/<lang>/default.po. Message IDs are the English texts, so a
// missing catalog falls back to English.
func Configure(localesDir, lang string) {
	gotext.Configure(localesDir, normalize(lang), "default")
}

// normalize turns POSIX locale values such as "ko_KR.UTF-8" into "ko".
func normalize(lang string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "._"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "c" || lang == "posix" {
		return "en"
	}
	return lang
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}
