package httpx

import (
	"net/http"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,    // fallback
	language.Indonesian, // dashboard default
}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.English: {
		CodeMissingCredential: "Please sign in to continue.",
		CodeSessionExpired:    "Your session has expired, please sign in again.",
		CodeInvalidCredential: "Invalid token.",
		CodeUnauthenticated:   "Please sign in to continue.",
		CodeForbidden:         "You do not have permission to perform this action.",
		CodeInvalidLogin:      "Invalid email or password.",
		CodeNotFound:          "The requested resource was not found.",
		CodeDuplicate:         "A record with the same value already exists.",
		CodeValidationFailed:  "Some fields are invalid.",
		CodeInternalError:     "Something went wrong, please try again later.",
	},
	language.Indonesian: {
		CodeMissingCredential: "Silakan masuk untuk melanjutkan.",
		CodeSessionExpired:    "Sesi Anda telah berakhir, silakan masuk kembali.",
		CodeInvalidCredential: "Token tidak valid.",
		CodeUnauthenticated:   "Silakan masuk untuk melanjutkan.",
		CodeForbidden:         "Anda tidak memiliki izin untuk melakukan tindakan ini.",
		CodeInvalidLogin:      "Email atau password tidak valid.",
		CodeNotFound:          "Data yang diminta tidak ditemukan.",
		CodeDuplicate:         "Data dengan nilai yang sama sudah ada.",
		CodeValidationFailed:  "Beberapa isian tidak valid.",
		CodeInternalError:     "Terjadi kesalahan, silakan coba lagi nanti.",
	},
}

// Localize picks a user-facing message for the machine code based on the
// request's Accept-Language header, falling back to English.
func Localize(r *http.Request, code string) string {
	tag := language.English
	if r != nil {
		if accepted, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(accepted) > 0 {
			tag, _, _ = matcher.Match(accepted...)
		}
	}
	base, _ := tag.Base()
	for t, catalog := range messages {
		if b, _ := t.Base(); b == base {
			if msg, ok := catalog[code]; ok {
				return msg
			}
		}
	}
	if msg, ok := messages[language.English][code]; ok {
		return msg
	}
	return code
}
