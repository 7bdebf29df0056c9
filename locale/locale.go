// Package locale carries the Turkish/English message catalog for the admin
// auth HTTP surface and resolves the response language for a request.
package locale

import "strings"

// Lang is a supported response language.
type Lang string

const (
	Turkish Lang = "tr"
	English Lang = "en"

	// Default is the site's primary language.
	Default = Turkish
)

// Message keys used by the HTTP layer.
const (
	KeyCredentialsRequired = "credentials_required"
	KeyInvalidCredentials  = "invalid_credentials"
	KeyLockedOut           = "locked_out"
	KeyLoginSuccess        = "login_success"
	KeyTokenRequired       = "token_required"
	KeyTokenInvalid        = "token_invalid"
	KeyTokenRevoked        = "token_revoked"
	KeyInsufficientRole    = "insufficient_role"
	KeyVerifySuccess       = "verify_success"
	KeyRevokeSuccess       = "revoke_success"
	KeyServerError         = "server_error"
)

var catalog = map[string]map[Lang]string{
	KeyCredentialsRequired: {
		Turkish: "Kullanıcı adı ve şifre gereklidir",
		English: "Username and password are required",
	},
	KeyInvalidCredentials: {
		Turkish: "Geçersiz kullanıcı adı veya şifre",
		English: "Invalid username or password",
	},
	KeyLockedOut: {
		Turkish: "Çok fazla başarısız deneme. Lütfen daha sonra tekrar deneyin",
		English: "Too many failed attempts. Please try again later",
	},
	KeyLoginSuccess: {
		Turkish: "Giriş başarılı",
		English: "Login successful",
	},
	KeyTokenRequired: {
		Turkish: "Token gereklidir",
		English: "Token required",
	},
	KeyTokenInvalid: {
		Turkish: "Geçersiz veya süresi dolmuş token",
		English: "Invalid or expired token",
	},
	KeyTokenRevoked: {
		Turkish: "Token iptal edilmiş",
		English: "Token has been revoked",
	},
	KeyInsufficientRole: {
		Turkish: "Bu işlem için yetkiniz yok",
		English: "You are not authorized for this action",
	},
	KeyVerifySuccess: {
		Turkish: "Token geçerli",
		English: "Token is valid",
	},
	KeyRevokeSuccess: {
		Turkish: "Token iptal edildi",
		English: "Token revoked",
	},
	KeyServerError: {
		Turkish: "Bir hata oluştu. Lütfen tekrar deneyin",
		English: "Something went wrong. Please try again",
	},
}

// Message returns the catalog entry for key in lang, falling back to
// English and then to the key itself for unknown entries.
func Message(lang Lang, key string) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	if msg, ok := entry[lang]; ok {
		return msg
	}
	return entry[English]
}

// Resolve picks the response language from an explicit query value and the
// Accept-Language header, in that order. Unknown values fall back to
// [Default].
func Resolve(query, acceptLanguage string) Lang {
	if l, ok := normalize(query); ok {
		return l
	}
	// Accept-Language: take the primary subtag of each listed range.
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		if l, ok := normalize(tag); ok {
			return l
		}
	}
	return Default
}

func normalize(v string) (Lang, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "tr":
		return Turkish, true
	case "en":
		return English, true
	default:
		return "", false
	}
}
