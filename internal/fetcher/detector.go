package fetcher

import "strings"

var captchaMarkers = []string{
	"captcha",
	"challenge-form",
	"cf-browser-verification",
	"recaptcha",
	"hcaptcha",
	"turnstile",
}

// IsBlocked implements §4.2: a result is blocked when the status is one of
// the refusal codes, or the status is 200 with a suspiciously short body
// (a cloaked block), or the caller already knows a network failure
// occurred (status 0).
func IsBlocked(status int, body string) bool {
	switch status {
	case 0, 403, 429, 503:
		return true
	}
	if status == 200 && len(body) < 200 {
		return true
	}
	return false
}

// IsCaptcha reports whether the case-folded body contains any known
// challenge marker.
func IsCaptcha(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range captchaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
