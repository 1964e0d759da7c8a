// Package emailvalidator implements the format, disposable-domain, and
// free-provider checks behind contact extraction's email filtering,
// grounded on
// original_source/src/scraping/validator/email_validator.py.
package emailvalidator

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are common temp/throwaway email providers.
var disposableDomains = map[string]struct{}{
	"mailinator.com":         {},
	"guerrillamail.com":      {},
	"tempmail.com":           {},
	"throwaway.email":        {},
	"temp-mail.org":          {},
	"10minutemail.com":       {},
	"yopmail.com":            {},
	"sharklasers.com":        {},
	"guerrillamailblock.com": {},
}

// freeProviders are free consumer email providers, not business domains.
var freeProviders = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"aol.com":        {},
	"icloud.com":     {},
	"mail.com":       {},
	"protonmail.com": {},
	"zoho.com":       {},
	"yandex.com":     {},
}

// IsValidEmail performs basic format validation and rejects disposable
// domains.
func IsValidEmail(email string) bool {
	if email == "" || !emailPattern.MatchString(email) {
		return false
	}
	domain := domainOf(email)
	if _, ok := disposableDomains[domain]; ok {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	return true
}

// IsBusinessEmail reports whether email is a valid address at a domain
// that is not a free consumer provider.
func IsBusinessEmail(email string) bool {
	if !IsValidEmail(email) {
		return false
	}
	_, free := freeProviders[domainOf(email)]
	return !free
}

func domainOf(email string) string {
	idx := strings.IndexByte(email, '@')
	if idx < 0 || idx+1 >= len(email) {
		return ""
	}
	return strings.ToLower(email[idx+1:])
}
