package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Champ-Deep/LakeStream/internal/emailvalidator"
	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/Champ-Deep/LakeStream/internal/templates"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
var linkedinRe = regexp.MustCompile(`linkedin\.com/in/[a-zA-Z0-9\-_%]+`)

var genericMailboxPrefixes = []string{
	"info@", "support@", "sales@", "contact@", "hello@", "admin@", "help@", "press@", "media@",
}

// Contacts runs the three-strategy contact extraction from §4.9 with
// early exit: JSON-LD Person entries, then template-specific team cards,
// then a regex fallback scan. Results are deduplicated by case-insensitive
// email, then by full name, merging non-empty fields from duplicates.
func Contacts(tpl templates.Template, doc *htmlparse.Document, url string) []model.Bag {
	if people := jsonLDPeople(doc); len(people) > 0 {
		return dedupePeople(people)
	}
	if people := tpl.ExtractContacts(doc, url); len(people) > 0 {
		return dedupePeople(people)
	}
	return dedupePeople(regexFallbackPeople(doc.RawHTML()))
}

type jsonLDPerson struct {
	Type     string `json:"@type"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	SameAs   any    `json:"sameAs"`
}

// jsonLDPeople implements strategy 1: iterate <script
// type="application/ld+json">, parse, and collect every @type:"Person"
// entry, splitting name on the first space into first/last.
func jsonLDPeople(doc *htmlparse.Document) []model.Bag {
	var out []model.Bag
	doc.Selection().Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := []byte(s.Text())
		if person, ok := jsonUnmarshalPerson(raw); ok {
			out = append(out, personToBag(person))
			return
		}
		// Some sites emit an array of entities rather than a single Person
		// object; scan one level deep for Person entries. An object that
		// wraps its entities in @graph is not searched.
		var generic []json.RawMessage
		if err := json.Unmarshal(raw, &generic); err == nil {
			for _, entry := range generic {
				if person, ok := jsonUnmarshalPerson(entry); ok {
					out = append(out, personToBag(person))
				}
			}
		}
	})
	return out
}

func personToBag(p *jsonLDPerson) model.Bag {
	bag := model.Bag{"name": p.Name, "title": p.Name}
	first, last := splitName(p.Name)
	if first != "" {
		bag["first_name"] = first
	}
	if last != "" {
		bag["last_name"] = last
	}
	if p.JobTitle != "" {
		bag["job_title"] = p.JobTitle
	}
	if p.Email != "" {
		bag["email"] = p.Email
	}
	if same, ok := p.SameAs.(string); ok && same != "" {
		bag["linkedin_url"] = same
	}
	return bag
}

// splitName divides a full name on the first space into first/last, per
// §4.9's JSON-LD strategy.
func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	idx := strings.IndexByte(full, ' ')
	if idx < 0 {
		return full, ""
	}
	return full[:idx], strings.TrimSpace(full[idx+1:])
}

func dedupePeople(people []model.Bag) []model.Bag {
	byEmail := make(map[string]int)
	byName := make(map[string]int)
	var out []model.Bag

	for _, p := range people {
		email := strings.ToLower(stringField(p, "email"))
		name := stringField(p, "name")
		if name == "" {
			name = stringField(p, "title")
		}

		if email != "" {
			if idx, ok := byEmail[email]; ok {
				mergeBag(out[idx], p)
				continue
			}
		} else if name != "" {
			if idx, ok := byName[name]; ok {
				mergeBag(out[idx], p)
				continue
			}
		}

		out = append(out, p)
		idx := len(out) - 1
		if email != "" {
			byEmail[email] = idx
		}
		if name != "" {
			byName[name] = idx
		}
	}
	return out
}

func mergeBag(dst, src model.Bag) {
	for k, v := range src {
		if existing, ok := dst[k]; !ok || existing == "" || existing == nil {
			dst[k] = v
		}
	}
}

func stringField(b model.Bag, key string) string {
	if v, ok := b[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// regexFallbackPeople implements strategy 3: scan the raw body for emails
// and LinkedIn profile URLs, filtering out generic mailbox prefixes and
// any email that isn't a valid, non-free-provider business address
// (spec property S3: free providers and disposable domains are rejected).
func regexFallbackPeople(body string) []model.Bag {
	var out []model.Bag
	seenEmail := make(map[string]struct{})
	for _, email := range emailRe.FindAllString(body, -1) {
		lower := strings.ToLower(email)
		if isGenericMailbox(lower) {
			continue
		}
		if !emailvalidator.IsBusinessEmail(lower) {
			continue
		}
		if _, ok := seenEmail[lower]; ok {
			continue
		}
		seenEmail[lower] = struct{}{}
		out = append(out, model.Bag{"email": email})
	}
	for _, profile := range linkedinRe.FindAllString(body, -1) {
		out = append(out, model.Bag{"linkedin_url": "https://" + profile})
	}
	return out
}

func isGenericMailbox(lowerEmail string) bool {
	for _, prefix := range genericMailboxPrefixes {
		if strings.HasPrefix(lowerEmail, prefix) {
			return true
		}
	}
	return false
}

// jsonUnmarshalPerson is a tiny indirection so jsonLDPerson stays testable
// without re-parsing JSON at every call site.
func jsonUnmarshalPerson(raw []byte) (*jsonLDPerson, bool) {
	var p jsonLDPerson
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	if !strings.EqualFold(p.Type, "Person") {
		return nil, false
	}
	return &p, true
}
