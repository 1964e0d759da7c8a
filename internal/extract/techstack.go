package extract

import (
	"strings"

	"github.com/Champ-Deep/LakeStream/internal/htmlparse"
	"github.com/Champ-Deep/LakeStream/internal/model"
)

type techSignature struct {
	name     string
	category string
	signals  []string
}

// techSignatures is grounded on original_source/src/data/tech_signatures.py,
// carried over unchanged: one CMS match sets the page's platform field,
// and every match, CMS included, is appended to detected_technologies.
var techSignatures = []techSignature{
	{"WordPress", "cms", []string{"wp-content", "wp-includes", "wordpress", "wp-json"}},
	{"HubSpot", "cms", []string{"js.hs-scripts.com", "hubspot", ".hs-", "hbspt"}},
	{"Webflow", "cms", []string{"webflow.com", "wf-page", "wf-section"}},
	{"Drupal", "cms", []string{"/sites/default/", "drupal.settings"}},
	{"Squarespace", "cms", []string{"squarespace.com", "sqsp", "static.squarespace"}},
	{"Wix", "cms", []string{"wix.com", "wixsite.com", "parastorage.com"}},
	{"Shopify", "cms", []string{"cdn.shopify.com", "shopify", "myshopify.com"}},
	{"Ghost", "cms", []string{"ghost.io", "ghost-", "content/themes"}},
	{"Contentful", "cms", []string{"contentful.com", "ctfassets.net"}},

	{"Google Analytics", "analytics", []string{"google-analytics.com", "gtag(", "ga.js", "googletagmanager.com"}},
	{"Segment", "analytics", []string{"cdn.segment.com", "analytics.js", "segment.io"}},
	{"Mixpanel", "analytics", []string{"mixpanel.com", "mixpanel.init"}},
	{"Amplitude", "analytics", []string{"amplitude.com", "cdn.amplitude.com"}},
	{"Heap", "analytics", []string{"heap-", "heapanalytics.com"}},
	{"Hotjar", "analytics", []string{"hotjar.com", "static.hotjar.com"}},
	{"Plausible", "analytics", []string{"plausible.io"}},

	{"Marketo", "marketing", []string{"munchkin.marketo.net", "mktoforms"}},
	{"Pardot", "marketing", []string{"pardot.com", "pi.pardot.com", "go.pardot.com"}},
	{"Drift", "marketing", []string{"drift.com", "driftt.com", "js.driftt.com"}},
	{"Intercom", "marketing", []string{"intercom.io", "intercomsettings", "widget.intercom.io"}},
	{"HubSpot Marketing", "marketing", []string{"js.hs-analytics.net", "forms.hubspot.com"}},
	{"Mailchimp", "marketing", []string{"mailchimp.com", "list-manage.com", "chimpstatic.com"}},
	{"ActiveCampaign", "marketing", []string{"activecampaign.com", "trackcmp.net"}},
	{"Salesforce", "marketing", []string{"salesforce.com", "force.com"}},
	{"ZoomInfo", "marketing", []string{"zoominfo.com", "ws.zoominfo.com"}},
	{"6sense", "marketing", []string{"6sense.com", "j.6sc.co"}},
	{"Clearbit", "marketing", []string{"clearbit.com", "x.clearbitjs.com"}},

	{"React", "framework", []string{"react.", "reactdom", "__next_data__", "_next/"}},
	{"Vue.js", "framework", []string{"vue.js", "__vue__", "v-if=", "vuejs"}},
	{"Angular", "framework", []string{"angular", "ng-version", "ng-app"}},
	{"Next.js", "framework", []string{"__next_data__", "_next/static", "next/dist"}},
	{"Gatsby", "framework", []string{"gatsby", "/page-data/"}},
	{"Nuxt", "framework", []string{"__nuxt", "nuxt.js"}},
	{"Svelte", "framework", []string{"svelte", "__svelte"}},

	{"Cloudflare", "cdn", []string{"cf-ray", "cloudflare"}},
	{"Fastly", "cdn", []string{"fastly", "x-served-by"}},
	{"Akamai", "cdn", []string{"akamai", "akamaitech"}},
	{"AWS CloudFront", "cdn", []string{"cloudfront.net", "x-amz-cf"}},
	{"Vercel", "cdn", []string{"vercel", "x-vercel-"}},
	{"Netlify", "cdn", []string{"netlify", "x-nf-request-id"}},

	{"jQuery", "js_library", []string{"jquery", "jquery.min.js"}},
	{"Bootstrap", "js_library", []string{"bootstrap.min", "bootstrap.css"}},
	{"Tailwind CSS", "js_library", []string{"tailwindcss", "tailwind."}},
	{"Lodash", "js_library", []string{"lodash", "lodash.min"}},
}

// TechStack matches every signature's signal list against the page body
// plus response headers (case-folded). A single CMS match sets platform;
// every matching signature, CMS included, is recorded in
// detected_technologies grouped by category.
func TechStack(doc *htmlparse.Document, headers map[string]string) model.Bag {
	haystack := strings.ToLower(doc.RawHTML())
	for k, v := range headers {
		haystack += " " + strings.ToLower(k) + ": " + strings.ToLower(v)
	}

	bag := model.Bag{}
	detected := make(map[string][]string)
	platformSet := false

	for _, sig := range techSignatures {
		if !matchesAny(haystack, sig.signals) {
			continue
		}
		detected[sig.category] = append(detected[sig.category], sig.name)
		if sig.category == "cms" && !platformSet {
			bag["platform"] = sig.name
			platformSet = true
		}
	}

	if len(detected) > 0 {
		bag["detected_technologies"] = detected
	}
	return bag
}

func matchesAny(haystack string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(haystack, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
