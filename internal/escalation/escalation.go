// Package escalation implements the three-tier transport chain: choosing
// a domain's starting tier from its learned history, deciding whether a
// fetch result warrants moving up the chain, and recording outcomes back
// into DomainMetadata.
package escalation

import "github.com/Champ-Deep/LakeStream/internal/model"

// chain is the fixed, ordered tier progression.
var chain = []model.Tier{model.TierBasicHTTP, model.TierHeadlessBrowser, model.TierHeadlessProxy}

// InitialTier picks the starting tier for a domain: its last successful
// strategy if DomainMetadata records one, otherwise tier 1.
func InitialTier(meta *model.DomainMetadata) model.Tier {
	if meta != nil && isValidTier(meta.LastSuccessfulStrategy) {
		return meta.LastSuccessfulStrategy
	}
	return model.TierBasicHTTP
}

func isValidTier(t model.Tier) bool {
	for _, c := range chain {
		if c == t {
			return true
		}
	}
	return false
}

// ShouldEscalate implements §4.3's escalate condition: blocked or captcha
// or a block-signaling status, or a 200 with a suspiciously short body.
func ShouldEscalate(r *model.FetchResult) bool {
	if r == nil {
		return false
	}
	if r.Blocked || r.Captcha {
		return true
	}
	switch r.Status {
	case 403, 429, 503:
		return true
	}
	if r.Status == 200 && len(r.Body) < 200 {
		return true
	}
	return false
}

// NextTier returns the tier after `current` in the chain, or "" when
// `current` is already the last tier (no further escalation possible).
func NextTier(current model.Tier) model.Tier {
	for i, t := range chain {
		if t == current && i+1 < len(chain) {
			return chain[i+1]
		}
	}
	return ""
}

// RecordOutcome updates the in-memory view of a DomainMetadata row to
// reflect a fetch outcome. Callers (internal/store) are responsible for
// persisting this via a server-side upsert with COALESCE merge semantics —
// this function only computes the intended next state; it never performs
// a client-side read-modify-write against the store itself.
func RecordOutcome(meta *model.DomainMetadata, tierUsed model.Tier, success bool) {
	if success {
		meta.LastSuccessfulStrategy = tierUsed
		return
	}
	meta.BlockCount++
}
