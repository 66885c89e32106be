// Package policy decides whether an object may be handed out as a download link
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/damacus/iron-presign/internal/models"
)

// DefaultGatedTiers are the tiers that need a completed restore before download
var DefaultGatedTiers = []models.StorageTier{models.TierGlacier}

// Policy gates link issuance on storage tier and restore state.
// The zero value gates nothing; use New or Default.
type Policy struct {
	gated map[models.StorageTier]struct{}
}

// New builds a policy gating the given tiers. Tier names are normalized.
func New(tiers ...models.StorageTier) Policy {
	gated := make(map[models.StorageTier]struct{}, len(tiers))
	for _, t := range tiers {
		raw := strings.TrimSpace(string(t))
		if raw == "" {
			continue
		}
		gated[models.NormalizeTier(raw)] = struct{}{}
	}
	return Policy{gated: gated}
}

// Default gates GLACIER only
func Default() Policy {
	return New(DefaultGatedTiers...)
}

// ParseTiers turns a comma separated list ("GLACIER,DEEP_ARCHIVE") into tiers
func ParseTiers(list string) []models.StorageTier {
	var tiers []models.StorageTier
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tiers = append(tiers, models.NormalizeTier(part))
	}
	return tiers
}

// GatedTiers returns the gated tiers in sorted order
func (p Policy) GatedTiers() []models.StorageTier {
	tiers := make([]models.StorageTier, 0, len(p.gated))
	for t := range p.gated {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}

// Gates reports whether objects in tier need a completed restore
func (p Policy) Gates(tier models.StorageTier) bool {
	_, ok := p.gated[tier]
	return ok
}

// Evaluate maps metadata to a verdict. It never touches the network.
// Only RestoreCompleted unlocks a gated tier; in-progress and not-requested both block.
func (p Policy) Evaluate(meta models.ObjectMetadata) models.EligibilityResult {
	tier := meta.Tier
	if tier == "" {
		tier = models.TierStandard
	}

	result := models.EligibilityResult{
		Allowed: true,
		Tier:    tier,
		Restore: meta.Restore,
	}

	if p.Gates(tier) && meta.Restore != models.RestoreCompleted {
		result.Allowed = false
		result.Reason = fmt.Sprintf("Object is archived (%s). Restore required before download.", tier)
	}

	return result
}
