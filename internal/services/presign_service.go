package services

import (
	"context"

	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/metrics"
	"github.com/damacus/iron-presign/internal/models"
	"github.com/damacus/iron-presign/internal/policy"
)

// Outcome is what a successful or policy-blocked run produced.
// Link is only set when Eligibility.Allowed is true.
type Outcome struct {
	Metadata    models.ObjectMetadata
	Eligibility models.EligibilityResult
	Link        *models.SignedLink
}

// PresignService runs inspector, policy and issuer in order.
// It holds no per-request state and is safe for concurrent use.
type PresignService struct {
	inspector *Inspector
	policy    policy.Policy
	issuer    *Issuer
	metrics   *metrics.Metrics
}

func NewPresignService(inspector *Inspector, p policy.Policy, issuer *Issuer, m *metrics.Metrics) *PresignService {
	return &PresignService{inspector: inspector, policy: p, issuer: issuer, metrics: m}
}

// Presign returns a signed link for key, or a *Error.
// A policy block returns both the Outcome and a KindBlockedByPolicy error.
func (s *PresignService) Presign(ctx context.Context, key models.ObjectKey) (Outcome, error) {
	log := logger.Ctx(ctx)

	if !key.Valid() {
		s.metrics.ObserveDecision(metrics.OutcomeInvalid, "")
		return Outcome{}, newError(KindInvalidRequest, "Missing key", nil)
	}

	meta, err := s.inspector.Inspect(ctx, key)
	if err != nil {
		s.metrics.ObserveDecision(metrics.OutcomeFailed, "")
		log.Warn().Err(err).Str("key", string(key)).Str("kind", string(KindOf(err))).Msg("metadata lookup failed")
		return Outcome{}, err
	}

	out := Outcome{Metadata: meta, Eligibility: s.policy.Evaluate(meta)}
	tier := out.Eligibility.Tier.String()

	if !out.Eligibility.Allowed {
		s.metrics.ObserveDecision(metrics.OutcomeBlocked, tier)
		log.Info().
			Str("key", string(key)).
			Str("storage_class", tier).
			Str("restore", meta.Restore.String()).
			Msg("link blocked by policy")
		return out, newError(KindBlockedByPolicy, out.Eligibility.Reason, nil)
	}

	link, err := s.issuer.Issue(ctx, key)
	if err != nil {
		s.metrics.ObserveDecision(metrics.OutcomeFailed, tier)
		log.Error().Err(err).Str("key", string(key)).Msg("link signing failed")
		return Outcome{}, err
	}

	out.Link = &link
	s.metrics.ObserveDecision(metrics.OutcomeIssued, tier)
	log.Debug().
		Str("key", string(key)).
		Str("storage_class", tier).
		Int64("size", meta.Size).
		Int("expires_in", link.ExpiresInSeconds).
		Msg("link issued")
	return out, nil
}
