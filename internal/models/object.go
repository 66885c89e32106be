// Package models contains data structures shared by the inspector, policy and issuer
package models

import (
	"strings"
	"time"
)

// StorageTier is the storage class reported by the object store (x-amz-storage-class)
type StorageTier string

const (
	TierStandard           StorageTier = "STANDARD"
	TierReducedRedundancy  StorageTier = "REDUCED_REDUNDANCY"
	TierStandardIA         StorageTier = "STANDARD_IA"
	TierOnezoneIA          StorageTier = "ONEZONE_IA"
	TierIntelligentTiering StorageTier = "INTELLIGENT_TIERING"
	TierGlacierIR          StorageTier = "GLACIER_IR"
	TierGlacier            StorageTier = "GLACIER"
	TierDeepArchive        StorageTier = "DEEP_ARCHIVE"
)

// NormalizeTier maps a raw storage class to a StorageTier.
// S3 omits the header for STANDARD objects, so an empty value means STANDARD.
// Unknown vendor classes are carried through verbatim.
func NormalizeTier(raw string) StorageTier {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return TierStandard
	}
	return StorageTier(v)
}

func (t StorageTier) String() string {
	return string(t)
}

// ObjectKey names an object in the bucket
type ObjectKey string

// Valid reports whether the key can be sent to the store
func (k ObjectKey) Valid() bool {
	return k != ""
}

// ObjectMetadata is the per-request snapshot returned by the inspector
type ObjectMetadata struct {
	Key          ObjectKey
	Tier         StorageTier
	Restore      RestoreStatus
	Size         int64
	LastModified time.Time
}

// EligibilityResult is the policy verdict for one object
type EligibilityResult struct {
	Allowed bool
	Reason  string
	Tier    StorageTier
	Restore RestoreStatus
}

// SignedLink is a bearer URL valid until its embedded expiry
type SignedLink struct {
	URL              string
	ExpiresInSeconds int
}
