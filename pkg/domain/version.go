package domain

import (
	"time"
)

// VersionKind classifies an entry of the game version catalog.
type VersionKind string

const (
	KindRelease  VersionKind = "release"
	KindSnapshot VersionKind = "snapshot"
	KindOldBeta  VersionKind = "old_beta"
	KindOldAlpha VersionKind = "old_alpha"
)

// ParseVersionKind maps a catalog type string to a VersionKind. Unknown values are
// reported as not ok.
func ParseVersionKind(s string) (VersionKind, bool) {
	switch k := VersionKind(s); k {
	case KindRelease, KindSnapshot, KindOldBeta, KindOldAlpha:
		return k, true
	}
	return "", false
}

// VersionDescriptor identifies one game version.
type VersionDescriptor struct {
	ID          string      `json:"id" yaml:"id"`
	Kind        VersionKind `json:"type" yaml:"type"`
	ReleaseTime time.Time   `json:"releaseTime" yaml:"release_time"`
}

// IsSnapshot reports whether the descriptor is a snapshot build.
func (v VersionDescriptor) IsSnapshot() bool {
	return v.Kind == KindSnapshot
}

func (v VersionDescriptor) String() string {
	return v.ID
}
