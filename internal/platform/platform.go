package platform

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/oshokin/cribl-upgrade/internal/logger"
)

// Family groups operating systems by the service manager they ship with.
type Family int

const (
	// FamilyOther covers every system without a recognized unit-based service manager.
	FamilyOther Family = iota
	// FamilyDebian covers Debian, Ubuntu and their derivatives, which manage services with systemd units.
	FamilyDebian
)

// String returns a lowercase name for the family.
func (f Family) String() string {
	switch f {
	case FamilyDebian:
		return "debian"
	case FamilyOther:
		return "other"
	default:
		return "unknown"
	}
}

// InfoFunc reports the platform name, its family and version
// in the shape of gopsutil host.PlatformInformationWithContext.
type InfoFunc func(ctx context.Context) (platform, family, version string, err error)

// debianIDs lists the distribution identifiers that belong to FamilyDebian.
//
//nolint:gochecknoglobals // Read-only lookup table.
var debianIDs = map[string]struct{}{
	"debian": {},
	"ubuntu": {},
}

// Detect returns the family of the running system.
// Anything gopsutil cannot identify is FamilyOther.
func Detect(ctx context.Context) Family {
	return DetectWith(ctx, host.PlatformInformationWithContext)
}

// DetectWith classifies the system described by info.
func DetectWith(ctx context.Context, info InfoFunc) Family {
	name, family, version, err := info(ctx)
	if err != nil {
		logger.Debugf(ctx, "Platform detection failed, assuming %s: %v", FamilyOther, err)
		return FamilyOther
	}

	detected := FamilyOf(name, []string{family})

	logger.DebugKV(ctx, "Platform detected",
		"platform", name, "platform_family", family, "version", version, "family", detected.String())

	return detected
}

// FamilyOf classifies a distribution by its ID, falling back to the families it derives from.
func FamilyOf(id string, idLike []string) Family {
	if _, ok := debianIDs[strings.ToLower(id)]; ok {
		return FamilyDebian
	}

	for _, like := range idLike {
		if _, ok := debianIDs[strings.ToLower(like)]; ok {
			return FamilyDebian
		}
	}

	return FamilyOther
}
