package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedInfo(name, family string, err error) InfoFunc {
	return func(context.Context) (string, string, string, error) {
		return name, family, "1.0", err
	}
}

// TestFamilyOf covers direct IDs, derivatives and the fallback.
func TestFamilyOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, FamilyDebian, FamilyOf("ubuntu", nil))
	require.Equal(t, FamilyDebian, FamilyOf("Debian", nil))
	require.Equal(t, FamilyDebian, FamilyOf("linuxmint", []string{"ubuntu", "debian"}))
	require.Equal(t, FamilyOther, FamilyOf("rhel", []string{"fedora"}))
	require.Equal(t, FamilyOther, FamilyOf("", nil))
}

// TestDetectWith maps gopsutil platform information onto a family.
func TestDetectWith(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		info InfoFunc
		want Family
	}{
		"ubuntu":              {info: fixedInfo("ubuntu", "debian", nil), want: FamilyDebian},
		"debian derivative":   {info: fixedInfo("pop", "debian", nil), want: FamilyDebian},
		"rocky":               {info: fixedInfo("rocky", "rhel", nil), want: FamilyOther},
		"darwin":              {info: fixedInfo("darwin", "Standalone Workstation", nil), want: FamilyOther},
		"detection failure":   {info: fixedInfo("", "", errors.New("no os-release")), want: FamilyOther},
		"failure keeps other": {info: fixedInfo("ubuntu", "debian", errors.New("partial")), want: FamilyOther},
	}

	for name, tc := range cases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, DetectWith(context.Background(), tc.info))
		})
	}
}

// TestDetect runs against the real host and only asserts a known family comes back.
func TestDetect(t *testing.T) {
	t.Parallel()

	require.Contains(t, []Family{FamilyDebian, FamilyOther}, Detect(context.Background()))
}

// TestFamilyString keeps log output stable.
func TestFamilyString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "debian", FamilyDebian.String())
	require.Equal(t, "other", FamilyOther.String())
	require.Equal(t, "unknown", Family(42).String())
}
