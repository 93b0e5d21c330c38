package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Unit", KeyUnit, "proj_core", Unit("proj_core")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Step", KeyStep, "generate", Step("generate")},
		{"Rule", KeyRule, "blacklist", Rule("blacklist")},
		{"Pattern", KeyPattern, "^proj_.*", Pattern("^proj_.*")},
		{"Command", KeyCommand, "bloom-generate", Command("bloom-generate")},
		{"Artifact", KeyArtifact, "x.deb", Artifact("x.deb")},
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Distro", KeyDistro, "jazzy", Distro("jazzy")},
		{"Release", KeyRelease, "noble", Release("noble")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Count(3); v.Key != KeyCount {
		t.Fatalf("Count key mismatch: %s", v.Key)
	}
	if v := Index(1); v.Key != KeyIndex {
		t.Fatalf("Index key mismatch: %s", v.Key)
	}
	if v := Total(9); v.Key != KeyTotal {
		t.Fatalf("Total key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	if v := Error(nil); v.Value.String() != "" {
		t.Fatalf("Error(nil) should render empty, got %q", v.Value.String())
	}
	if v := Error(errors.New("boom")); v.Value.String() != "boom" {
		t.Fatalf("Error() value mismatch: %q", v.Value.String())
	}
}
