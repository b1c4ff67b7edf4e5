package featureflags

import "testing"

func TestEnabled(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		t.Setenv("FLAG_SEED_USER", v)
		if !Enabled("seed_user") {
			t.Errorf("expected flag enabled for %q", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off", "maybe"} {
		t.Setenv("FLAG_SEED_USER", v)
		if Enabled("seed_user") {
			t.Errorf("expected flag disabled for %q", v)
		}
	}
}
