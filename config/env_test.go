package config

import "testing"

func TestFromEnvironmentDefaultsToZeroValue(t *testing.T) {
	t.Setenv("WAMP_AGENT", "")
	ov := FromEnvironment()
	if ov.Agent != "" {
		t.Fatalf("Agent = %q, want empty", ov.Agent)
	}
	if ov.TLSInsecureSkipVerifySet {
		t.Fatal("TLSInsecureSkipVerifySet should be false when unset")
	}
}

func TestFromEnvironmentReadsOverrides(t *testing.T) {
	t.Setenv("WAMP_AGENT", "test-agent/1.0")
	t.Setenv("WAMP_TLS_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("WAMP_MAX_MSG_SIZE", "1048576")

	ov := FromEnvironment()
	if ov.Agent != "test-agent/1.0" {
		t.Fatalf("Agent = %q, want test-agent/1.0", ov.Agent)
	}
	if !ov.TLSInsecureSkipVerifySet || !ov.TLSInsecureSkipVerify {
		t.Fatalf("TLSInsecureSkipVerify override not applied: %+v", ov)
	}
	if ov.MaxMessageSize != 1048576 {
		t.Fatalf("MaxMessageSize = %d, want 1048576", ov.MaxMessageSize)
	}
}
