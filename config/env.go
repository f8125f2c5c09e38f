// Package config provides an optional environment-variable and YAML
// overlay for a wamp.ConfigSnapshot's default fields, for applications
// that want the library's operational knobs to follow the same
// viper-backed convention they use for their own configuration.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Overrides holds ConfigSnapshot default field overrides sourced from
// the process environment.
type Overrides struct {
	Agent                    string
	TLSInsecureSkipVerify    bool
	TLSInsecureSkipVerifySet bool
	MaxMessageSize           uint32
}

// FromEnvironment reads WAMP_AGENT, WAMP_TLS_INSECURE_SKIP_VERIFY, and
// WAMP_MAX_MSG_SIZE from the environment. A field absent from the
// environment is left at its zero value in the returned Overrides, so
// callers can layer it on top of existing defaults without clobbering
// them.
func FromEnvironment() Overrides {
	v := viper.New()
	v.SetEnvPrefix("WAMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var ov Overrides
	if v.IsSet("agent") {
		ov.Agent = v.GetString("agent")
	}
	if v.IsSet("tls_insecure_skip_verify") {
		ov.TLSInsecureSkipVerify = v.GetBool("tls_insecure_skip_verify")
		ov.TLSInsecureSkipVerifySet = true
	}
	if v.IsSet("max_msg_size") {
		ov.MaxMessageSize = uint32(v.GetUint("max_msg_size"))
	}
	return ov
}
