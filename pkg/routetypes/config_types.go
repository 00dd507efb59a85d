package routetypes

import "time"

// DispatcherConfig holds the policy knobs of a dispatcher instance.
type DispatcherConfig struct {
	// FlagPrefix introduces switch and flag tokens. A doubled prefix is
	// also accepted, so with the default "-" both "-silent" and "--silent"
	// match a switch named "silent".
	FlagPrefix string
	// StrictArgs raises KindTooManyArguments when tokens remain after all
	// parameters are resolved. When false, extra tokens are ignored.
	StrictArgs bool
	// ClampRemainder is the minimum remaining duration a cooldown veto
	// reports. Remainders below it are clamped up to it for display. Zero
	// disables clamping.
	ClampRemainder time.Duration
	// SanitizeStacks trims runtime and dispatch-internal frames from panic
	// traces before they reach error handlers.
	SanitizeStacks bool
}

// DefaultDispatcherConfig returns the configuration a dispatcher starts with:
// "-" flag prefix, lenient argument counting, one-second cooldown clamping,
// and stack sanitizing enabled.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		FlagPrefix:     "-",
		StrictArgs:     false,
		ClampRemainder: time.Second,
		SanitizeStacks: true,
	}
}
