package config

import "time"

// Posture defines how hard the remote API is pushed
type Posture string

const (
	PostureCautious   Posture = "cautious"   // Public endpoint without a key, sequential
	PostureBalanced   Posture = "balanced"   // Default
	PostureAggressive Posture = "aggressive" // Own node or keyed endpoint
)

// ParsePosture converts a string to Posture, defaulting to PostureBalanced
func ParsePosture(s string) Posture {
	switch s {
	case "cautious":
		return PostureCautious
	case "balanced":
		return PostureBalanced
	case "aggressive":
		return PostureAggressive
	default:
		return PostureBalanced
	}
}

// ProbeProfile is the effective request policy for remote reads
type ProbeProfile struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	Concurrency    int           `yaml:"concurrency"` // proposal indices fetched at once
	Trace          bool          `yaml:"trace"`
}

// PostureProfiles maps postures to their default probe profiles
var PostureProfiles = map[Posture]ProbeProfile{
	PostureCautious: {
		RequestTimeout: 15 * time.Second,
		MaxRetries:     1,
		RetryBackoff:   time.Second,
		Concurrency:    1,
	},
	PostureBalanced: {
		RequestTimeout: 10 * time.Second,
		MaxRetries:     2,
		RetryBackoff:   500 * time.Millisecond,
		Concurrency:    4,
	},
	PostureAggressive: {
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   200 * time.Millisecond,
		Concurrency:    10,
	},
}

// GetProfile returns the probe profile for a posture
func (p Posture) GetProfile() ProbeProfile {
	if profile, ok := PostureProfiles[p]; ok {
		return profile
	}
	return PostureProfiles[PostureBalanced]
}
