package domain

import "time"

// MinDelaySeconds is the lowest accepted auto-reply delay.
const MinDelaySeconds = 10

// ChatSettings represents the effective auto-reply settings for one chat
type ChatSettings struct {
	Enabled          bool   `json:"enabled"`
	DelaySeconds     int    `json:"delay_seconds"`
	Message          string `json:"message"`
	RateLimitMinutes int    `json:"rate_limit_minutes"`
}

// Delay returns the reply delay as a duration
func (s ChatSettings) Delay() time.Duration {
	return time.Duration(s.DelaySeconds) * time.Second
}

// RateLimit returns the minimum interval between two auto-replies as a duration.
// Minute-based config and second-based delays are only ever compared through
// these two accessors, never as raw integers.
func (s ChatSettings) RateLimit() time.Duration {
	return time.Duration(s.RateLimitMinutes) * time.Minute
}

// RateLimitOpen reports whether enough time has passed since the last
// auto-reply for a new one to be allowed
func (s ChatSettings) RateLimitOpen(lastSent, now time.Time) bool {
	if lastSent.IsZero() {
		return true
	}
	return now.Sub(lastSent) >= s.RateLimit()
}

// ChatOverride is a partial per-chat override of the global defaults.
// Nil fields fall back to the defaults. LastAutoReplyTS is bookkeeping
// written by the scheduler, not configuration.
type ChatOverride struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	DelaySeconds     *int    `json:"delay_seconds,omitempty"`
	Message          *string `json:"message,omitempty"`
	RateLimitMinutes *int    `json:"rate_limit_minutes,omitempty"`
	LastAutoReplyTS  int64   `json:"last_auto_reply_ts,omitempty"`
}

// Apply merges the override over the given base settings
func (o *ChatOverride) Apply(base ChatSettings) ChatSettings {
	if o == nil {
		return base
	}
	if o.Enabled != nil {
		base.Enabled = *o.Enabled
	}
	if o.DelaySeconds != nil {
		base.DelaySeconds = *o.DelaySeconds
	}
	if o.Message != nil {
		base.Message = *o.Message
	}
	if o.RateLimitMinutes != nil {
		base.RateLimitMinutes = *o.RateLimitMinutes
	}
	return base
}

// LastAutoReply returns the persisted last auto-reply time, zero if never sent
func (o *ChatOverride) LastAutoReply() time.Time {
	if o == nil || o.LastAutoReplyTS == 0 {
		return time.Time{}
	}
	return time.Unix(o.LastAutoReplyTS, 0)
}
