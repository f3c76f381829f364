package config

// Schema types for per-guild extension configuration. These decode the
// resolved mapping (inline or fetched from a URL) for each extension.

// RuleSpec is one configured moderation rule. Conditions and actions are
// raw mappings carrying a "kind" key plus kind-specific options; the
// rules package validates them at construction.
type RuleSpec struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	TriggerType string                   `json:"trigger_type"`
	Conditions  []map[string]interface{} `json:"conditions"`
	Actions     []map[string]interface{} `json:"actions"`
	LogIcon     string                   `json:"log_icon,omitempty"`
	LogColor    string                   `json:"log_color,omitempty"`
	LogChannel  string                   `json:"log_channel,omitempty"`
	NotifyRoles []string                 `json:"notify_roles,omitempty"`
}

// RulesOptions is the rules-engine extension's per-guild configuration.
type RulesOptions struct {
	Rules       []RuleSpec `json:"rules"`
	LogChannel  string     `json:"log_channel,omitempty"`
	LogIcon     string     `json:"log_icon,omitempty"`
	LogColor    string     `json:"log_color,omitempty"`
	NotifyRoles []string   `json:"notify_roles,omitempty"`
	CompactLogs bool       `json:"compact_logs,omitempty"`
}

// HelpChannelOptions is the help-channel extension's per-guild
// configuration. Channels maps each channel's base name to its platform
// identifier.
type HelpChannelOptions struct {
	Channels              map[string]string `json:"channels"`
	MessageWithChannel    string            `json:"message_with_channel,omitempty"`
	MessageWithoutChannel string            `json:"message_without_channel,omitempty"`
	SecondsUntilStale     int               `json:"seconds_until_stale,omitempty"`
	SecondsToPoll         int               `json:"seconds_to_poll,omitempty"`
	FreeCategory          string            `json:"free_category,omitempty"`
	BusyCategory          string            `json:"busy_category,omitempty"`
	StaleCategory         string            `json:"stale_category,omitempty"`
	HoistedCategory       string            `json:"hoisted_category,omitempty"`
	MinHoistedChannels    int               `json:"min_hoisted_channels,omitempty"`
	MaxHoistedChannels    int               `json:"max_hoisted_channels,omitempty"`
	RelocateEmoji         string            `json:"relocate_emoji,omitempty"`
	ResolveEmoji          string            `json:"resolve_emoji,omitempty"`
	DuckEmoji             string            `json:"duck_emoji,omitempty"`
	FreeEmoji             string            `json:"free_emoji,omitempty"`
	BusyEmoji             string            `json:"busy_emoji,omitempty"`
	StaleEmoji            string            `json:"stale_emoji,omitempty"`
	HoistedEmoji          string            `json:"hoisted_emoji,omitempty"`
	DuckedEmoji           string            `json:"ducked_emoji,omitempty"`
	ResolveWithReaction   bool              `json:"resolve_with_reaction,omitempty"`
	AutoPoll              *bool             `json:"auto_poll,omitempty"`
}
