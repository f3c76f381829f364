package helpchan

import (
	"sort"
	"strings"
	"time"

	"go-chatmod/internal/config"
	"go-chatmod/internal/errs"
)

// State is a managed channel's lifecycle position. The channel's name
// prefix is the authoritative store: state survives restarts because it
// lives in the name, not in memory.
type State uint8

const (
	StateUnknown State = iota
	StateFree
	StateBusy
	StateStale
	StateHoisted
	StateDucked
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateBusy:
		return "busy"
	case StateStale:
		return "stale"
	case StateHoisted:
		return "hoisted"
	case StateDucked:
		return "ducked"
	default:
		return "unknown"
	}
}

// ParseState maps an administrator-supplied name to a State.
func ParseState(s string) (State, error) {
	switch strings.ToLower(s) {
	case "free":
		return StateFree, nil
	case "busy":
		return StateBusy, nil
	case "stale":
		return StateStale, nil
	case "hoisted":
		return StateHoisted, nil
	case "ducked":
		return StateDucked, nil
	default:
		return StateUnknown, errs.UserInput("unknown channel state %q", s)
	}
}

// hoistedName is the signpost name hoisted channels take on.
const hoistedName = "ask-here"

// Config is one guild's resolved help-channel configuration.
type Config struct {
	Channels              []ManagedChannel
	MessageWithChannel    string
	MessageWithoutChannel string
	StaleAfter            time.Duration
	PollEvery             time.Duration
	Categories            map[State]string
	MinHoisted            int
	MaxHoisted            int
	RelocateEmoji         string
	ResolveEmoji          string
	DuckEmoji             string
	Emojis                map[State]string
	ResolveWithReaction   bool
	AutoPoll              bool
}

// ManagedChannel pairs a channel's stable base name with its platform
// identifier. Base names come from configuration; they cannot be read
// back from a hoisted channel's name.
type ManagedChannel struct {
	Base string
	ID   string
}

// FromOptions validates the raw per-guild options and applies defaults.
func FromOptions(opts config.HelpChannelOptions) (Config, error) {
	if len(opts.Channels) == 0 {
		return Config{}, errs.Config("help-channel config needs at least one channel")
	}

	cfg := Config{
		MessageWithChannel:    opts.MessageWithChannel,
		MessageWithoutChannel: opts.MessageWithoutChannel,
		StaleAfter:            time.Duration(opts.SecondsUntilStale) * time.Second,
		PollEvery:             time.Duration(opts.SecondsToPoll) * time.Second,
		MinHoisted:            opts.MinHoistedChannels,
		MaxHoisted:            opts.MaxHoistedChannels,
		RelocateEmoji:         opts.RelocateEmoji,
		ResolveEmoji:          opts.ResolveEmoji,
		DuckEmoji:             opts.DuckEmoji,
		ResolveWithReaction:   opts.ResolveWithReaction,
		AutoPoll:              true,
	}

	// Channels sorted by base name so registration order is stable
	// across loads.
	bases := make([]string, 0, len(opts.Channels))
	for base := range opts.Channels {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	for _, base := range bases {
		cfg.Channels = append(cfg.Channels, ManagedChannel{Base: base, ID: opts.Channels[base]})
	}

	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Hour
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 10 * time.Minute
	}
	if cfg.MessageWithChannel == "" {
		cfg.MessageWithChannel = "Hey {author}, someone thinks your question belongs in a help channel. Please move it over to {to_channel}."
	}
	if cfg.MessageWithoutChannel == "" {
		cfg.MessageWithoutChannel = "Hey {author}, someone thinks your question belongs in a help channel, but none are free right now. Please keep an eye out for one."
	}
	if cfg.RelocateEmoji == "" {
		cfg.RelocateEmoji = "🛴"
	}
	if cfg.ResolveEmoji == "" {
		cfg.ResolveEmoji = "✅"
	}
	if cfg.DuckEmoji == "" {
		cfg.DuckEmoji = "🦆"
	}

	cfg.Emojis = map[State]string{
		StateFree:    pick(opts.FreeEmoji, "✅"),
		StateBusy:    pick(opts.BusyEmoji, "💬"),
		StateStale:   pick(opts.StaleEmoji, "⏰"),
		StateHoisted: pick(opts.HoistedEmoji, "👋"),
		StateDucked:  pick(opts.DuckedEmoji, "🦆"),
	}

	cfg.Categories = make(map[State]string)
	for state, id := range map[State]string{
		StateFree:    opts.FreeCategory,
		StateBusy:    opts.BusyCategory,
		StateStale:   opts.StaleCategory,
		StateHoisted: opts.HoistedCategory,
	} {
		if id != "" {
			cfg.Categories[state] = id
		}
	}

	if cfg.MinHoisted < 0 || cfg.MaxHoisted < cfg.MinHoisted {
		return Config{}, errs.Config("max_hoisted_channels (%d) must be at least min_hoisted_channels (%d)",
			cfg.MaxHoisted, cfg.MinHoisted)
	}
	if opts.AutoPoll != nil {
		cfg.AutoPoll = *opts.AutoPoll
	}

	return cfg, nil
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// StateFromName derives a channel's state from its name prefix.
func (c *Config) StateFromName(name string) State {
	for _, state := range []State{StateFree, StateBusy, StateStale, StateHoisted, StateDucked} {
		if strings.HasPrefix(name, c.Emojis[state]) {
			return state
		}
	}
	return StateUnknown
}

// NameFor renders the channel name encoding a state. Hoisted channels
// drop their base name and become the "ask here" signpost.
func (c *Config) NameFor(state State, base string) string {
	if state == StateHoisted {
		return c.Emojis[StateHoisted] + hoistedName
	}
	return c.Emojis[state] + base
}
