package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Signal is the fixed feedback vocabulary for administrative commands.
// Every outcome maps to exactly one signal so operators can read the
// result at a glance.
type Signal uint8

const (
	SignalSuccess Signal = iota
	SignalNeutral
	SignalUnknownInput
	SignalDenied
	SignalInternalFailure
	SignalCooldown
)

var signalEmojis = map[Signal]string{
	SignalSuccess:         "✅",
	SignalNeutral:         "➖",
	SignalUnknownInput:    "❓",
	SignalDenied:          "🚫",
	SignalInternalFailure: "💥",
	SignalCooldown:        "⏳",
}

func (sig Signal) Emoji() string {
	return signalEmojis[sig]
}

// respondSignal answers an interaction with a one-line signaled message.
// All signal responses are ephemeral; command outcomes are the caller's
// business, not the channel's.
func respondSignal(s *discordgo.Session, i *discordgo.InteractionCreate, sig Signal, format string, args ...interface{}) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: sig.Emoji() + " " + fmt.Sprintf(format, args...),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
