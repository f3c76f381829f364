package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-chatmod/internal/extension"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildID := i.GuildID

	rulesText := "Not configured"
	if ext, ok := h.registry.Extension(extension.RulesExtensionName); ok {
		if engine, ok := extension.RulesEngineFor(ext, guildID); ok {
			byTrigger := make(map[string]int)
			for _, r := range engine.Index().All() {
				byTrigger[r.Trigger.String()]++
			}
			var parts []string
			for name, count := range byTrigger {
				parts = append(parts, fmt.Sprintf("`%s` ×%d", name, count))
			}
			rulesText = fmt.Sprintf("**%d rule(s)**", engine.Index().Len())
			if len(parts) > 0 {
				rulesText += "\n" + strings.Join(parts, ", ")
			}
		}
	}

	helpchanText := "Not configured"
	if ext, ok := h.registry.Extension(extension.HelpChannelExtensionName); ok {
		if manager, ok := extension.ManagerFor(ext, guildID); ok {
			cfg := manager.Config()
			pollerState := "stopped"
			if manager.Poller().Running() {
				pollerState = "running"
			}
			counts := make(map[string]int)
			ctx := context.Background()
			for _, mc := range cfg.Channels {
				state, err := manager.StateOf(ctx, mc)
				if err != nil {
					counts["unknown"]++
					continue
				}
				counts[state.String()]++
			}
			var parts []string
			for name, count := range counts {
				parts = append(parts, fmt.Sprintf("%d %s", count, name))
			}
			helpchanText = fmt.Sprintf("**%d managed channel(s)** (%s)\nPoller: %s",
				len(cfg.Channels), strings.Join(parts, ", "), pollerState)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Extension Status",
		Description: "Per-server configuration and operational state.",
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rules Engine", Value: rulesText, Inline: false},
			{Name: "Help Channels", Value: helpchanText, Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	return respondEmbed(s, i, embed)
}
