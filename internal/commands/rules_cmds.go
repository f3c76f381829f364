package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-chatmod/internal/extension"
	"go-chatmod/pkg/util"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleRulesCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	ext, ok := h.registry.Extension(extension.RulesExtensionName)
	if !ok {
		return respondSignal(s, i, SignalNeutral, "The rules engine is not registered.")
	}

	sub, opt := subcommand(data)
	switch sub {
	case "reload":
		return h.handleRulesReload(s, i, ext)
	case "list":
		return h.handleRulesList(s, i, ext)
	case "show":
		return h.handleRulesShow(s, i, ext, opt)
	default:
		return respondSignal(s, i, SignalUnknownInput, "Unknown rules subcommand.")
	}
}

func (h *Handler) handleRulesReload(s *discordgo.Session, i *discordgo.InteractionCreate, ext *extension.Extension) error {
	// Reloading refetches remote sources, so answer after deferring.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return err
	}

	ext.Reload(context.Background())

	content := SignalSuccess.Emoji() + " Rules configuration reloaded."
	if engine, ok := extension.RulesEngineFor(ext, i.GuildID); ok {
		content = fmt.Sprintf("%s Rules configuration reloaded: %s active here.",
			SignalSuccess.Emoji(), util.Plural(engine.Index().Len(), "rule"))
	} else {
		content = SignalNeutral.Emoji() + " Reloaded, but this server has no rules configuration."
	}

	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

func (h *Handler) handleRulesList(s *discordgo.Session, i *discordgo.InteractionCreate, ext *extension.Extension) error {
	engine, ok := extension.RulesEngineFor(ext, i.GuildID)
	if !ok {
		return respondSignal(s, i, SignalNeutral, "This server has no rules configuration.")
	}

	all := engine.Index().All()
	if len(all) == 0 {
		return respondSignal(s, i, SignalNeutral, "No rules configured.")
	}

	var lines []string
	for _, r := range all {
		lines = append(lines, fmt.Sprintf("• **%s** on `%s` (%s, %s)",
			r.Name, r.Trigger,
			util.Plural(len(r.Conditions), "condition"),
			util.Plural(len(r.Actions), "action")))
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Rules (%d)", len(all)),
		Description: util.Truncate(strings.Join(lines, "\n"), 4000),
		Color:       0x5865F2,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) handleRulesShow(s *discordgo.Session, i *discordgo.InteractionCreate, ext *extension.Extension, opt *discordgo.ApplicationCommandInteractionDataOption) error {
	engine, ok := extension.RulesEngineFor(ext, i.GuildID)
	if !ok {
		return respondSignal(s, i, SignalNeutral, "This server has no rules configuration.")
	}

	name := ""
	if opt != nil && len(opt.Options) > 0 {
		name = opt.Options[0].StringValue()
	}
	rule, ok := engine.Index().Get(name)
	if !ok {
		return respondSignal(s, i, SignalUnknownInput, "No rule named %q.", name)
	}

	var conds []string
	for _, c := range rule.Conditions {
		conds = append(conds, "`"+c.Kind()+"`")
	}
	var acts []string
	for _, a := range rule.Actions {
		acts = append(acts, "`"+a.Kind()+"`")
	}
	orNone := func(items []string) string {
		if len(items) == 0 {
			return "None"
		}
		return strings.Join(items, "\n")
	}

	description := rule.Description
	if description == "" {
		description = "*No description.*"
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Rule: " + rule.Name,
		Description: description,
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Trigger", Value: "`" + rule.Trigger.String() + "`", Inline: false},
			{Name: "Conditions (in order)", Value: orNone(conds), Inline: true},
			{Name: "Actions (in order)", Value: orNone(acts), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if rule.LogChannelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Log Channel", Value: fmt.Sprintf("<#%s>", rule.LogChannelID), Inline: false,
		})
	}

	return respondEmbed(s, i, embed)
}
