package commands

import "github.com/bwmarrin/discordgo"

// GetAllCommands returns all application commands
func GetAllCommands() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageServer)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "rules",
			Description:              "Manage the moderation rules engine",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "reload",
					Description: "Reload the rules configuration for this server",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "list",
					Description: "List configured rules",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "show",
					Description: "Show one rule in detail",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "name",
							Description: "Rule name",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:                     "helpchan",
			Description:              "Manage the help-channel pool",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "poll",
					Description: "Run a stale-channel poll now",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "sync",
					Description: "Top the hoisted pool back up to its minimum",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "force",
					Description: "Force a managed channel into a given state",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "channel",
							Description: "The managed channel",
							Type:        discordgo.ApplicationCommandOptionChannel,
							Required:    true,
						},
						{
							Name:        "state",
							Description: "Target state",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Free", Value: "free"},
								{Name: "Busy", Value: "busy"},
								{Name: "Stale", Value: "stale"},
								{Name: "Hoisted", Value: "hoisted"},
								{Name: "Ducked", Value: "ducked"},
							},
						},
					},
				},
				{
					Name:        "poller",
					Description: "Control the background stale poller",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "start",
							Description: "Start the stale poller",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
						{
							Name:        "stop",
							Description: "Stop the stale poller",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
					},
				},
			},
		},
		{
			Name:        "status",
			Description: "Show extension status for this server",
		},
		{
			Name:        "stats",
			Description: "Show process and system statistics",
		},
		{
			Name:        "ping",
			Description: "Check Discord API latency and connection quality",
		},
	}
}
