package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// checkManageGuild reports whether the invoking member may use the
// administrative surface: the server owner, or anyone holding the
// Manage Server permission.
func checkManageGuild(s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	if i.Member.User.ID == guild.OwnerID {
		return true, nil
	}

	permissions, err := s.State.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
	if err != nil {
		permissions, err = s.UserChannelPermissions(i.Member.User.ID, i.ChannelID)
		if err != nil {
			return false, fmt.Errorf("failed to get permissions: %w", err)
		}
	}

	const manage = discordgo.PermissionManageServer | discordgo.PermissionAdministrator
	return permissions&manage != 0, nil
}

// isModerator is reserved for a finer-grained moderator check. Nobody
// passes it yet; the admin surface gates on Manage Server instead.
// TODO: honor a configured moderator role list once rules grow a
// moderator-only condition.
func isModerator(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	return false
}
