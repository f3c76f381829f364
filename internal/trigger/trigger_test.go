package trigger

import (
	"testing"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	kind, err := ParseType("MESSAGE_SENT")
	require.NoError(t, err)
	assert.Equal(t, MessageSent, kind)

	_, err = ParseType("MESSAGE_YEETED")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestForMessageVariant(t *testing.T) {
	msg := &platform.Message{
		ID:        "1",
		ChannelID: "2",
		GuildID:   "3",
		Author:    &platform.User{ID: "4"},
	}
	ch := &platform.Channel{ID: "2", GuildID: "3"}

	tr, err := ForMessage(MessageSent, msg, ch)
	require.NoError(t, err)
	assert.Equal(t, MessageSent, tr.Kind())
	assert.Same(t, msg, tr.Message())
	assert.Same(t, msg.Author, tr.Actor())
	assert.Same(t, msg.Author, tr.Author())
	assert.Nil(t, tr.Reaction())
	assert.Nil(t, tr.Member())
	assert.Equal(t, "3", tr.GuildID())
}

func TestForMessageRejectsWrongKind(t *testing.T) {
	msg := &platform.Message{ID: "1", Author: &platform.User{ID: "4"}}
	_, err := ForMessage(MemberJoined, msg, nil)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestForMessageRejectsMissingAuthor(t *testing.T) {
	_, err := ForMessage(MessageSent, &platform.Message{ID: "1"}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsResolve(err))
}

func TestForReactionVariant(t *testing.T) {
	author := &platform.User{ID: "4"}
	reactor := &platform.User{ID: "5"}
	msg := &platform.Message{ID: "1", ChannelID: "2", GuildID: "3", Author: author}
	r := &platform.Reaction{Emoji: "👍", MessageID: "1", ChannelID: "2", GuildID: "3"}

	tr, err := ForReaction(r, msg, nil, reactor)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, tr.Kind())
	assert.Same(t, reactor, tr.Actor())
	assert.Same(t, author, tr.Author())
	assert.Same(t, r, tr.Reaction())
	assert.Equal(t, "3", tr.GuildID())
}

func TestForMemberVariant(t *testing.T) {
	m := &platform.Member{User: &platform.User{ID: "4"}, GuildID: "3"}

	tr, err := ForMember(MemberJoined, m)
	require.NoError(t, err)
	assert.Equal(t, MemberJoined, tr.Kind())
	assert.Same(t, m, tr.Member())
	assert.Same(t, m.User, tr.Actor())
	assert.Nil(t, tr.Author())
	assert.Nil(t, tr.Message())
	assert.Equal(t, "3", tr.GuildID())
}

func TestForUnbanVariantCarriesGuild(t *testing.T) {
	g := &platform.Guild{ID: "3", Name: "somewhere"}
	m := &platform.Member{User: &platform.User{ID: "4"}, GuildID: "3"}

	tr, err := ForUnban(g, m)
	require.NoError(t, err)
	assert.Equal(t, MemberUnbanned, tr.Kind())
	assert.Same(t, g, tr.Guild())
	assert.Equal(t, "3", tr.GuildID())

	_, err = ForUnban(nil, m)
	require.Error(t, err)
}
