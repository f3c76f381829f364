package rules

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/platform"
	"go-chatmod/internal/platform/platformtest"
	"go-chatmod/internal/trigger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(client *platformtest.FakeClient) *Env {
	return &Env{
		Client: client,
		Now:    func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		Sleep:  func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func messageTrigger(t *testing.T, content string) *trigger.Trigger {
	t.Helper()
	msg := &platform.Message{
		ID:        "101",
		ChannelID: "200",
		GuildID:   "300",
		Content:   content,
		Author:    &platform.User{ID: "400", Username: "someone"},
	}
	tr, err := trigger.ForMessage(trigger.MessageSent, msg, nil)
	require.NoError(t, err)
	return tr
}

func TestMessageIsExactly(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_IS_EXACTLY", Options{"content": "ping"})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "ping"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "PING"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "ping "))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageIsExactlyIgnoreCase(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_IS_EXACTLY", Options{"content": "Ping", "ignore_case": true})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "pInG"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMessageIsExactlyRequiresContent(t *testing.T) {
	_, err := NewCondition("MESSAGE_IS_EXACTLY", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestMessageStartsWith(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_STARTS_WITH", Options{"content": "!mod"})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "!mod kick"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "say !mod"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, ""))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageContains(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_CONTAINS", Options{"content": "spoiler", "ignore_case": true})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "huge SPOILER ahead"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "nothing here"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageContainsAnyOf(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_CONTAINS_ANY_OF", Options{
		"matches":     []interface{}{"alpha", "beta"},
		"ignore_case": true,
	})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "BETA release"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "gamma only"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageContainsAnyOfNormalization(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_CONTAINS_ANY_OF", Options{
		"matches":           []interface{}{"hello"},
		"normalize_unicode": true,
		"ignore_case":       true,
	})
	require.NoError(t, err)

	// Fullwidth letters NFKD-normalize to plain ASCII.
	ok, err := cond.Check(ctx, env, messageTrigger(t, "ｈｅｌｌｏ there"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMessageContainsAnyOfRejectsEmptyMatches(t *testing.T) {
	_, err := NewCondition("MESSAGE_CONTAINS_ANY_OF", Options{"matches": []interface{}{}})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestMessageContainsAnyOfRejectsUnknownForm(t *testing.T) {
	_, err := NewCondition("MESSAGE_CONTAINS_ANY_OF", Options{
		"matches":            []interface{}{"x"},
		"normalization_form": "NFZZ",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestMessageHasEmbedRefetchesAfterDelay(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)
	ctx := context.Background()

	slept := time.Duration(0)
	env.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	tr := messageTrigger(t, "link below")
	client.AddMessage(&platform.Message{
		ID:        "101",
		ChannelID: "200",
		Content:   "link below",
		Author:    tr.Author(),
		Embeds:    []platform.Embed{{URL: "https://example.com"}},
	})

	cond, err := NewCondition("MESSAGE_HAS_EMBED", Options{})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, tr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, slept)
}

func TestMessageHasMediaRejectsZeroMinCount(t *testing.T) {
	_, err := NewCondition("MESSAGE_HAS_ATTACHMENT", Options{"min_count": float64(0)})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestMessageHasMediaDeletedDuringDelay(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)

	cond, err := NewCondition("MESSAGE_HAS_EMBED", Options{"delay": float64(0)})
	require.NoError(t, err)

	// The message was never registered with the client, as if deleted.
	ok, err := cond.Check(context.Background(), env, messageTrigger(t, "gone"))
	require.Error(t, err)
	assert.False(t, ok)
}

func TestMessageExternalMedia(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("MESSAGE_CONTAINS_EXTERNAL_MEDIA", Options{})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "see https://example.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Check(ctx, env, messageTrigger(t, "plain text"))
	require.NoError(t, err)
	assert.False(t, ok)

	ignoring, err := NewCondition("MESSAGE_CONTAINS_EXTERNAL_MEDIA", Options{"ignore_links": true})
	require.NoError(t, err)
	ok, err = ignoring.Check(ctx, env, messageTrigger(t, "see https://example.com"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactionMatches(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())
	ctx := context.Background()

	cond, err := NewCondition("REACTION_MATCHES", Options{"reactions": []interface{}{"👍", "✅"}})
	require.NoError(t, err)

	msg := &platform.Message{ID: "1", ChannelID: "2", Author: &platform.User{ID: "3"}}
	tr, err := trigger.ForReaction(&platform.Reaction{Emoji: "✅", MessageID: "1", ChannelID: "2"}, msg, nil, &platform.User{ID: "4"})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, tr)
	require.NoError(t, err)
	assert.True(t, ok)

	other, err := trigger.ForReaction(&platform.Reaction{Emoji: "🎉", MessageID: "1", ChannelID: "2"}, msg, nil, nil)
	require.NoError(t, err)
	ok, err = cond.Check(ctx, env, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactionMatchesRequiresReactions(t *testing.T) {
	_, err := NewCondition("REACTION_MATCHES", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestAuthorIsNotSelf(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)
	ctx := context.Background()

	cond, err := NewCondition("AUTHOR_IS_NOT_SELF", Options{})
	require.NoError(t, err)

	ok, err := cond.Check(ctx, env, messageTrigger(t, "hi"))
	require.NoError(t, err)
	assert.True(t, ok)

	own := &platform.Message{ID: "1", ChannelID: "2", Author: client.Bot}
	tr, err := trigger.ForMessage(trigger.MessageSent, own, nil)
	require.NoError(t, err)
	ok, err = cond.Check(ctx, env, tr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthorMemberFor(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)
	ctx := context.Background()

	// Joined 10 days before the fixed test clock.
	client.Members["300/400"] = &platform.Member{
		User:     &platform.User{ID: "400"},
		GuildID:  "300",
		JoinedAt: env.Now().Add(-10 * 24 * time.Hour),
	}

	cond, err := NewCondition("AUTHOR_HAS_BEEN_MEMBER_FOR", Options{"less_than": "168h"})
	require.NoError(t, err)
	ok, err := cond.Check(ctx, env, messageTrigger(t, "hi"))
	require.NoError(t, err)
	assert.False(t, ok, "ten days is not less than a week")

	cond, err = NewCondition("AUTHOR_HAS_BEEN_MEMBER_FOR", Options{"more_than": "168h"})
	require.NoError(t, err)
	ok, err = cond.Check(ctx, env, messageTrigger(t, "hi"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthorMemberForUnknownMember(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)

	cond, err := NewCondition("AUTHOR_HAS_BEEN_MEMBER_FOR", Options{"more_than": float64(60)})
	require.NoError(t, err)

	ok, err := cond.Check(context.Background(), env, messageTrigger(t, "hi"))
	require.Error(t, err)
	assert.False(t, ok)
}

func TestAuthorAccountAge(t *testing.T) {
	client := platformtest.NewFakeClient()
	env := testEnv(client)
	ctx := context.Background()

	// A snowflake whose embedded timestamp is 2024-01-01T00:00:00Z, five
	// months before the fixed test clock.
	createdMs := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	id := strconv.FormatUint(uint64(createdMs-1420070400000)<<22, 10)

	msg := &platform.Message{ID: "1", ChannelID: "2", GuildID: "300", Author: &platform.User{ID: id}}
	tr, err := trigger.ForMessage(trigger.MessageSent, msg, nil)
	require.NoError(t, err)

	older, err := NewCondition("AUTHOR_ACCOUNT_AGE", Options{"more_than": "2400h"})
	require.NoError(t, err)
	ok, err := older.Check(ctx, env, tr)
	require.NoError(t, err)
	assert.True(t, ok)

	newer, err := NewCondition("AUTHOR_ACCOUNT_AGE", Options{"less_than": "24h"})
	require.NoError(t, err)
	ok, err = newer.Check(ctx, env, tr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthorAccountAgeMalformedID(t *testing.T) {
	env := testEnv(platformtest.NewFakeClient())

	msg := &platform.Message{ID: "1", ChannelID: "2", Author: &platform.User{ID: "not-a-snowflake"}}
	tr, err := trigger.ForMessage(trigger.MessageSent, msg, nil)
	require.NoError(t, err)

	cond, err := NewCondition("AUTHOR_ACCOUNT_AGE", Options{"more_than": float64(1)})
	require.NoError(t, err)

	ok, err := cond.Check(context.Background(), env, tr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownConditionKind(t *testing.T) {
	_, err := NewCondition("NO_SUCH_CONDITION", Options{})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}
