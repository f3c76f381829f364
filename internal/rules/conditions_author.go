package rules

import (
	"context"
	"time"

	"go-chatmod/internal/platform"
	"go-chatmod/internal/trigger"
)

type reactionMatches struct {
	reactions []string
}

func newReactionMatches(opts Options) (Condition, error) {
	reactions, err := opts.RequireStringList("reactions")
	if err != nil {
		return nil, err
	}
	return &reactionMatches{reactions: reactions}, nil
}

func (c *reactionMatches) Kind() string { return "REACTION_MATCHES" }

func (c *reactionMatches) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	r := t.Reaction()
	if r == nil {
		return false, nil
	}
	for _, want := range c.reactions {
		if r.Emoji == want {
			return true, nil
		}
	}
	return false, nil
}

type authorIsNotSelf struct{}

func newAuthorIsNotSelf(opts Options) (Condition, error) {
	return authorIsNotSelf{}, nil
}

func (authorIsNotSelf) Kind() string { return "AUTHOR_IS_NOT_SELF" }

func (authorIsNotSelf) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	actor := t.Actor()
	if actor == nil {
		return false, nil
	}
	bot := env.Client.BotUser()
	if bot == nil {
		return true, nil
	}
	return actor.ID != bot.ID, nil
}

// ageWindow checks an elapsed duration against independently optional
// bounds. An absent bound always passes.
type ageWindow struct {
	moreThan *time.Duration
	lessThan *time.Duration
}

func newAgeWindow(opts Options) (ageWindow, error) {
	moreThan, err := opts.OptionalDuration("more_than")
	if err != nil {
		return ageWindow{}, err
	}
	lessThan, err := opts.OptionalDuration("less_than")
	if err != nil {
		return ageWindow{}, err
	}
	return ageWindow{moreThan: moreThan, lessThan: lessThan}, nil
}

func (w ageWindow) matches(elapsed time.Duration) bool {
	if w.moreThan != nil && elapsed <= *w.moreThan {
		return false
	}
	if w.lessThan != nil && elapsed >= *w.lessThan {
		return false
	}
	return true
}

type authorAccountAge struct {
	window ageWindow
}

func newAuthorAccountAge(opts Options) (Condition, error) {
	window, err := newAgeWindow(opts)
	if err != nil {
		return nil, err
	}
	return &authorAccountAge{window: window}, nil
}

func (c *authorAccountAge) Kind() string { return "AUTHOR_ACCOUNT_AGE" }

func (c *authorAccountAge) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	actor := t.Actor()
	if actor == nil {
		return false, nil
	}
	created := actor.CreatedAt()
	if created.IsZero() {
		return false, nil
	}
	return c.window.matches(env.Now().UTC().Sub(created)), nil
}

type authorMemberFor struct {
	window ageWindow
}

func newAuthorMemberFor(opts Options) (Condition, error) {
	window, err := newAgeWindow(opts)
	if err != nil {
		return nil, err
	}
	return &authorMemberFor{window: window}, nil
}

func (c *authorMemberFor) Kind() string { return "AUTHOR_HAS_BEEN_MEMBER_FOR" }

func (c *authorMemberFor) Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error) {
	member, err := c.resolveMember(ctx, env, t)
	if err != nil || member == nil {
		return false, err
	}
	if member.JoinedAt.IsZero() {
		return false, nil
	}
	return c.window.matches(env.Now().UTC().Sub(member.JoinedAt)), nil
}

// resolveMember uses the trigger's member when present, falling back to a
// membership lookup for message and reaction triggers.
func (c *authorMemberFor) resolveMember(ctx context.Context, env *Env, t *trigger.Trigger) (*platform.Member, error) {
	if m := t.Member(); m != nil {
		return m, nil
	}
	actor := t.Actor()
	guildID := t.GuildID()
	if actor == nil || guildID == "" {
		return nil, nil
	}
	return env.Client.MemberOf(ctx, guildID, actor.ID)
}
