package rules

import (
	"context"

	"go-chatmod/internal/audit"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"
)

// The LOG_* family has no chat side effect; each produces only an audit
// entry describing the triggering event.

type logMember struct {
	kind   string
	phrase string
}

func (a *logMember) Kind() string { return a.kind }

func (a *logMember) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	member := t.Member()
	if member == nil || member.User == nil {
		return nil, errs.Resolve("%s requires a member trigger", a.kind)
	}
	entry := audit.NewEntry(member.Mention() + " " + a.phrase)
	entry.Fields = userFields(member.User)
	return entry, nil
}

func newLogMemberJoined(opts Options) (Action, error) {
	return &logMember{kind: "LOG_MEMBER_JOINED", phrase: "joined."}, nil
}

func newLogMemberLeft(opts Options) (Action, error) {
	return &logMember{kind: "LOG_MEMBER_LEFT", phrase: "left."}, nil
}

func newLogMemberUnbanned(opts Options) (Action, error) {
	return &logMember{kind: "LOG_MEMBER_UNBANNED", phrase: "was unbanned."}, nil
}

type logCustom struct {
	content string
}

func newLogCustom(opts Options) (Action, error) {
	content, err := opts.RequireString("content")
	if err != nil {
		return nil, err
	}
	return &logCustom{content: content}, nil
}

func (a *logCustom) Kind() string { return "LOG_CUSTOM" }

func (a *logCustom) Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error) {
	return audit.NewEntry(audit.RenderTemplate(a.content, t)), nil
}
