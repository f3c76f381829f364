package rules

import (
	"context"

	"go-chatmod/internal/audit"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"
)

// Action applies one side effect to the chat platform and may return an
// audit entry for the log channel. The entry (if any) is dispatched by
// the engine after Apply returns, before the next action runs.
type Action interface {
	Kind() string
	Apply(ctx context.Context, env *Env, t *trigger.Trigger) (*audit.Entry, error)
}

type actionFactory func(opts Options) (Action, error)

var actionFactories = map[string]actionFactory{
	"SEND_REPLY":          newSendReply,
	"DELETE_MESSAGE":      newDeleteMessage,
	"KICK_AUTHOR":         newKickAuthor,
	"ADD_ROLES_TO_AUTHOR": newAddRolesToAuthor,
	"ADD_REACTIONS":       newAddReactions,
	"LOG_MEMBER_JOINED":   newLogMemberJoined,
	"LOG_MEMBER_LEFT":     newLogMemberLeft,
	"LOG_MEMBER_UNBANNED": newLogMemberUnbanned,
	"LOG_CUSTOM":          newLogCustom,
}

// NewAction builds an action of the named kind from its raw options.
func NewAction(kind string, opts Options) (Action, error) {
	factory, ok := actionFactories[kind]
	if !ok {
		return nil, errs.Config("unknown action kind %q", kind)
	}
	action, err := factory(opts)
	if err != nil {
		return nil, errs.WrapConfig(err, "action %s", kind)
	}
	return action, nil
}
