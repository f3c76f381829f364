package rules

import (
	"context"

	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"
)

// Condition is a pure predicate over a trigger. Implementations are
// constructed once at load time and are immutable afterwards; Check may
// be called concurrently for different triggers.
type Condition interface {
	Kind() string
	Check(ctx context.Context, env *Env, t *trigger.Trigger) (bool, error)
}

type conditionFactory func(opts Options) (Condition, error)

// conditionFactories is the closed dispatch table of condition kinds.
var conditionFactories = map[string]conditionFactory{
	"MESSAGE_IS_EXACTLY":              newMessageIsExactly,
	"MESSAGE_STARTS_WITH":             newMessageStartsWith,
	"MESSAGE_CONTAINS":                newMessageContains,
	"MESSAGE_CONTAINS_ANY_OF":         newMessageContainsAnyOf,
	"MESSAGE_HAS_EMBED":               newMessageHasEmbed,
	"MESSAGE_HAS_ATTACHMENT":          newMessageHasAttachment,
	"MESSAGE_HAS_EMBED_OR_ATTACHMENT": newMessageHasEmbedOrAttachment,
	"MESSAGE_CONTAINS_EXTERNAL_MEDIA": newMessageExternalMedia,
	"REACTION_MATCHES":                newReactionMatches,
	"AUTHOR_IS_NOT_SELF":              newAuthorIsNotSelf,
	"AUTHOR_ACCOUNT_AGE":              newAuthorAccountAge,
	"AUTHOR_HAS_BEEN_MEMBER_FOR":      newAuthorMemberFor,
}

// NewCondition builds a condition of the named kind from its raw options.
func NewCondition(kind string, opts Options) (Condition, error) {
	factory, ok := conditionFactories[kind]
	if !ok {
		return nil, errs.Config("unknown condition kind %q", kind)
	}
	cond, err := factory(opts)
	if err != nil {
		return nil, errs.WrapConfig(err, "condition %s", kind)
	}
	return cond, nil
}
