package rules

import (
	"go-chatmod/internal/audit"
	"go-chatmod/internal/config"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"
)

// Rule binds one trigger type to an ordered list of conditions and an
// ordered list of actions, with optional audit-log overrides. Rules are
// immutable after compilation.
type Rule struct {
	Name          string
	Description   string
	Trigger       trigger.Type
	Conditions    []Condition
	Actions       []Action
	LogIcon       string
	LogColor      int
	LogChannelID  string
	NotifyRoleIDs []string
}

// Overrides exposes the rule's audit-log override layer.
func (r *Rule) Overrides() audit.Overrides {
	return audit.Overrides{
		Icon:          r.LogIcon,
		Color:         r.LogColor,
		ChannelID:     r.LogChannelID,
		NotifyRoleIDs: r.NotifyRoleIDs,
	}
}

// Compile validates one configured rule and constructs its conditions
// and actions. Any failure aborts the whole rule with a ConfigError.
func Compile(spec config.RuleSpec) (*Rule, error) {
	if spec.Name == "" {
		return nil, errs.Config("rule without a name")
	}

	kind, err := trigger.ParseType(spec.TriggerType)
	if err != nil {
		return nil, errs.WrapConfig(err, "rule %q", spec.Name)
	}

	r := &Rule{
		Name:          spec.Name,
		Description:   spec.Description,
		Trigger:       kind,
		LogIcon:       spec.LogIcon,
		LogColor:      audit.ColorUnset,
		LogChannelID:  spec.LogChannel,
		NotifyRoleIDs: spec.NotifyRoles,
	}

	if spec.LogColor != "" {
		color, err := audit.ColorFromHex(spec.LogColor)
		if err != nil {
			return nil, errs.WrapConfig(err, "rule %q", spec.Name)
		}
		r.LogColor = color
	}

	for _, raw := range spec.Conditions {
		kindName, opts, err := splitKind(raw)
		if err != nil {
			return nil, errs.WrapConfig(err, "rule %q condition", spec.Name)
		}
		cond, err := NewCondition(kindName, opts)
		if err != nil {
			return nil, errs.WrapConfig(err, "rule %q", spec.Name)
		}
		r.Conditions = append(r.Conditions, cond)
	}

	for _, raw := range spec.Actions {
		kindName, opts, err := splitKind(raw)
		if err != nil {
			return nil, errs.WrapConfig(err, "rule %q action", spec.Name)
		}
		action, err := NewAction(kindName, opts)
		if err != nil {
			return nil, errs.WrapConfig(err, "rule %q", spec.Name)
		}
		r.Actions = append(r.Actions, action)
	}

	return r, nil
}

// splitKind pops the "kind" key off a raw condition/action mapping.
func splitKind(raw map[string]interface{}) (string, Options, error) {
	kindValue, ok := raw["kind"]
	if !ok {
		return "", nil, errs.Config("missing \"kind\" key")
	}
	kind, ok := kindValue.(string)
	if !ok || kind == "" {
		return "", nil, errs.Config("\"kind\" must be a non-empty string")
	}
	opts := make(Options, len(raw)-1)
	for k, v := range raw {
		if k != "kind" {
			opts[k] = v
		}
	}
	return kind, opts, nil
}
