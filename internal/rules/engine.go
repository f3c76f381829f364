package rules

import (
	"context"

	"go-chatmod/internal/audit"
	"go-chatmod/internal/logging"
	"go-chatmod/internal/metrics"
	"go-chatmod/internal/trigger"
)

// TriggerBuilder constructs the trigger view for one rule. Construction
// failures skip that rule only.
type TriggerBuilder func() (*trigger.Trigger, error)

// Engine evaluates one guild's rules against incoming events.
type Engine struct {
	env        *Env
	index      *Index
	opts       audit.Options
	dispatcher *audit.Dispatcher
	registry   *metrics.Registry
}

func NewEngine(env *Env, index *Index, opts audit.Options) *Engine {
	return &Engine{
		env:        env,
		index:      index,
		opts:       opts,
		dispatcher: audit.NewDispatcher(env.Client),
		registry:   metrics.GetRegistry(),
	}
}

func (e *Engine) Index() *Index {
	return e.index
}

// Dispatch runs every rule bound to the trigger type, in registration
// order. Each rule gets its own trigger view; a view that fails to build
// skips that rule.
func (e *Engine) Dispatch(ctx context.Context, kind trigger.Type, build TriggerBuilder) {
	for _, r := range e.index.ForTrigger(kind) {
		t, err := build()
		if err != nil {
			e.registry.IncTriggerBuildFailed()
			logging.Warn("rule %q: trigger construction failed: %v", r.Name, err)
			continue
		}
		e.run(ctx, r, t)
	}
}

// run evaluates conditions in order, short-circuiting on the first false,
// then applies actions in order. Each action and its audit entry complete
// before the next action begins.
func (e *Engine) run(ctx context.Context, r *Rule, t *trigger.Trigger) {
	e.registry.IncRulesEvaluated()

	for _, c := range r.Conditions {
		ok, err := c.Check(ctx, e.env, t)
		if err != nil {
			// A failing condition is treated as false.
			e.registry.IncConditionErrors()
			logging.Debug("rule %q: condition %s errored: %v", r.Name, c.Kind(), err)
			return
		}
		if !ok {
			return
		}
	}

	e.registry.IncRulesFired()

	for _, a := range r.Actions {
		entry, err := a.Apply(ctx, e.env, t)
		if err != nil {
			// Action failures do not abort the remaining actions.
			e.registry.IncActionsFailed()
			logging.Warn("rule %q: action %s failed: %v", r.Name, a.Kind(), err)
		} else {
			e.registry.IncActionsApplied()
		}
		if entry == nil {
			continue
		}
		if entry.Title == "" {
			entry.Title = r.Name
		}
		entry.Resolve(r.Overrides(), e.opts)
		if err := e.dispatcher.Send(ctx, entry, e.opts.CompactLogs); err != nil {
			logging.Warn("rule %q: audit entry not delivered: %v", r.Name, err)
		}
	}
}
