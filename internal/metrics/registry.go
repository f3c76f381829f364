package metrics

import "sync/atomic"

// Registry tracks engine-wide counters. All counters are monotonic and
// safe for concurrent use.
type Registry struct {
	EventsIngested     uint64
	EventsDropped      uint64
	RulesEvaluated     uint64
	RulesFired         uint64
	ConditionErrors    uint64
	ActionsApplied     uint64
	ActionsFailed      uint64
	TriggerBuildFailed uint64
	ChannelTransitions uint64
	PollsRun           uint64
	ConfigReloads      uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) inc(counter *uint64) {
	if r != nil {
		atomic.AddUint64(counter, 1)
	}
}

func (r *Registry) IncEventsIngested() { r.inc(&r.EventsIngested) }
func (r *Registry) IncEventsDropped() { r.inc(&r.EventsDropped) }
func (r *Registry) IncRulesEvaluated() { r.inc(&r.RulesEvaluated) }
func (r *Registry) IncRulesFired() { r.inc(&r.RulesFired) }
func (r *Registry) IncConditionErrors() { r.inc(&r.ConditionErrors) }
func (r *Registry) IncActionsApplied() { r.inc(&r.ActionsApplied) }
func (r *Registry) IncActionsFailed() { r.inc(&r.ActionsFailed) }
func (r *Registry) IncTriggerBuildFailed() { r.inc(&r.TriggerBuildFailed) }
func (r *Registry) IncChannelTransitions() { r.inc(&r.ChannelTransitions) }
func (r *Registry) IncPollsRun() { r.inc(&r.PollsRun) }
func (r *Registry) IncConfigReloads() { r.inc(&r.ConfigReloads) }

func (r *Registry) EventsDroppedCount() uint64 {
	return atomic.LoadUint64(&r.EventsDropped)
}

// Snapshot copies all counters for status reporting.
func (r *Registry) Snapshot() map[string]uint64 {
	if r == nil {
		return nil
	}
	return map[string]uint64{
		"events_ingested":      atomic.LoadUint64(&r.EventsIngested),
		"events_dropped":       atomic.LoadUint64(&r.EventsDropped),
		"rules_evaluated":      atomic.LoadUint64(&r.RulesEvaluated),
		"rules_fired":          atomic.LoadUint64(&r.RulesFired),
		"condition_errors":     atomic.LoadUint64(&r.ConditionErrors),
		"actions_applied":      atomic.LoadUint64(&r.ActionsApplied),
		"actions_failed":       atomic.LoadUint64(&r.ActionsFailed),
		"trigger_build_failed": atomic.LoadUint64(&r.TriggerBuildFailed),
		"channel_transitions":  atomic.LoadUint64(&r.ChannelTransitions),
		"polls_run":            atomic.LoadUint64(&r.PollsRun),
		"config_reloads":       atomic.LoadUint64(&r.ConfigReloads),
	}
}

var globalRegistry *Registry

func InitGlobalRegistry() {
	globalRegistry = NewRegistry()
}

func GetRegistry() *Registry {
	if globalRegistry == nil {
		InitGlobalRegistry()
	}
	return globalRegistry
}
