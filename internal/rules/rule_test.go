package rules

import (
	"testing"

	"go-chatmod/internal/config"
	"go-chatmod/internal/errs"
	"go-chatmod/internal/trigger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFullRule(t *testing.T) {
	spec := config.RuleSpec{
		Name:        "no-links",
		Description: "Deletes messages with links.",
		TriggerType: "MESSAGE_SENT",
		Conditions: []map[string]interface{}{
			{"kind": "MESSAGE_CONTAINS", "content": "http"},
		},
		Actions: []map[string]interface{}{
			{"kind": "DELETE_MESSAGE"},
			{"kind": "SEND_REPLY", "content": "no links please"},
		},
		LogColor: "#FF0000",
	}

	rule, err := Compile(spec)
	require.NoError(t, err)
	assert.Equal(t, "no-links", rule.Name)
	assert.Equal(t, trigger.MessageSent, rule.Trigger)
	require.Len(t, rule.Conditions, 1)
	require.Len(t, rule.Actions, 2)
	assert.Equal(t, "DELETE_MESSAGE", rule.Actions[0].Kind())
	assert.Equal(t, 0xFF0000, rule.LogColor)
}

func TestCompileRejectsMissingName(t *testing.T) {
	_, err := Compile(config.RuleSpec{TriggerType: "MESSAGE_SENT"})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestCompileRejectsUnknownTrigger(t *testing.T) {
	_, err := Compile(config.RuleSpec{Name: "r", TriggerType: "MESSAGE_SNIFFED"})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestCompileRejectsConditionWithoutKind(t *testing.T) {
	_, err := Compile(config.RuleSpec{
		Name:        "r",
		TriggerType: "MESSAGE_SENT",
		Conditions:  []map[string]interface{}{{"content": "x"}},
	})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestCompileRejectsBadColor(t *testing.T) {
	_, err := Compile(config.RuleSpec{
		Name:        "r",
		TriggerType: "MESSAGE_SENT",
		LogColor:    "reddish",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestIndexRejectsDuplicateNames(t *testing.T) {
	index := NewIndex()
	require.NoError(t, index.Add(&Rule{Name: "dup", Trigger: trigger.MessageSent}))

	err := index.Add(&Rule{Name: "dup", Trigger: trigger.MemberJoined})
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
	assert.Equal(t, 1, index.Len())
}

func TestIndexForTriggerPreservesOrder(t *testing.T) {
	index := NewIndex()
	require.NoError(t, index.Add(&Rule{Name: "a", Trigger: trigger.MessageSent}))
	require.NoError(t, index.Add(&Rule{Name: "b", Trigger: trigger.MemberJoined}))
	require.NoError(t, index.Add(&Rule{Name: "c", Trigger: trigger.MessageSent}))

	msgRules := index.ForTrigger(trigger.MessageSent)
	require.Len(t, msgRules, 2)
	assert.Equal(t, "a", msgRules[0].Name)
	assert.Equal(t, "c", msgRules[1].Name)
	assert.Empty(t, index.ForTrigger(trigger.MemberBanned))
}
