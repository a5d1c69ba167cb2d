package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugin-resilience/internal/common/errors"
)

// ==========================
// Validate Tests
// ==========================

func TestValidate_FirstViolationRaisesValidationError(t *testing.T) {
	rules := []Rule{
		Pred(func(v interface{}) bool {
			n, _ := v.(int)
			return n > 0
		}, "must be positive"),
	}

	_, err := Validate(-5, rules, "age")
	require.Error(t, err)

	var pe *errors.PluginError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, errors.KindValidation, pe.Kind)
	assert.Equal(t, "age", pe.Field)
	assert.Equal(t, -5, pe.Value)
	assert.Equal(t, "must be positive", pe.Message)
	assert.False(t, pe.Recoverable)
}

func TestValidate_SuccessReturnsValueUnchanged(t *testing.T) {
	value, err := Validate("hello", []Rule{NonEmpty(), MinLength(3)}, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestValidate_RulesEvaluatedInOrder(t *testing.T) {
	evaluated := []string{}
	first := func(interface{}) string {
		evaluated = append(evaluated, "first")
		return "first failed"
	}
	second := func(interface{}) string {
		evaluated = append(evaluated, "second")
		return "second failed"
	}

	_, err := Validate("x", []Rule{first, second}, "field")
	require.Error(t, err)
	assert.Equal(t, []string{"first"}, evaluated)
	assert.Contains(t, err.Error(), "first failed")
}

func TestValidate_NoRulesPasses(t *testing.T) {
	value, err := Validate(42, nil, "anything")
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestPred_FalseWithoutMessageUsesGeneric(t *testing.T) {
	rule := Pred(func(interface{}) bool { return false }, "")
	assert.Equal(t, "value is invalid", rule("whatever"))
}

// ==========================
// Rule Library Tests
// ==========================

func TestRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		value    interface{}
		wantPass bool
	}{
		{name: "NonEmpty passes", rule: NonEmpty(), value: "x", wantPass: true},
		{name: "NonEmpty rejects empty", rule: NonEmpty(), value: "", wantPass: false},
		{name: "NonEmpty rejects non-string", rule: NonEmpty(), value: 7, wantPass: false},
		{name: "MinLength passes", rule: MinLength(3), value: "abc", wantPass: true},
		{name: "MinLength rejects short", rule: MinLength(3), value: "ab", wantPass: false},
		{name: "MaxLength passes", rule: MaxLength(3), value: "abc", wantPass: true},
		{name: "MaxLength rejects long", rule: MaxLength(3), value: "abcd", wantPass: false},
		{name: "Matches passes", rule: Matches(`^\d+$`), value: "123", wantPass: true},
		{name: "Matches rejects", rule: Matches(`^\d+$`), value: "12a", wantPass: false},
		{name: "Min passes int", rule: Min(1), value: 2, wantPass: true},
		{name: "Min passes float", rule: Min(1), value: 1.5, wantPass: true},
		{name: "Min rejects", rule: Min(1), value: 0, wantPass: false},
		{name: "Min rejects non-numeric", rule: Min(1), value: "2", wantPass: false},
		{name: "Max passes", rule: Max(10), value: 10, wantPass: true},
		{name: "Max rejects", rule: Max(10), value: 11, wantPass: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.rule(tt.value)
			if tt.wantPass {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

// ==========================
// Schema Rule Tests
// ==========================

func TestMatchesSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"title":    {"type": "string", "minLength": 1},
			"maxWords": {"type": "integer", "minimum": 1}
		},
		"required": ["title"]
	}`
	rule := MatchesSchema(schema)

	t.Run("valid document passes", func(t *testing.T) {
		msg := rule(map[string]interface{}{"title": "Draft", "maxWords": 500})
		assert.Empty(t, msg)
	})

	t.Run("missing required field fails", func(t *testing.T) {
		msg := rule(map[string]interface{}{"maxWords": 500})
		assert.Contains(t, msg, "title")
	})

	t.Run("wrong type fails", func(t *testing.T) {
		msg := rule(map[string]interface{}{"title": "Draft", "maxWords": "many"})
		assert.NotEmpty(t, msg)
	})

	t.Run("violation raises typed validation error through Validate", func(t *testing.T) {
		_, err := Validate(map[string]interface{}{}, []Rule{rule}, "request")
		require.Error(t, err)
		var pe *errors.PluginError
		require.True(t, stderrors.As(err, &pe))
		assert.Equal(t, "request", pe.Field)
		assert.False(t, pe.Recoverable)
	})
}
