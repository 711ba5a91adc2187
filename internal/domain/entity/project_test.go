package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplexityPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level     Complexity
		functions int
		pins      int
	}{
		{ComplexitySimple, 3, 5},
		{ComplexityMedium, 5, 8},
		{ComplexityComplex, 7, 12},
	}
	for _, tc := range cases {
		assert.True(t, tc.level.Valid())
		assert.Equal(t, tc.functions, tc.level.FunctionCount(), "level %s", tc.level)
		assert.Equal(t, tc.pins, tc.level.MinPinCount(), "level %s", tc.level)
	}

	assert.False(t, Complexity("超难").Valid())
	assert.False(t, Complexity("").Valid())
}

func TestKnownModules(t *testing.T) {
	t.Parallel()

	modules := KnownModules()
	assert.Len(t, modules, 8)
	for _, m := range modules {
		assert.True(t, IsKnownModule(m))
	}
	assert.False(t, IsKnownModule("蜂鸣器"))
	assert.False(t, IsKnownModule(""))
}

func TestProjectParametersHasModule(t *testing.T) {
	t.Parallel()

	p := ProjectParameters{Modules: []string{ModuleMotor, ModuleDisplay}}
	assert.True(t, p.HasModule(ModuleMotor))
	assert.True(t, p.HasModule(ModuleDisplay))
	assert.False(t, p.HasModule(ModuleSensor))
}
