package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovement_DisplayNames(t *testing.T) {
	tests := []struct {
		name     string
		movement Movement
		expected []string
	}{
		{
			"no aliases",
			Movement{Name: "Back Squat"},
			[]string{"Back Squat"},
		},
		{
			"two aliases",
			Movement{Name: "Romanian Deadlift", AltNames: []string{"RDL", "Stiff-Leg Deadlift"}},
			[]string{"Romanian Deadlift", "RDL", "Stiff-Leg Deadlift"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.movement.DisplayNames())
		})
	}
}

func TestMovement_HasTag(t *testing.T) {
	m := Movement{Tags: []string{"Strength", "Lower Body"}}

	assert.True(t, m.HasTag("Strength"))
	assert.False(t, m.HasTag("strength"), "tag match is exact, not case-insensitive")
	assert.False(t, m.HasTag("Mobility"))
}

func TestMovement_RenameTag(t *testing.T) {
	m := Movement{Tags: []string{"Strength", "Lower Body", "Strength"}}

	changed := m.RenameTag("Strength", "Power")
	assert.True(t, changed)
	assert.Equal(t, []string{"Power", "Lower Body", "Power"}, m.Tags, "order preserved, all occurrences replaced")

	changed = m.RenameTag("Mobility", "Flexibility")
	assert.False(t, changed)
	assert.Equal(t, []string{"Power", "Lower Body", "Power"}, m.Tags)
}
