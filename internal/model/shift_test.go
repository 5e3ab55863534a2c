package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeActualHours(t *testing.T) {
	tests := []struct {
		name       string
		startTime  string
		endTime    string
		breakHours float64
		expected   float64
	}{
		{"full day with lunch break", "09:00", "18:00", 1.5, 7.5},
		{"morning half day", "09:00", "13:00", 0.5, 3.5},
		{"evening half day", "14:00", "18:00", 0.5, 3.5},
		{"overnight shift wraps midnight", "22:00", "06:00", 0, 8.0},
		{"overnight with break", "22:00", "06:00", 1.0, 7.0},
		{"no break", "10:00", "16:00", 0, 6.0},
		{"minute precision", "09:15", "17:45", 1.0, 7.5},
		{"break exceeds span clamps to zero", "09:00", "10:00", 2.0, 0},
		{"zero-length shift", "09:00", "09:00", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ComputeActualHours(tt.startTime, tt.endTime, tt.breakHours), 0.001)
		})
	}
}

func TestTimeToMinutes(t *testing.T) {
	assert.Equal(t, 0, TimeToMinutes("00:00"))
	assert.Equal(t, 570, TimeToMinutes("09:30"))
	assert.Equal(t, 1439, TimeToMinutes("23:59"))
	assert.Equal(t, 0, TimeToMinutes("not-a-time"))
}

func TestPresetFor(t *testing.T) {
	morning, ok := PresetFor(ShiftTypeMorning)
	assert.True(t, ok)
	assert.Equal(t, "09:00", morning.StartTime)
	assert.Equal(t, "13:00", morning.EndTime)
	assert.Equal(t, 0.5, morning.BreakHours)

	evening, ok := PresetFor(ShiftTypeEvening)
	assert.True(t, ok)
	assert.Equal(t, "14:00", evening.StartTime)
	assert.Equal(t, "18:00", evening.EndTime)
	assert.Equal(t, 0.5, evening.BreakHours)

	full, ok := PresetFor(ShiftTypeFull)
	assert.True(t, ok)
	assert.Equal(t, "09:00", full.StartTime)
	assert.Equal(t, "18:00", full.EndTime)
	assert.Equal(t, 1.5, full.BreakHours)

	_, ok = PresetFor(ShiftType("night"))
	assert.False(t, ok)
}

func TestPresetHoursMatchComputed(t *testing.T) {
	for _, typ := range []ShiftType{ShiftTypeMorning, ShiftTypeEvening, ShiftTypeFull} {
		preset, _ := PresetFor(typ)
		hours := ComputeActualHours(preset.StartTime, preset.EndTime, preset.BreakHours)
		switch typ {
		case ShiftTypeFull:
			assert.InDelta(t, 7.5, hours, 0.001)
		default:
			assert.InDelta(t, 3.5, hours, 0.001)
		}
	}
}
