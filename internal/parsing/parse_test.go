package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-01-15 00:00:00", date(2023, 1, 15), true},
		{"2023-01-15 13:45:00", date(2023, 1, 15), true},
		{"2023-01-15", date(2023, 1, 15), true},
		{"15/01/2023", date(2023, 1, 15), true},
		{"15-01-2023", date(2023, 1, 15), true},
		{"150123", date(2023, 1, 15), true},
		{"150123.0", date(2023, 1, 15), true},
		{"10919", date(2019, 9, 1), true},
		{"0919", date(2019, 9, 1), true},
		{"123", date(2003, 2, 1), true},
		{" 2023-01-15 ", date(2023, 1, 15), true},
		{"300223", time.Time{}, false}, // 30 Feb
		{"NaN", time.Time{}, false},
		{"nan", time.Time{}, false},
		{"None", time.Time{}, false},
		{"NaT", time.Time{}, false},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"12", time.Time{}, false},
		{"1234567", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want TimeOfDay
		ok   bool
	}{
		{"830", TimeOfDay{8, 30}, true},
		{"0830.0", TimeOfDay{8, 30}, true},
		{"0830", TimeOfDay{8, 30}, true},
		{"5", TimeOfDay{0, 5}, true},
		{"1745.7", TimeOfDay{17, 45}, true},
		{"2359", TimeOfDay{23, 59}, true},
		{"08:30", TimeOfDay{8, 30}, true},
		{"08:30:15", TimeOfDay{8, 30}, true},
		{"2460", TimeOfDay{}, false},
		{"2500", TimeOfDay{}, false},
		{"12345", TimeOfDay{}, false},
		{"ab12", TimeOfDay{}, false},
		{"nan", TimeOfDay{}, false},
		{"", TimeOfDay{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "08:30:00", TimeOfDay{8, 30}.String())
}

func TestParseInt(t *testing.T) {
	n, ok := ParseInt("1,250")
	assert.True(t, ok)
	assert.Equal(t, int64(1250), n)

	n, ok = ParseInt("350.0")
	assert.True(t, ok)
	assert.Equal(t, int64(350), n)

	_, ok = ParseInt("FL350")
	assert.False(t, ok)

	_, ok = ParseInt("nan")
	assert.False(t, ok)
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2023-01-15 08:30:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 15, 8, 30, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp("15/01/2023 08:30")
	assert.False(t, ok)

	_, ok = ParseTimestamp("2023-01-15")
	assert.False(t, ok)
}

func TestParseString(t *testing.T) {
	s, ok := ParseString("  SCEL ")
	assert.True(t, ok)
	assert.Equal(t, "SCEL", s)

	_, ok = ParseString("None")
	assert.False(t, ok)
}
