package types_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/cos/pkg/types"
)

func TestTimeOfDayAt(t *testing.T) {
	day := func(h int) time.Time { return time.Date(2025, 3, 3, h, 30, 0, 0, time.UTC) }
	tests := []struct {
		hour int
		want types.TimeOfDay
	}{
		{0, types.Morning},
		{11, types.Morning},
		{12, types.Afternoon},
		{16, types.Afternoon},
		{17, types.Evening},
		{20, types.Evening},
		{21, types.Night},
		{23, types.Night},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, types.TimeOfDayAt(day(tt.hour)), "hour %d", tt.hour)
	}
}

func TestEnvironmentAt_Weekend(t *testing.T) {
	saturday := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	env := types.EnvironmentAt(saturday)
	assert.True(t, env.IsWeekend)
	assert.Equal(t, "Saturday", env.DayOfWeek)

	monday := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	assert.False(t, types.EnvironmentAt(monday).IsWeekend)
}

func TestPushInput_NewestFirstBounded(t *testing.T) {
	c := types.NewContextData(time.Now())
	for i := 0; i < 15; i++ {
		c.PushInput(fmt.Sprintf("input %d", i))
	}
	require.Len(t, c.RecentInputs, types.MaxRecentInputs)
	assert.Equal(t, "input 14", c.RecentInputs[0])
	assert.Equal(t, "input 5", c.RecentInputs[9])
}

func TestAddTopics_DedupAndCap(t *testing.T) {
	c := types.NewContextData(time.Now())
	c.AddTopics("react", "react", "api")
	assert.Equal(t, []string{"react", "api"}, c.UserPatterns.CommonTopics)

	for i := 0; i < 30; i++ {
		c.AddTopics(fmt.Sprintf("topic-%d", i))
		assert.LessOrEqual(t, len(c.UserPatterns.CommonTopics), types.MaxCommonTopics)
	}
	assert.Equal(t, "react", c.UserPatterns.CommonTopics[0], "truncation keeps the earliest topics")
	assert.NotContains(t, c.UserPatterns.CommonTopics, "topic-29")
}

func TestContextData_CloneIsDeep(t *testing.T) {
	c := types.NewContextData(time.Now())
	c.PushInput("one")
	c.AddTopics("api")

	clone := c.Clone()
	clone.RecentInputs[0] = "changed"
	clone.UserPatterns.CommonTopics[0] = "changed"

	assert.Equal(t, "one", c.RecentInputs[0])
	assert.Equal(t, "api", c.UserPatterns.CommonTopics[0])
}

func TestContextData_Normalize(t *testing.T) {
	var c types.ContextData
	c.Normalize()
	assert.NotNil(t, c.RecentInputs)
	assert.NotNil(t, c.UserPatterns.CommonTopics)
	assert.Equal(t, types.CategoryGeneral, c.CurrentSession.DominantCategory)
}
