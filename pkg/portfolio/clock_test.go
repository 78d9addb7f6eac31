package portfolio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func TestMonotonicClock(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 1500, time.UTC) // 1.5µs past the second
	readings := []time.Time{base, base, base.Add(-time.Hour), base.Add(time.Second)}
	i := 0
	clock := portfolio.NewMonotonicClock(portfolio.ClockFunc(func() time.Time {
		r := readings[i]
		i++
		return r
	}))

	first := clock.Now()
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 2000, time.UTC).Equal(first), "rounded up to the microsecond")

	second := clock.Now()
	assert.True(t, first.Add(time.Microsecond).Equal(second))

	third := clock.Now()
	assert.True(t, second.Add(time.Microsecond).Equal(third), "clock going backwards still advances")

	fourth := clock.Now()
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 1, 2000, time.UTC).Equal(fourth))
}

func TestMonotonicClock_NeverEarlierThanSource(t *testing.T) {
	clock := portfolio.NewMonotonicClock(nil)
	for i := 0; i < 1000; i++ {
		before := time.Now()
		got := clock.Now()
		assert.False(t, got.Before(before))
	}
}
