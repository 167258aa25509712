package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/orgkit/orgkit/internal/policy"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestWithinWindow_NoBounds(t *testing.T) {
	assert.True(t, policy.WithinWindow(nil, nil, ts("2026-01-15T12:00:00Z")))
}

func TestWithinWindow_InsideBothBounds(t *testing.T) {
	start := tsp("2026-01-01T00:00:00Z")
	end := tsp("2026-02-01T00:00:00Z")

	assert.True(t, policy.WithinWindow(start, end, ts("2026-01-15T12:00:00Z")))
}

func TestWithinWindow_BoundsInclusive(t *testing.T) {
	start := tsp("2026-01-01T00:00:00Z")
	end := tsp("2026-02-01T00:00:00Z")

	assert.True(t, policy.WithinWindow(start, end, *start), "now equal to start is active")
	assert.True(t, policy.WithinWindow(start, end, *end), "now equal to end is active")
}

func TestWithinWindow_BeforeStart(t *testing.T) {
	start := tsp("2026-01-01T00:00:00Z")

	assert.False(t, policy.WithinWindow(start, nil, ts("2025-12-31T23:59:59Z")))
}

func TestWithinWindow_AfterEnd(t *testing.T) {
	end := tsp("2026-02-01T00:00:00Z")

	assert.False(t, policy.WithinWindow(nil, end, ts("2026-02-01T00:00:01Z")))
}

func TestWithinWindow_OnlyStart(t *testing.T) {
	start := tsp("2026-01-01T00:00:00Z")

	assert.True(t, policy.WithinWindow(start, nil, ts("2030-01-01T00:00:00Z")), "no end bound means active forever after start")
}

func TestWithinWindow_OnlyEnd(t *testing.T) {
	end := tsp("2026-02-01T00:00:00Z")

	assert.True(t, policy.WithinWindow(nil, end, ts("2020-01-01T00:00:00Z")), "no start bound means active since always")
}
