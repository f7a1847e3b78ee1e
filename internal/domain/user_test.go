package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_AccessState(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}
	cases := []struct {
		name string
		user User
		want AccessState
	}{
		{"no period", User{}, AccessNone},
		{"start only", User{AccessFrom: at(-time.Hour)}, AccessNone},
		{"open start", User{AccessUntil: at(time.Hour)}, AccessActive},
		{"inside", User{AccessFrom: at(-time.Hour), AccessUntil: at(time.Hour)}, AccessActive},
		{"not started", User{AccessFrom: at(time.Hour), AccessUntil: at(2 * time.Hour)}, AccessPending},
		{"ended", User{AccessFrom: at(-2 * time.Hour), AccessUntil: at(-time.Hour)}, AccessExpired},
		{"last instant", User{AccessUntil: at(0)}, AccessActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.AccessState(now))
		})
	}
}
