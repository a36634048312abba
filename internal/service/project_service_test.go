package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

func charterEntries(positions ...int) []model.CharterEntry {
	entries := make([]model.CharterEntry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, model.CharterEntry{
			ProjectID: 1,
			Position:  p,
			Question:  "q",
			Answer:    "a",
		})
	}
	return entries
}

// Shape violations are rejected before the repository is touched, so a nil
// repo is safe here.
func TestSubmitCharterShape(t *testing.T) {
	s := NewProjectService(nil, nil, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name    string
		entries []model.CharterEntry
	}{
		{name: "too few entries", entries: charterEntries(0, 1, 2, 3)},
		{name: "too many entries", entries: charterEntries(0, 1, 2, 3, 4, 5)},
		{name: "duplicate position", entries: charterEntries(0, 1, 2, 3, 3)},
		{name: "position out of range", entries: charterEntries(0, 1, 2, 3, 7)},
		{name: "negative position", entries: charterEntries(-1, 1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SubmitCharter(ctx, 1, tt.entries)
			assert.ErrorIs(t, err, ErrBadCharterShape)
		})
	}
}
