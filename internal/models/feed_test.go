package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReactionAddsNewReaction(t *testing.T) {
	now := time.Now()

	reactions, added := ApplyReaction(nil, 1, "love", now)
	assert.True(t, added)
	require.Len(t, reactions, 1)
	assert.Equal(t, uint(1), reactions[0].UserID)
	assert.Equal(t, "love", reactions[0].Type)
	assert.Equal(t, "❤️", reactions[0].Emoji)
}

func TestApplyReactionSameTypeTogglesOff(t *testing.T) {
	now := time.Now()
	reactions, _ := ApplyReaction(nil, 1, "like", now)

	reactions, added := ApplyReaction(reactions, 1, "like", now)
	assert.False(t, added)
	assert.Empty(t, reactions)
}

func TestApplyReactionDifferentTypeReplaces(t *testing.T) {
	now := time.Now()
	reactions, _ := ApplyReaction(nil, 1, "like", now)

	reactions, added := ApplyReaction(reactions, 1, "sad", now)
	assert.True(t, added)
	require.Len(t, reactions, 1, "at most one active reaction per user")
	assert.Equal(t, "sad", reactions[0].Type)
}

func TestApplyReactionLeavesOtherUsersAlone(t *testing.T) {
	now := time.Now()
	reactions, _ := ApplyReaction(nil, 1, "like", now)
	reactions, _ = ApplyReaction(reactions, 2, "wow", now)

	reactions, added := ApplyReaction(reactions, 1, "like", now)
	assert.False(t, added)
	require.Len(t, reactions, 1)
	assert.Equal(t, uint(2), reactions[0].UserID)
}
