package growth

import (
	"context"
	"log"

	"github.com/heartlink-app/backend/internal/models"
)

// CompanionStore is the slice of the companion repository the service needs
type CompanionStore interface {
	IncrementActivity(ctx context.Context, ownerID uint, kind models.ActivityKind) (*models.Companion, error)
	RaiseLevel(ctx context.Context, ownerID uint, level int) error
}

// LevelUpNotifier delivers the level-up notification after a transition
type LevelUpNotifier interface {
	SendLevelUp(ctx context.Context, recipientID uint, newLevel int) error
}

// ActivityResult reports the outcome of recording one qualifying action
type ActivityResult struct {
	PostCount    int     `json:"post_count"`
	CommentCount int     `json:"comment_count"`
	PrevLevel    int     `json:"previous_level"`
	NewLevel     int     `json:"new_level"`
	HasLeveledUp bool    `json:"has_leveled_up"`
	Progress     float64 `json:"next_level_progress"`
}

// Service is the growth engine entry point used by the feed and comment
// handlers. Constructed once at startup and passed by reference.
type Service struct {
	companions CompanionStore
	notifier   LevelUpNotifier
}

// NewService creates a new growth Service
func NewService(companions CompanionStore, notifier LevelUpNotifier) *Service {
	return &Service{companions: companions, notifier: notifier}
}

// RecordActivity bumps the owner's counter for the given kind, recomputes the
// companion level and persists it, and on a level transition sends a level_up
// notification addressed to the owner. The counter increment is atomic per
// companion; the notification is best-effort and never rolls back or fails
// the counter/level persistence.
func (s *Service) RecordActivity(ctx context.Context, ownerID uint, kind models.ActivityKind) (*ActivityResult, error) {
	companion, err := s.companions.IncrementActivity(ctx, ownerID, kind)
	if err != nil {
		return nil, err
	}

	// The document comes back with counters after the increment and the
	// level as it stood before this update.
	previousLevel := companion.Level
	score := Score(companion.PostCount, companion.CommentCount)
	newLevel := LevelForScore(score)
	hasLeveledUp := newLevel > previousLevel

	if hasLeveledUp {
		if err := s.companions.RaiseLevel(ctx, ownerID, newLevel); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			if err := s.notifier.SendLevelUp(ctx, ownerID, newLevel); err != nil {
				// Level is already persisted; a failed notification is an
				// accepted terminal state, not a reason to fail the request.
				log.Printf("level-up notification failed for user %d: %v", ownerID, err)
			}
		}
	}

	return &ActivityResult{
		PostCount:    companion.PostCount,
		CommentCount: companion.CommentCount,
		PrevLevel:    previousLevel,
		NewLevel:     newLevel,
		HasLeveledUp: hasLeveledUp,
		Progress:     Progress(score, newLevel),
	}, nil
}
