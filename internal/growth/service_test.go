package growth_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/heartlink-app/backend/internal/growth"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCompanionStore struct {
	companion models.Companion
	incErr    error
	raised    []int
}

func (f *fakeCompanionStore) IncrementActivity(ctx context.Context, ownerID uint, kind models.ActivityKind) (*models.Companion, error) {
	if f.incErr != nil {
		return nil, f.incErr
	}
	switch kind {
	case models.ActivityPost:
		f.companion.PostCount++
	case models.ActivityComment:
		f.companion.CommentCount++
	default:
		return nil, fmt.Errorf("unknown activity kind: %s", kind)
	}
	snapshot := f.companion // level still holds the pre-update value
	return &snapshot, nil
}

func (f *fakeCompanionStore) RaiseLevel(ctx context.Context, ownerID uint, level int) error {
	f.raised = append(f.raised, level)
	if level > f.companion.Level {
		f.companion.Level = level
	}
	return nil
}

type fakeNotifier struct {
	levelUps []int
	err      error
}

func (f *fakeNotifier) SendLevelUp(ctx context.Context, recipientID uint, newLevel int) error {
	f.levelUps = append(f.levelUps, newLevel)
	return f.err
}

func TestRecordActivityLevelUp(t *testing.T) {
	// Score 9 (4 posts, 1 comment) at level 1; one more comment crosses the
	// level-2 threshold.
	store := &fakeCompanionStore{companion: models.Companion{OwnerID: 7, Level: 1, PostCount: 4, CommentCount: 1}}
	notifier := &fakeNotifier{}
	svc := growth.NewService(store, notifier)

	result, err := svc.RecordActivity(context.Background(), 7, models.ActivityComment)
	require.NoError(t, err)

	assert.Equal(t, 4, result.PostCount)
	assert.Equal(t, 2, result.CommentCount)
	assert.Equal(t, 1, result.PrevLevel)
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.HasLeveledUp)
	assert.Equal(t, float64(0), result.Progress)

	assert.Equal(t, []int{2}, store.raised)
	assert.Equal(t, []int{2}, notifier.levelUps)
}

func TestRecordActivityNoTransition(t *testing.T) {
	store := &fakeCompanionStore{companion: models.Companion{OwnerID: 7, Level: 1}}
	notifier := &fakeNotifier{}
	svc := growth.NewService(store, notifier)

	result, err := svc.RecordActivity(context.Background(), 7, models.ActivityPost)
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewLevel)
	assert.False(t, result.HasLeveledUp)
	assert.InDelta(t, 20, result.Progress, 0.001) // score 2 of 10
	assert.Empty(t, store.raised)
	assert.Empty(t, notifier.levelUps)
}

func TestRecordActivityNotifierFailureDoesNotFail(t *testing.T) {
	store := &fakeCompanionStore{companion: models.Companion{OwnerID: 7, Level: 1, PostCount: 4, CommentCount: 1}}
	notifier := &fakeNotifier{err: errors.New("push service down")}
	svc := growth.NewService(store, notifier)

	result, err := svc.RecordActivity(context.Background(), 7, models.ActivityComment)
	require.NoError(t, err, "a failed notification is not a failed activity")
	assert.True(t, result.HasLeveledUp)
	assert.Equal(t, []int{2}, store.raised, "level persists even when notify fails")
}

func TestRecordActivityIncrementFailureIsFatal(t *testing.T) {
	store := &fakeCompanionStore{incErr: errors.New("connection reset")}
	notifier := &fakeNotifier{}
	svc := growth.NewService(store, notifier)

	_, err := svc.RecordActivity(context.Background(), 7, models.ActivityPost)
	require.Error(t, err)
	assert.Empty(t, notifier.levelUps, "no notification without a counter write")
}

// --- integration with the real dispatcher ---

type memoryNotificationStore struct {
	mu      sync.Mutex
	records []*models.Notification
}

func (m *memoryNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now()
	m.records = append(m.records, n)
	return nil
}

type noTokens struct{}

func (noTokens) GetPushTokens(userID uint) ([]string, error) { return nil, nil }

type noopPusher struct{}

func (noopPusher) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	return 0, nil
}

func TestLevelUpCreatesSystemNotification(t *testing.T) {
	store := &fakeCompanionStore{companion: models.Companion{OwnerID: 7, Level: 1, PostCount: 4, CommentCount: 1}}
	notifications := &memoryNotificationStore{}
	dispatcher := notify.NewDispatcher(notifications, noTokens{}, noopPusher{})
	svc := growth.NewService(store, dispatcher)

	result, err := svc.RecordActivity(context.Background(), 7, models.ActivityComment)
	require.NoError(t, err)
	require.True(t, result.HasLeveledUp)
	dispatcher.Wait()

	require.Len(t, notifications.records, 1)
	record := notifications.records[0]
	assert.Equal(t, uint(7), record.RecipientID)
	assert.Equal(t, models.NotificationLevelUp, record.Type)
	assert.Nil(t, record.ActorID, "level-up is system-originated")
	assert.False(t, record.IsRead)
}
