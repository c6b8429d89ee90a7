package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/heartlink-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryStore struct {
	mu      sync.Mutex
	records []*models.Notification
	err     error
}

func (m *memoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now()
	m.records = append(m.records, n)
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type staticTokens struct {
	tokens []string
	err    error
}

func (s staticTokens) GetPushTokens(userID uint) ([]string, error) { return s.tokens, s.err }

type pushCall struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

type recordingPusher struct {
	mu     sync.Mutex
	calls  []pushCall
	failed int
	err    error
}

func (p *recordingPusher) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{tokens: tokens, title: title, body: body, data: data})
	return p.failed, p.err
}

func (p *recordingPusher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestNotifyCreatesExactlyOneRecord(t *testing.T) {
	for _, tokens := range [][]string{nil, {"tok-1"}, {"tok-1", "tok-2", "tok-3"}} {
		store := &memoryStore{}
		pusher := &recordingPusher{}
		d := NewDispatcher(store, staticTokens{tokens: tokens}, pusher)

		actor := uint(3)
		record, err := d.Notify(context.Background(), 1, &actor, "hello", models.NotificationComment, nil)
		require.NoError(t, err)
		d.Wait()

		assert.Equal(t, 1, store.count(), "one record regardless of endpoint count")
		assert.False(t, record.IsRead)
		assert.False(t, record.CreatedAt.IsZero())
		assert.Equal(t, uint(1), record.RecipientID)

		if len(tokens) == 0 {
			assert.Equal(t, 0, pusher.callCount(), "no delivery without endpoints")
		} else {
			require.Equal(t, 1, pusher.callCount(), "one fan-out batch, not per-endpoint calls")
			assert.Equal(t, tokens, pusher.calls[0].tokens)
		}
	}
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(store, staticTokens{}, &recordingPusher{})

	_, err := d.Notify(context.Background(), 1, nil, "hello", "poke", nil)
	require.Error(t, err)
	assert.Equal(t, 0, store.count(), "no state mutated on validation error")
}

func TestNotifyStoreFailureIsFatal(t *testing.T) {
	store := &memoryStore{err: errors.New("write concern failed")}
	pusher := &recordingPusher{}
	d := NewDispatcher(store, staticTokens{tokens: []string{"tok-1"}}, pusher)

	_, err := d.Notify(context.Background(), 1, nil, "hello", models.NotificationEtc, nil)
	require.Error(t, err)
	d.Wait()
	assert.Equal(t, 0, pusher.callCount(), "no delivery attempted without a record")
}

func TestNotifySurvivesPartialDeliveryFailure(t *testing.T) {
	store := &memoryStore{}
	pusher := &recordingPusher{failed: 1}
	d := NewDispatcher(store, staticTokens{tokens: []string{"tok-1", "tok-2"}}, pusher)

	_, err := d.Notify(context.Background(), 1, nil, "hello", models.NotificationReaction, nil)
	require.NoError(t, err, "per-endpoint failures never surface")
	d.Wait()
	assert.Equal(t, 1, store.count(), "the record persists unchanged")
}

func TestNotifySurvivesTransportFailure(t *testing.T) {
	store := &memoryStore{}
	pusher := &recordingPusher{err: errors.New("fcm unreachable")}
	d := NewDispatcher(store, staticTokens{tokens: []string{"tok-1"}}, pusher)

	_, err := d.Notify(context.Background(), 1, nil, "hello", models.NotificationEtc, nil)
	require.NoError(t, err)
	d.Wait()
	assert.Equal(t, 1, store.count())
}

func TestNotifySurvivesTokenLookupFailure(t *testing.T) {
	store := &memoryStore{}
	pusher := &recordingPusher{}
	d := NewDispatcher(store, staticTokens{err: errors.New("db down")}, pusher)

	_, err := d.Notify(context.Background(), 1, nil, "hello", models.NotificationEtc, nil)
	require.NoError(t, err)
	d.Wait()
	assert.Equal(t, 1, store.count())
	assert.Equal(t, 0, pusher.callCount())
}

func TestDeliveryPayload(t *testing.T) {
	store := &memoryStore{}
	pusher := &recordingPusher{}
	d := NewDispatcher(store, staticTokens{tokens: []string{"tok-1"}}, pusher)

	actor := uint(42)
	record, err := d.Notify(context.Background(), 1, &actor, "새 댓글이 달렸어요", models.NotificationComment, &models.NotificationReference{FeedID: "feed-1", CommentID: "comment-1"})
	require.NoError(t, err)
	d.Wait()

	require.Equal(t, 1, pusher.callCount())
	call := pusher.calls[0]
	assert.Equal(t, "새로운 댓글", call.title)
	assert.Equal(t, "새 댓글이 달렸어요", call.body)
	assert.Equal(t, record.ID.Hex(), call.data["notificationId"])
	assert.Equal(t, models.NotificationComment, call.data["type"])
	assert.Equal(t, "42", call.data["triggeredBy"])
	assert.NotEmpty(t, call.data["createdAt"])
}

func TestSendLevelUpHasNoActor(t *testing.T) {
	store := &memoryStore{}
	pusher := &recordingPusher{}
	d := NewDispatcher(store, staticTokens{tokens: []string{"tok-1"}}, pusher)

	require.NoError(t, d.SendLevelUp(context.Background(), 9, 3))
	d.Wait()

	require.Equal(t, 1, store.count())
	record := store.records[0]
	assert.Nil(t, record.ActorID)
	assert.Equal(t, models.NotificationLevelUp, record.Type)
	assert.Equal(t, "레벨 업!", pusher.calls[0].title)
	assert.Equal(t, "", pusher.calls[0].data["triggeredBy"])
}

func TestNotifyDoesNotDeduplicate(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(store, staticTokens{}, &recordingPusher{})

	actor := uint(2)
	for i := 0; i < 2; i++ {
		_, err := d.Notify(context.Background(), 1, &actor, "same message", models.NotificationReaction, nil)
		require.NoError(t, err)
	}
	d.Wait()
	assert.Equal(t, 2, store.count(), "each call creates its own record")
}

func TestSendCommentReference(t *testing.T) {
	store := &memoryStore{}
	d := NewDispatcher(store, staticTokens{}, &recordingPusher{})

	require.NoError(t, d.SendComment(context.Background(), 1, 2, "철수", "feed-1", "comment-9"))
	d.Wait()

	require.Equal(t, 1, store.count())
	record := store.records[0]
	require.NotNil(t, record.ActorID)
	assert.Equal(t, uint(2), *record.ActorID)
	require.NotNil(t, record.Reference)
	assert.Equal(t, "feed-1", record.Reference.FeedID)
	assert.Equal(t, "comment-9", record.Reference.CommentID)
}
