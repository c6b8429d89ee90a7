// Package notify persists notification records and fans them out to the
// recipient's registered push endpoints.
package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/heartlink-app/backend/internal/models"
)

// defaultPushTimeout bounds a single push-delivery attempt
const defaultPushTimeout = 5 * time.Second

// Store is the slice of the notification repository the dispatcher needs
type Store interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// TokenSource looks up the recipient's registered push tokens
type TokenSource interface {
	GetPushTokens(userID uint) ([]string, error)
}

// Pusher submits one multicast delivery batch to the push collaborator.
// It reports how many tokens failed; per-token failures do not raise.
type Pusher interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (failed int, err error)
}

// pushTitles maps a notification type to the push title shown on devices
var pushTitles = map[string]string{
	models.NotificationFriendRequest: "새로운 친구 요청",
	models.NotificationComment:       "새로운 댓글",
	models.NotificationLevelUp:       "레벨 업!",
	models.NotificationReaction:      "새로운 리액션",
	models.NotificationEtc:           "새로운 알림",
}

// levelUpMessages holds the level-up notification body per reached level
var levelUpMessages = map[int]string{
	2: "우와! 레벨 2가 되었어요! 조금씩 말도 늘어나고 있어요!",
	3: "축하해요! 레벨 3으로 성장했어요! 이제 더 많은 대화를 나눌 수 있어요!",
	4: "레벨 4까지 성장했어요! 정말 자랑스러워요!",
	5: "드디어 최고 레벨 5에 도달했어요! 여기까지 함께해주셔서 감사해요!",
}

// Dispatcher durably records notifications and best-effort delivers them to
// every registered push endpoint of the recipient. Constructed once at
// startup and shared by the handlers and the growth service.
type Dispatcher struct {
	store       Store
	tokens      TokenSource
	pusher      Pusher
	pushTimeout time.Duration
	inflight    sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(store Store, tokens TokenSource, pusher Pusher) *Dispatcher {
	return &Dispatcher{
		store:       store,
		tokens:      tokens,
		pusher:      pusher,
		pushTimeout: defaultPushTimeout,
	}
}

// Notify persists a new unread notification and schedules push delivery.
// Only the record insert can fail the call: push delivery runs detached with
// its own timeout, and its errors are logged and swallowed. Every call
// creates exactly one record; the dispatcher never deduplicates, and
// suppressing self-triggered notifications is the caller's responsibility.
func (d *Dispatcher) Notify(ctx context.Context, recipientID uint, actorID *uint, message, notifType string, reference *models.NotificationReference) (*models.Notification, error) {
	if !models.ValidNotificationType(notifType) {
		return nil, fmt.Errorf("invalid notification type: %s", notifType)
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Message:     message,
		Type:        notifType,
		Reference:   reference,
	}

	if err := d.store.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	// Delivery is detached from the request lifecycle: the record write
	// above is the response-gating operation.
	d.inflight.Add(1)
	go d.deliver(notification)

	return notification, nil
}

// deliver fans the notification out to all of the recipient's push tokens as
// one multicast batch. All failures end here.
func (d *Dispatcher) deliver(notification *models.Notification) {
	defer d.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.pushTimeout)
	defer cancel()

	tokens, err := d.tokens.GetPushTokens(notification.RecipientID)
	if err != nil {
		log.Printf("push token lookup failed for user %d: %v", notification.RecipientID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	triggeredBy := ""
	if notification.ActorID != nil {
		triggeredBy = strconv.FormatUint(uint64(*notification.ActorID), 10)
	}

	data := map[string]string{
		"notificationId": notification.ID.Hex(),
		"type":           notification.Type,
		"triggeredBy":    triggeredBy,
		"createdAt":      notification.CreatedAt.Format(time.RFC3339),
	}

	failed, err := d.pusher.SendMulticast(ctx, tokens, pushTitles[notification.Type], notification.Message, data)
	if err != nil {
		log.Printf("push delivery failed for notification %s: %v", notification.ID.Hex(), err)
		return
	}
	if failed > 0 {
		log.Printf("push delivery: %d/%d tokens failed for notification %s", failed, len(tokens), notification.ID.Hex())
	}
}

// Wait blocks until all in-flight push deliveries have finished. Called on
// shutdown to drain detached sends.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// SendLevelUp notifies a user that their companion reached a new level.
// System-originated: the notification carries no actor.
func (d *Dispatcher) SendLevelUp(ctx context.Context, recipientID uint, newLevel int) error {
	message, ok := levelUpMessages[newLevel]
	if !ok {
		message = fmt.Sprintf("클로이가 레벨 %d(으)로 성장했어요!", newLevel)
	}
	_, err := d.Notify(ctx, recipientID, nil, message, models.NotificationLevelUp, nil)
	return err
}

// SendComment notifies a feed owner about a new comment on their feed
func (d *Dispatcher) SendComment(ctx context.Context, feedOwnerID, commenterID uint, commenterNickname, feedID, commentID string) error {
	actor := commenterID
	message := fmt.Sprintf("%s님이 회원님의 게시물에 댓글을 달았습니다.", commenterNickname)
	_, err := d.Notify(ctx, feedOwnerID, &actor, message, models.NotificationComment, &models.NotificationReference{
		FeedID:    feedID,
		CommentID: commentID,
	})
	return err
}

// SendReaction notifies a feed owner about a new reaction on their feed
func (d *Dispatcher) SendReaction(ctx context.Context, feedOwnerID, reactorID uint, reactorNickname, feedID, reactionType string) error {
	actor := reactorID
	emoji := models.ReactionEmojis[reactionType]
	message := fmt.Sprintf("%s님이 회원님의 게시물에 %s 리액션을 남겼습니다.", reactorNickname, emoji)
	_, err := d.Notify(ctx, feedOwnerID, &actor, message, models.NotificationReaction, &models.NotificationReference{
		FeedID:       feedID,
		ReactionType: reactionType,
		Emoji:        emoji,
	})
	return err
}

// SendFriendRequest notifies a user about an incoming friend request
func (d *Dispatcher) SendFriendRequest(ctx context.Context, receiverID, senderID uint, senderNickname string) error {
	actor := senderID
	message := fmt.Sprintf("%s님이 친구 요청을 보냈습니다.", senderNickname)
	_, err := d.Notify(ctx, receiverID, &actor, message, models.NotificationFriendRequest, nil)
	return err
}

// SendFriendAccepted notifies the original sender that their request was
// accepted. Acceptance has no dedicated type in the enum, so it goes out
// under the catch-all.
func (d *Dispatcher) SendFriendAccepted(ctx context.Context, receiverID, accepterID uint, accepterNickname string) error {
	actor := accepterID
	message := fmt.Sprintf("%s님과 친구가 되었습니다!", accepterNickname)
	_, err := d.Notify(ctx, receiverID, &actor, message, models.NotificationEtc, nil)
	return err
}
