package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// MessageRepository is the contact inbox.
type MessageRepository struct {
	store Repository
	clock Clock
}

// NewMessageRepository returns a MessageRepository.
func NewMessageRepository(store Repository, clock Clock) *MessageRepository {
	if clock == nil {
		clock = NewMonotonicClock(nil)
	}
	return &MessageRepository{store: store, clock: clock}
}

// Submit stores an unread message. Fields are stored as given.
func (r *MessageRepository) Submit(ctx context.Context, req SubmitMessageRequest) (*ContactMessage, error) {
	msg := &ContactMessage{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Read:      false,
		CreatedAt: r.clock.Now(),
	}
	if err := r.store.CreateMessage(ctx, msg); err != nil {
		return nil, &OperationError{Entity: "message", ID: msg.ID.String(), Op: "create", Err: err}
	}
	return msg, nil
}

// List returns every message, newest first.
func (r *MessageRepository) List(ctx context.Context) ([]*ContactMessage, error) {
	msgs, err := r.store.ListMessages(ctx)
	if err != nil {
		return nil, &OperationError{Entity: "message", Op: "list", Err: err}
	}
	return msgs, nil
}

// MarkRead sets the read flag. It fails with ErrNotFound when id is unknown.
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	if err := r.store.SetMessageRead(ctx, id, read); err != nil {
		return &OperationError{Entity: "message", ID: id.String(), Op: "mark_read", Err: err}
	}
	return nil
}

// UnreadCount returns the number of unread messages.
func (r *MessageRepository) UnreadCount(ctx context.Context) (int, error) {
	n, err := r.store.CountUnreadMessages(ctx)
	if err != nil {
		return 0, &OperationError{Entity: "message", Op: "count_unread", Err: err}
	}
	return n, nil
}
