package chat

import "context"

// MessageRepository is the per-ticket message log and its read-state tracker.
// Returned messages carry their sender profile and are ordered by creation
// time, then ID.
type MessageRepository interface {
	ListByTicket(ctx context.Context, ticketID uint) ([]*Message, error)
	// Append persists msg unread and assigns its ID.
	Append(ctx context.Context, msg *Message) error
	// ListSince returns messages with ID greater than cursor.
	ListSince(ctx context.Context, ticketID uint, cursor uint) ([]*Message, error)
	// MarkReadForViewer flips every unread message not sent by viewerID and
	// returns the number of rows changed.
	MarkReadForViewer(ctx context.Context, ticketID uint, viewerID uint) (int64, error)
	// CountUnreadForUser counts unread messages not sent by userID across the
	// tickets userID owns or is assigned to.
	CountUnreadForUser(ctx context.Context, userID uint) (int64, error)
}
