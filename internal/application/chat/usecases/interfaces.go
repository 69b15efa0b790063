package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/chat/dto"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

type ListMessagesExecutor interface {
	Execute(ctx context.Context, query ListMessagesQuery) ([]dto.MessageDTO, error)
}

type SendMessageExecutor interface {
	Execute(ctx context.Context, cmd SendMessageCommand) (*dto.MessageDTO, error)
}

type CheckNewMessagesExecutor interface {
	Execute(ctx context.Context, query CheckNewMessagesQuery) (*dto.CheckNewMessagesDTO, error)
}

type MarkReadExecutor interface {
	Execute(ctx context.Context, cmd MarkReadCommand) (*MarkReadResult, error)
}

type GetUnreadCountExecutor interface {
	Execute(ctx context.Context, query GetUnreadCountQuery) (*dto.UnreadCountDTO, error)
}

type AuthorizeChannelExecutor interface {
	Execute(ctx context.Context, cmd AuthorizeChannelCommand) (*dto.ChannelAuthDTO, error)
	AuthorizeTicket(ctx context.Context, p authorization.Principal, ticketID uint) error
}

// SendRateLimiter bounds how many messages one user may send to one ticket.
type SendRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MetricsRecorder receives chat delivery counters.
type MetricsRecorder interface {
	MessageSent()
	PollCompleted(delivered int)
	BroadcastFailed(driver string)
}

// ChannelSigner produces the auth string for a push channel subscription.
type ChannelSigner interface {
	Sign(socketID, channelName string) string
}
