package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func TestAuthorizeChannelUseCase_Execute(t *testing.T) {
	uc := NewAuthorizeChannelUseCase(newTestGuard(), mockSigner{}, logger.NewNopLogger())

	tests := []struct {
		name     string
		cmd      AuthorizeChannelCommand
		wantAuth string
	}{
		{
			name:     "owner on private channel",
			cmd:      AuthorizeChannelCommand{Principal: ownerPrincipal, SocketID: "1.2", ChannelName: "private-ticket.1"},
			wantAuth: "key:1.2:private-ticket.1",
		},
		{
			name:     "assignee on public channel",
			cmd:      AuthorizeChannelCommand{Principal: assigneePrincipal, SocketID: "3.4", ChannelName: "ticket.1"},
			wantAuth: "key:3.4:ticket.1",
		},
		{name: "outsider denied", cmd: AuthorizeChannelCommand{Principal: outsiderPrincipal, SocketID: "1.2", ChannelName: "ticket.1"}},
		{name: "missing ticket denied", cmd: AuthorizeChannelCommand{Principal: ownerPrincipal, SocketID: "1.2", ChannelName: "ticket.404"}},
		{name: "malformed channel denied", cmd: AuthorizeChannelCommand{Principal: ownerPrincipal, SocketID: "1.2", ChannelName: "orders.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), tt.cmd)
			if tt.wantAuth == "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbiddenError(err), "expected 403, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, result.Auth)
		})
	}
}
