package usecases

import (
	"context"
	"fmt"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
)

// loadUsers resolves ids to users in one query. Unknown ids are skipped.
func loadUsers(ctx context.Context, repo user.Repository, ids []uint) (map[uint]*user.User, error) {
	out := make(map[uint]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		out[u.ID()] = u
	}
	return out, nil
}

func ticketUserIDs(tickets ...*ticket.Ticket) []uint {
	ids := make([]uint, 0, len(tickets)*2)
	for _, t := range tickets {
		ids = append(ids, t.Participants()...)
	}
	return ids
}
