package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

const maxCommentLength = 5000

// Comment is a persistent note on a ticket. Comments carry no read state.
type Comment struct {
	id        uint
	ticketID  uint
	userID    uint
	content   string
	createdAt time.Time
	updatedAt time.Time
}

func NewComment(ticketID uint, userID uint, content string) (*Comment, error) {
	content = strings.TrimSpace(content)

	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if content == "" {
		return nil, fmt.Errorf("content cannot be empty")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", maxCommentLength)
	}

	now := time.Now().UTC()
	return &Comment{
		ticketID:  ticketID,
		userID:    userID,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructComment(
	id uint,
	ticketID uint,
	userID uint,
	content string,
	createdAt, updatedAt time.Time,
) (*Comment, error) {
	if id == 0 {
		return nil, fmt.Errorf("comment ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &Comment{
		id:        id,
		ticketID:  ticketID,
		userID:    userID,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (c *Comment) ID() uint {
	return c.id
}

func (c *Comment) TicketID() uint {
	return c.ticketID
}

func (c *Comment) UserID() uint {
	return c.userID
}

func (c *Comment) Content() string {
	return c.content
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Comment) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Comment) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("comment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("comment ID cannot be zero")
	}
	c.id = id
	return nil
}

// IsAuthoredBy reports whether p wrote the comment.
func (c *Comment) IsAuthoredBy(p authorization.Principal) bool {
	return p.UserID != 0 && c.userID == p.UserID
}
