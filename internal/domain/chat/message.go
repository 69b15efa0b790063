package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

// MaxMessageLength is the upper bound on message text, counted in characters.
const MaxMessageLength = 1000

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = fmt.Errorf("message may not be greater than %d characters", MaxMessageLength)
)

// Sender is the public profile of the user who wrote a message.
type Sender struct {
	ID   uint
	Name string
	Role authorization.UserRole
}

// Message is one entry in a ticket's chat log. Its ID is monotonically
// increasing and doubles as the polling cursor.
type Message struct {
	id        uint
	ticketID  uint
	userID    uint
	text      string
	isRead    bool
	createdAt time.Time
	updatedAt time.Time
	sender    *Sender
}

// NormalizeText applies Unicode NFC and trims surrounding whitespace. Length
// limits apply to the result, so composable input is measured composed.
func NormalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// ValidateText checks already-normalized text against the length bounds.
func ValidateText(text string) error {
	if text == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// NewMessage creates an unread message. The text is normalized before validation.
func NewMessage(ticketID, senderID uint, text string) (*Message, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if senderID == 0 {
		return nil, fmt.Errorf("sender ID is required")
	}

	text = NormalizeText(text)
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Message{
		ticketID:  ticketID,
		userID:    senderID,
		text:      text,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructMessage(
	id uint,
	ticketID uint,
	userID uint,
	text string,
	isRead bool,
	createdAt, updatedAt time.Time,
	sender *Sender,
) (*Message, error) {
	if id == 0 {
		return nil, fmt.Errorf("message ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &Message{
		id:        id,
		ticketID:  ticketID,
		userID:    userID,
		text:      text,
		isRead:    isRead,
		createdAt: createdAt,
		updatedAt: updatedAt,
		sender:    sender,
	}, nil
}

func (m *Message) ID() uint {
	return m.id
}

func (m *Message) TicketID() uint {
	return m.ticketID
}

func (m *Message) UserID() uint {
	return m.userID
}

func (m *Message) Text() string {
	return m.text
}

// IsRead is shared by all viewers: true once anyone other than the sender has read it.
func (m *Message) IsRead() bool {
	return m.isRead
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) UpdatedAt() time.Time {
	return m.updatedAt
}

// Sender is nil until the repository joins the sender profile.
func (m *Message) Sender() *Sender {
	return m.sender
}

func (m *Message) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("message ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("message ID cannot be zero")
	}
	m.id = id
	return nil
}

func (m *Message) AttachSender(s *Sender) {
	m.sender = s
}

// MaxID returns the highest message ID in msgs, or fallback when msgs is empty.
func MaxID(msgs []*Message, fallback uint) uint {
	highest := fallback
	for _, m := range msgs {
		if m.id > highest {
			highest = m.id
		}
	}
	return highest
}
