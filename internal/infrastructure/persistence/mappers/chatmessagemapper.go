package mappers

import (
	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/infrastructure/persistence/models"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

// ChatMessageMapper converts chat messages. ToDomain attaches the sender when
// the User association was preloaded.
type ChatMessageMapper interface {
	ToModel(m *chat.Message) *models.ChatMessageModel
	ToDomain(model *models.ChatMessageModel) (*chat.Message, error)
	ToDomainList(list []*models.ChatMessageModel) ([]*chat.Message, error)
}

type chatMessageMapper struct{}

func NewChatMessageMapper() ChatMessageMapper {
	return &chatMessageMapper{}
}

func (m *chatMessageMapper) ToModel(msg *chat.Message) *models.ChatMessageModel {
	return &models.ChatMessageModel{
		ID:        msg.ID(),
		TicketID:  msg.TicketID(),
		UserID:    msg.UserID(),
		Message:   msg.Text(),
		IsRead:    msg.IsRead(),
		CreatedAt: msg.CreatedAt(),
		UpdatedAt: msg.UpdatedAt(),
	}
}

func (m *chatMessageMapper) ToDomain(model *models.ChatMessageModel) (*chat.Message, error) {
	var sender *chat.Sender
	if model.User.ID != 0 {
		sender = SenderFromModel(&model.User)
	}

	return chat.ReconstructMessage(
		model.ID,
		model.TicketID,
		model.UserID,
		model.Message,
		model.IsRead,
		model.CreatedAt,
		model.UpdatedAt,
		sender,
	)
}

func (m *chatMessageMapper) ToDomainList(list []*models.ChatMessageModel) ([]*chat.Message, error) {
	out := make([]*chat.Message, 0, len(list))
	for _, model := range list {
		msg, err := m.ToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func SenderFromModel(u *models.UserModel) *chat.Sender {
	return &chat.Sender{
		ID:   u.ID,
		Name: u.Name,
		Role: authorization.ParseUserRole(u.Role),
	}
}
