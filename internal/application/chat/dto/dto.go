package dto

import "github.com/deskpulse/deskpulse/internal/domain/chat"

// MessageDTO is the JSON shape of a chat message. It is identical to the
// broadcast payload so polled and pushed messages merge on the client.
type MessageDTO = chat.MessageData

type CheckNewMessagesDTO struct {
	Messages      []MessageDTO `json:"messages"`
	LastMessageID uint         `json:"last_message_id"`
}

type UnreadCountDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

type ChannelAuthDTO struct {
	Auth string `json:"auth"`
}

func ToMessageDTO(m *chat.Message) MessageDTO {
	return chat.ToMessageData(m)
}

// ToMessageDTOs never returns nil so empty lists encode as [].
func ToMessageDTOs(msgs []*chat.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chat.ToMessageData(m))
	}
	return out
}
