package chat

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// EventMessageSent is the broadcast event name for a new message.
	EventMessageSent = "chat.message"

	// ChannelPrefix starts every ticket push channel name.
	ChannelPrefix        = "ticket."
	privateChannelPrefix = "private-"
)

// ChannelName returns the push channel for a ticket.
func ChannelName(ticketID uint) string {
	return fmt.Sprintf("%s%d", ChannelPrefix, ticketID)
}

// ParseChannelName extracts the ticket ID from "ticket.{id}" or "private-ticket.{id}".
func ParseChannelName(name string) (uint, error) {
	rest := strings.TrimPrefix(name, privateChannelPrefix)
	if !strings.HasPrefix(rest, ChannelPrefix) {
		return 0, fmt.Errorf("unknown channel %q", name)
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(rest, ChannelPrefix), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid ticket in channel %q", name)
	}
	return uint(id), nil
}
