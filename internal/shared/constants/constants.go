package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyTokenID   = "token_id"
	ContextKeyTokenExp  = "token_expires_at"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers          = "users"
	TableTickets        = "tickets"
	TableTicketComments = "ticket_comments"
	TableChatMessages   = "chat_messages"

	// Chat limits
	MaxChatMessageLength = 1000
	MaxCommentLength     = 5000
	MaxSubjectLength     = 255

	// Attachments
	MaxAttachmentBytes = 10 << 20

	// Error messages
	ErrMsgInternalServerError = "Internal server error"
	ErrMsgUnauthenticated     = "Unauthenticated."
	ErrMsgTicketAccessDenied  = "You do not have access to this ticket"
	ErrMsgTicketNotFound      = "Ticket not found"
	ErrMsgCommentNotFound     = "Comment not found"
	ErrMsgTooManyRequests     = "Too many requests"
)
