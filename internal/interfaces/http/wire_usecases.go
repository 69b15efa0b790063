package http

import (
	"github.com/deskpulse/deskpulse/internal/application/access"
	chatUsecases "github.com/deskpulse/deskpulse/internal/application/chat/usecases"
	permissionApp "github.com/deskpulse/deskpulse/internal/application/permission"
	ticketUsecases "github.com/deskpulse/deskpulse/internal/application/ticket/usecases"
	"github.com/deskpulse/deskpulse/internal/application/user/usecases"
	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Shared policy
	guard       *access.Guard
	permissions *permissionApp.Service

	// User / Auth
	registerUC       *usecases.RegisterUseCase
	loginUC          *usecases.LoginUseCase
	logoutUC         *usecases.LogoutUseCase
	getCurrentUserUC *usecases.GetCurrentUserUseCase

	// Ticket
	createTicketUC  *ticketUsecases.CreateTicketUseCase
	listTicketsUC   *ticketUsecases.ListTicketsUseCase
	getTicketUC     *ticketUsecases.GetTicketUseCase
	updateTicketUC  *ticketUsecases.UpdateTicketUseCase
	deleteTicketUC  *ticketUsecases.DeleteTicketUseCase
	assignTicketUC  *ticketUsecases.AssignTicketUseCase
	addCommentUC    *ticketUsecases.AddCommentUseCase
	deleteCommentUC *ticketUsecases.DeleteCommentUseCase

	// Chat
	listMessagesUC     *chatUsecases.ListMessagesUseCase
	sendMessageUC      *chatUsecases.SendMessageUseCase
	checkNewMessagesUC *chatUsecases.CheckNewMessagesUseCase
	markReadUC         *chatUsecases.MarkReadUseCase
	getUnreadCountUC   *chatUsecases.GetUnreadCountUseCase
	authorizeChannelUC *chatUsecases.AuthorizeChannelUseCase
}

// newUseCases wires every use case against the repositories and services
// built in the earlier sections.
func (c *Container) newUseCases() *allUseCases {
	log := c.log
	repos := c.repos

	ucs := &allUseCases{}
	ucs.guard = access.NewGuard(repos.ticketRepo, log.Named("access"))
	ucs.permissions = permissionApp.NewService(c.enforcer, log)

	// User / Auth
	ucs.registerUC = usecases.NewRegisterUseCase(repos.userRepo, c.hasher, c.jwtSvc, log)
	ucs.loginUC = usecases.NewLoginUseCase(repos.userRepo, c.hasher, c.jwtSvc, log)
	ucs.logoutUC = usecases.NewLogoutUseCase(c.revokedStore, log)
	ucs.getCurrentUserUC = usecases.NewGetCurrentUserUseCase(repos.userRepo, log)

	// Ticket
	blobs := c.blobStore()
	notifier := c.notifier()

	ucs.createTicketUC = ticketUsecases.NewCreateTicketUseCase(repos.ticketRepo, repos.userRepo, blobs, log)
	ucs.listTicketsUC = ticketUsecases.NewListTicketsUseCase(repos.ticketRepo, repos.userRepo, ucs.permissions, log)
	ucs.getTicketUC = ticketUsecases.NewGetTicketUseCase(ucs.guard, repos.commentRepo, repos.userRepo, markdown.NewRenderer(), blobs, log)
	ucs.updateTicketUC = ticketUsecases.NewUpdateTicketUseCase(ucs.guard, repos.ticketRepo, repos.userRepo, notifier, log)
	ucs.deleteTicketUC = ticketUsecases.NewDeleteTicketUseCase(repos.ticketRepo, repos.txMgr, blobs, log)
	ucs.assignTicketUC = ticketUsecases.NewAssignTicketUseCase(repos.ticketRepo, repos.userRepo, ucs.permissions, notifier, log)
	ucs.addCommentUC = ticketUsecases.NewAddCommentUseCase(ucs.guard, repos.commentRepo, repos.userRepo, log)
	ucs.deleteCommentUC = ticketUsecases.NewDeleteCommentUseCase(repos.commentRepo, ucs.permissions, log)

	// Chat
	ucs.listMessagesUC = chatUsecases.NewListMessagesUseCase(ucs.guard, repos.messageRepo, log)
	ucs.sendMessageUC = chatUsecases.NewSendMessageUseCase(
		ucs.guard, repos.messageRepo, repos.txMgr, c.broadcaster, c.sendRateLimiter(), c.chatMetrics, log,
	)
	ucs.checkNewMessagesUC = chatUsecases.NewCheckNewMessagesUseCase(ucs.guard, repos.messageRepo, c.chatMetrics, log)
	ucs.markReadUC = chatUsecases.NewMarkReadUseCase(ucs.guard, repos.messageRepo, log)
	ucs.getUnreadCountUC = chatUsecases.NewGetUnreadCountUseCase(repos.messageRepo, log)
	ucs.authorizeChannelUC = chatUsecases.NewAuthorizeChannelUseCase(
		ucs.guard,
		auth.NewChannelSigner(c.cfg.Delivery.BroadcastKey, c.cfg.Delivery.BroadcastSecret),
		log,
	)

	return ucs
}
