package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type ListTicketsQuery struct {
	Principal authorization.Principal
	Status    string
	Priority  string
	Category  string
}

type ListTicketsUseCase struct {
	ticketRepo  ticket.TicketRepository
	userRepo    user.Repository
	permissions PermissionChecker
	logger      logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	permissions PermissionChecker,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Execute lists every ticket for principals holding tickets:list_all and
// only owned or assigned tickets otherwise.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) ([]*dto.TicketDTO, error) {
	filter, err := buildTicketFilter(query)
	if err != nil {
		return nil, err
	}

	if !uc.permissions.Can(ctx, query.Principal, permission.ResourceTickets, permission.ActionListAll) {
		userID := query.Principal.UserID
		filter.ParticipantID = &userID
	}

	tickets, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "user_id", query.Principal.UserID, "error", err)
		return nil, errors.NewInternalError("failed to list tickets", err.Error())
	}

	users, err := loadUsers(ctx, uc.userRepo, ticketUserIDs(tickets...))
	if err != nil {
		uc.logger.Warnw("failed to load ticket participants", "error", err)
	}

	result := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		result = append(result, dto.ToTicketDTO(t, users))
	}
	return result, nil
}

func buildTicketFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	var filter ticket.TicketFilter

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewFieldValidationError("status", "The selected status is invalid.")
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewFieldValidationError("priority", "The selected priority is invalid.")
		}
		filter.Priority = &priority
	}
	if query.Category != "" {
		category, err := vo.NewCategory(query.Category)
		if err != nil {
			return filter, errors.NewFieldValidationError("category", "The selected category is invalid.")
		}
		filter.Category = &category
	}

	return filter, nil
}
