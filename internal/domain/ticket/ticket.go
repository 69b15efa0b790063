package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

const (
	maxSubjectLength = 255
)

// Ticket is a customer support request. It exclusively owns its comments
// and chat messages.
type Ticket struct {
	id              uint
	subject         string
	description     string
	category        vo.Category
	priority        vo.Priority
	status          vo.TicketStatus
	attachment      *string
	userID          uint
	assignedAdminID *uint
	createdAt       time.Time
	updatedAt       time.Time
}

func NewTicket(
	subject string,
	description string,
	category vo.Category,
	priority vo.Priority,
	userID uint,
) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)

	if category == "" {
		category = vo.DefaultCategory
	}
	if priority == "" {
		priority = vo.DefaultPriority
	}

	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	now := time.Now().UTC()
	return &Ticket{
		subject:     subject,
		description: description,
		category:    category,
		priority:    priority,
		status:      vo.StatusOpen,
		userID:      userID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	id uint,
	subject string,
	description string,
	category vo.Category,
	priority vo.Priority,
	status vo.TicketStatus,
	attachment *string,
	userID uint,
	assignedAdminID *uint,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}

	return &Ticket{
		id:              id,
		subject:         subject,
		description:     description,
		category:        category,
		priority:        priority,
		status:          status,
		attachment:      attachment,
		userID:          userID,
		assignedAdminID: assignedAdminID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func validateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if len([]rune(subject)) > maxSubjectLength {
		return fmt.Errorf("subject exceeds maximum length of %d characters", maxSubjectLength)
	}
	return nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Category() vo.Category {
	return t.category
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

// Attachment returns the blob store key of the attached file, if any.
func (t *Ticket) Attachment() *string {
	return t.attachment
}

// UserID is the owning customer.
func (t *Ticket) UserID() uint {
	return t.userID
}

func (t *Ticket) AssignedAdminID() *uint {
	return t.assignedAdminID
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetAttachment(key string) {
	if key == "" {
		t.attachment = nil
		return
	}
	t.attachment = &key
	t.touch()
}

// Changes holds an optional new value per editable field.
type Changes struct {
	Subject     *string
	Description *string
	Category    *vo.Category
	Priority    *vo.Priority
	Status      *vo.TicketStatus
}

// Apply validates and applies a partial update. Nothing changes on error.
// It reports whether the status changed.
func (t *Ticket) Apply(c Changes) (statusChanged bool, err error) {
	next := *t

	if c.Subject != nil {
		subject := strings.TrimSpace(*c.Subject)
		if err := validateSubject(subject); err != nil {
			return false, err
		}
		next.subject = subject
	}
	if c.Description != nil {
		description := strings.TrimSpace(*c.Description)
		if description == "" {
			return false, fmt.Errorf("description is required")
		}
		next.description = description
	}
	if c.Category != nil {
		if !c.Category.IsValid() {
			return false, fmt.Errorf("invalid category: %s", *c.Category)
		}
		next.category = *c.Category
	}
	if c.Priority != nil {
		if !c.Priority.IsValid() {
			return false, fmt.Errorf("invalid priority: %s", *c.Priority)
		}
		next.priority = *c.Priority
	}
	if c.Status != nil {
		if !c.Status.IsValid() {
			return false, fmt.Errorf("invalid status: %s", *c.Status)
		}
		statusChanged = *c.Status != t.status
		next.status = *c.Status
	}

	*t = next
	t.touch()
	return statusChanged, nil
}

// ChangeStatus sets any valid status. Transitions are unconstrained.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status == newStatus {
		return nil
	}
	t.status = newStatus
	t.touch()
	return nil
}

// AssignTo records the handling admin.
func (t *Ticket) AssignTo(adminID uint) error {
	if adminID == 0 {
		return fmt.Errorf("assignee ID cannot be zero")
	}
	t.assignedAdminID = &adminID
	t.touch()
	return nil
}

func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assignedAdminID != nil && *t.assignedAdminID == userID
}

// CanBeAccessedBy admits any admin, the owner, or the assigned admin.
func (t *Ticket) CanBeAccessedBy(p authorization.Principal) bool {
	if p.IsAdmin() {
		return true
	}
	if p.UserID == 0 {
		return false
	}
	return t.userID == p.UserID || t.IsAssignedTo(p.UserID)
}

// CanBeDeletedBy admits the owner or any admin.
func (t *Ticket) CanBeDeletedBy(p authorization.Principal) bool {
	if p.IsAdmin() {
		return true
	}
	return p.UserID != 0 && t.userID == p.UserID
}

// Participants returns the owner and, when set, the assigned admin.
func (t *Ticket) Participants() []uint {
	ids := []uint{t.userID}
	if t.assignedAdminID != nil && *t.assignedAdminID != t.userID {
		ids = append(ids, *t.assignedAdminID)
	}
	return ids
}

func (t *Ticket) touch() {
	t.updatedAt = time.Now().UTC()
}
