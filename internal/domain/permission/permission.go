// Package permission names the role capabilities checked through the policy enforcer.
package permission

type Resource string

type Action string

const (
	ResourceTickets  Resource = "tickets"
	ResourceComments Resource = "comments"
)

const (
	ActionListAll   Action = "list_all"
	ActionAssign    Action = "assign"
	ActionDeleteAny Action = "delete_any"
)

// Policy grants a role one action on a resource.
type Policy struct {
	Role     string
	Resource Resource
	Action   Action
}

// DefaultPolicies are seeded into the enforcer at startup.
var DefaultPolicies = []Policy{
	{Role: "admin", Resource: ResourceTickets, Action: ActionListAll},
	{Role: "admin", Resource: ResourceTickets, Action: ActionAssign},
	{Role: "admin", Resource: ResourceComments, Action: ActionDeleteAny},
}

// Enforcer decides whether a subject (role) may perform action on resource.
type Enforcer interface {
	Enforce(subject string, resource Resource, action Action) (bool, error)
}
