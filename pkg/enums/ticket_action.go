package enums

import "fmt"

// TicketAction tags the audit-log entry a transition appends.
type TicketAction string

const (
	ActionTicketCreated           TicketAction = "ticket_created"
	ActionSupervisorSolution      TicketAction = "supervisor_solution"
	ActionSupervisorMoreInfo      TicketAction = "supervisor_moreinfo"
	ActionSupervisorForward       TicketAction = "supervisor_forward"
	ActionSupervisorForwardClient TicketAction = "supervisor_forward_client"
	ActionDAMoreInfoRequest       TicketAction = "da_moreinfo_request"
	ActionDAMoreInfo              TicketAction = "da_moreinfo"
	ActionDAClosed                TicketAction = "da_closed"
	ActionClientSolution          TicketAction = "client_solution"
	ActionClientIgnored           TicketAction = "client_ignored"
)

var validTicketActions = []TicketAction{
	ActionTicketCreated,
	ActionSupervisorSolution,
	ActionSupervisorMoreInfo,
	ActionSupervisorForward,
	ActionSupervisorForwardClient,
	ActionDAMoreInfoRequest,
	ActionDAMoreInfo,
	ActionDAClosed,
	ActionClientSolution,
	ActionClientIgnored,
}

// String implements fmt.Stringer.
func (a TicketAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known TicketAction.
func (a TicketAction) IsValid() bool {
	for _, candidate := range validTicketActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseTicketAction converts raw input into a TicketAction.
func ParseTicketAction(value string) (TicketAction, error) {
	for _, candidate := range validTicketActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket action %q", value)
}
