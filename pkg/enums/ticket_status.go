package enums

import "fmt"

// TicketStatus tracks the lifecycle of a ticket.
type TicketStatus string

const (
	TicketStatusOpened                 TicketStatus = "opened"
	TicketStatusPendingDAAction        TicketStatus = "pending_da_action"
	TicketStatusPendingDAResponse      TicketStatus = "pending_da_response"
	TicketStatusAdditionalInfoProvided TicketStatus = "additional_info_provided"
	TicketStatusAwaitingClientResponse TicketStatus = "awaiting_client_response"
	TicketStatusClientResponded        TicketStatus = "client_responded"
	TicketStatusClientIgnored          TicketStatus = "client_ignored"
	TicketStatusClosed                 TicketStatus = "closed"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusOpened,
	TicketStatusPendingDAAction,
	TicketStatusPendingDAResponse,
	TicketStatusAdditionalInfoProvided,
	TicketStatusAwaitingClientResponse,
	TicketStatusClientResponded,
	TicketStatusClientIgnored,
	TicketStatusClosed,
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no actor can move the ticket any further.
func (t TicketStatus) IsTerminal() bool {
	return t == TicketStatusClosed
}

// IsClientFinal reports whether the client's part of the conversation is over.
// A late or duplicate client reply against one of these states must be rejected.
func (t TicketStatus) IsClientFinal() bool {
	switch t {
	case TicketStatusClientResponded, TicketStatusClientIgnored, TicketStatusClosed:
		return true
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
