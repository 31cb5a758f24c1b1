package tickets

import (
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// ruleKey identifies one row of the transition table.
type ruleKey struct {
	From   enums.TicketStatus
	Role   enums.ActorRole
	Action enums.TicketAction
}

// transitionTable is the single source of truth for which actor may move a
// ticket between which statuses. Call sites never pick next statuses ad hoc.
var transitionTable = map[ruleKey]enums.TicketStatus{
	{enums.TicketStatusOpened, enums.RoleSupervisor, enums.ActionSupervisorForwardClient}: enums.TicketStatusAwaitingClientResponse,
	{enums.TicketStatusOpened, enums.RoleSupervisor, enums.ActionSupervisorMoreInfo}:      enums.TicketStatusPendingDAResponse,
	{enums.TicketStatusOpened, enums.RoleSupervisor, enums.ActionSupervisorSolution}:      enums.TicketStatusPendingDAAction,

	{enums.TicketStatusPendingDAAction, enums.RoleDeliveryAgent, enums.ActionDAMoreInfoRequest}: enums.TicketStatusPendingDAResponse,
	{enums.TicketStatusPendingDAResponse, enums.RoleDeliveryAgent, enums.ActionDAMoreInfo}:      enums.TicketStatusAdditionalInfoProvided,

	{enums.TicketStatusAdditionalInfoProvided, enums.RoleSupervisor, enums.ActionSupervisorSolution}:      enums.TicketStatusPendingDAAction,
	{enums.TicketStatusAdditionalInfoProvided, enums.RoleSupervisor, enums.ActionSupervisorForwardClient}: enums.TicketStatusAwaitingClientResponse,

	{enums.TicketStatusAwaitingClientResponse, enums.RoleClient, enums.ActionClientSolution}: enums.TicketStatusClientResponded,
	{enums.TicketStatusAwaitingClientResponse, enums.RoleClient, enums.ActionClientIgnored}:  enums.TicketStatusClientIgnored,

	{enums.TicketStatusClientResponded, enums.RoleSupervisor, enums.ActionSupervisorForward}: enums.TicketStatusPendingDAAction,
	{enums.TicketStatusClientIgnored, enums.RoleSupervisor, enums.ActionSupervisorForward}:   enums.TicketStatusPendingDAAction,
}

// RuleFor resolves the target status for (current, role, action).
// The delivery agent may close any non-terminal ticket; that wildcard lives
// here rather than as eight table rows.
func RuleFor(from enums.TicketStatus, role enums.ActorRole, action enums.TicketAction) (enums.TicketStatus, bool) {
	if action == enums.ActionDAClosed {
		if role == enums.RoleDeliveryAgent && !from.IsTerminal() {
			return enums.TicketStatusClosed, true
		}
		return "", false
	}
	to, ok := transitionTable[ruleKey{From: from, Role: role, Action: action}]
	return to, ok
}

// CanTransition reports whether (current, role, action) lands on the
// requested target status.
func CanTransition(from enums.TicketStatus, role enums.ActorRole, action enums.TicketAction, to enums.TicketStatus) bool {
	resolved, ok := RuleFor(from, role, action)
	return ok && resolved == to
}

// ActionsFor lists the actions the given role can take from the given status.
// Used by actor views to render the available choices.
func ActionsFor(from enums.TicketStatus, role enums.ActorRole) []enums.TicketAction {
	var actions []enums.TicketAction
	for key := range transitionTable {
		if key.From == from && key.Role == role {
			actions = append(actions, key.Action)
		}
	}
	if role == enums.RoleDeliveryAgent && !from.IsTerminal() {
		actions = append(actions, enums.ActionDAClosed)
	}
	return actions
}
