package engine

import "github.com/SamsTek19/PIZZA-ZONE-WEB-APP/internal/domain"

// transitionRule is the authorization key: who may move an order from one
// status to another. All role checks for transitions live in this one table
// instead of being scattered across handlers.
type transitionRule struct {
	role domain.Role
	from domain.Status
	to   domain.Status
}

var allowedTransitions = buildPolicy()

func buildPolicy() map[transitionRule]bool {
	p := make(map[transitionRule]bool)
	staff := []domain.Role{domain.RoleAdmin, domain.RoleManager}

	// Kitchen staff drive the forward preparation chain.
	forward := [][2]domain.Status{
		{domain.StatusPending, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusPreparing},
		{domain.StatusPreparing, domain.StatusReady},
	}
	for _, r := range staff {
		for _, t := range forward {
			p[transitionRule{r, t[0], t[1]}] = true
		}
		// Cancellation is staff-only from any non-terminal state.
		for _, from := range []domain.Status{
			domain.StatusPending, domain.StatusConfirmed, domain.StatusPreparing,
			domain.StatusReady, domain.StatusOutForDelivery,
		} {
			p[transitionRule{r, from, domain.StatusCancelled}] = true
		}
	}
	// ready -> out_for_delivery is deliberately absent: only the dispatch
	// coordinator takes that edge, and it binds the rider in the same
	// update. Through this table the order would go out without a rider.

	// Riders may only close out their own delivery; the engine additionally
	// checks the assignment.
	p[transitionRule{domain.RoleRider, domain.StatusOutForDelivery, domain.StatusDelivered}] = true
	return p
}

// authorize applies the policy table plus the rider-assignment rule.
func authorize(actor domain.Actor, o domain.Order, target domain.Status) error {
	if !allowedTransitions[transitionRule{actor.Role, o.Status, target}] {
		return domain.ErrNotAuthorized
	}
	if actor.Role == domain.RoleRider {
		if o.AssignedRiderID == nil || *o.AssignedRiderID != actor.ID {
			return domain.ErrNotAssigned
		}
	}
	return nil
}
