package engine

import (
	"fmt"

	"github.com/josephrcox/web-pioneer/internal/site"
)

// Command kinds.
const (
	CmdStart     = "start"
	CmdAssign    = "assign"
	CmdUnassign  = "unassign"
	CmdShip      = "ship"
	CmdUndo      = "undo"
	CmdEnable    = "enable"
	CmdDisable   = "disable"
	CmdRate      = "rate"
	CmdMarketing = "marketing"
	CmdHire      = "hire"
	CmdFire      = "fire"
	CmdCheer     = "cheer"
	CmdAccept    = "accept"
	CmdServers   = "servers"
)

// Command is a player action in serializable form, so it can be applied
// locally or sent to a running simulation. Which fields matter depends on
// Action.
type Command struct {
	Action    string          `json:"action" validate:"required,oneof=start assign unassign ship undo enable disable rate marketing hire fire cheer accept servers"`
	Project   string          `json:"project,omitempty"`
	Employee  site.EmployeeID `json:"employee,omitempty" validate:"gte=0"`
	Candidate string          `json:"candidate,omitempty"`
	Offer     string          `json:"offer,omitempty"`
	Amount    float64         `json:"amount,omitempty" validate:"gte=0"`
}

func (c Command) String() string {
	switch c.Action {
	case CmdAssign, CmdUnassign:
		return fmt.Sprintf("%s %d to %s", c.Action, c.Employee, c.Project)
	case CmdFire, CmdCheer:
		return fmt.Sprintf("%s %d", c.Action, c.Employee)
	case CmdHire:
		return "hire " + c.Candidate
	case CmdAccept:
		return "accept offer " + c.Offer
	case CmdServers:
		return fmt.Sprintf("servers %.2f", c.Amount)
	}
	return c.Action + " " + c.Project
}

// Apply runs the command against s and logs notable outcomes. Reports
// whether it was applied. The caller must hold the simulation lock.
func (c Command) Apply(s *Simulation) bool {
	w, cat := s.Website, s.Catalog

	switch c.Action {
	case CmdStart:
		return StartProject(w, cat, c.Project)
	case CmdAssign:
		return AssignEmployee(w, cat, c.Employee, c.Project)
	case CmdUnassign:
		return UnassignEmployee(w, c.Employee, c.Project)
	case CmdShip:
		if !ShipNow(w, cat, c.Project, s.Rand) {
			return false
		}
		s.record("project", "%s shipped early", c.Project)
		return true
	case CmdUndo:
		return UndoProject(w, cat, c.Project)
	case CmdEnable, CmdDisable:
		return SetEnabled(w, cat, c.Project, c.Action == CmdEnable)
	case CmdRate:
		return SetMonetizationRate(w, cat, c.Project, c.Amount)
	case CmdMarketing:
		return SetMarketingSpend(w, cat, c.Project, c.Amount)
	case CmdHire:
		id, ok := HireCandidate(w, c.Candidate)
		if ok {
			s.record("staff", "hired %s", w.Employees[id].Name)
		}
		return ok
	case CmdFire:
		e, known := w.Employees[c.Employee]
		if !known {
			return false
		}
		name := e.Name
		if !FireEmployee(w, c.Employee) {
			return false
		}
		s.record("staff", "fired %s", name)
		return true
	case CmdCheer:
		return MakeEmployeeHappy(w, c.Employee, c.Amount)
	case CmdAccept:
		if !AcceptOffer(w, c.Offer) {
			return false
		}
		inv := w.Investors[len(w.Investors)-1]
		s.record("investment", "%s bought %.0f%%", inv.Firm, inv.PercentOwned)
		return true
	case CmdServers:
		return SetServerSpend(w, c.Amount)
	}
	return false
}
