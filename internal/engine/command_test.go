package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/site"
)

func TestCommandApply(t *testing.T) {
	sim := newTestSimulation(t)
	w := sim.Website
	candidate := w.Candidates[0]

	assert.True(t, Command{Action: CmdStart, Project: "Hello World"}.Apply(sim))
	assert.False(t, Command{Action: CmdStart, Project: "Hello World"}.Apply(sim), "already started")

	require.True(t, Command{Action: CmdHire, Candidate: candidate.ID}.Apply(sim))
	require.Len(t, w.Employees, 1)
	var id site.EmployeeID
	for k := range w.Employees {
		id = k
	}

	assert.True(t, Command{Action: CmdCheer, Employee: id, Amount: 10}.Apply(sim))
	assert.Equal(t, float64(site.MaxHappiness), w.Employees[id].Happiness)

	assert.True(t, Command{Action: CmdServers, Amount: 1000}.Apply(sim))
	assert.Equal(t, 1000.0, w.ServerCosts.WeeklySpend)

	assert.True(t, Command{Action: CmdShip, Project: "Hello World"}.Apply(sim))
	assert.True(t, w.Completed("Hello World"))

	assert.True(t, Command{Action: CmdFire, Employee: id}.Apply(sim))
	assert.False(t, Command{Action: CmdFire, Employee: id}.Apply(sim), "already gone")
	assert.False(t, Command{Action: "dance"}.Apply(sim))

	var descriptions []string
	for _, e := range sim.TakePending() {
		descriptions = append(descriptions, e.Description)
	}
	assert.Equal(t, []string{
		"hired " + candidate.Name,
		"Hello World shipped early",
		"fired " + candidate.Name,
	}, descriptions)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "start Hello World", Command{Action: CmdStart, Project: "Hello World"}.String())
	assert.Equal(t, "assign 3 to Blog", Command{Action: CmdAssign, Employee: 3, Project: "Blog"}.String())
	assert.Equal(t, "accept offer o-1", Command{Action: CmdAccept, Offer: "o-1"}.String())
	assert.Equal(t, "servers 250.00", Command{Action: CmdServers, Amount: 250}.String())
}
