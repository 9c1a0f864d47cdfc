package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_GuestOnLoginAllowed(t *testing.T) {
	d := Decide(GateInput{Path: LoginPath})
	assert.True(t, d.Allow)
	assert.Empty(t, d.Redirect)
}

func TestDecide_GuestBouncesToLoginWithCallback(t *testing.T) {
	d := Decide(GateInput{Path: "/users/pending"})
	assert.False(t, d.Allow)
	assert.Equal(t, "/login?callbackUrl=%2Fusers%2Fpending", d.Redirect)
}

func TestDecide_GuestOnRootNoCallback(t *testing.T) {
	d := Decide(GateInput{Path: "/"})
	assert.False(t, d.Allow)
	assert.Equal(t, LoginPath, d.Redirect)
}

func TestDecide_NonAdminTreatedAsGuest(t *testing.T) {
	d := Decide(GateInput{Path: DashboardPath, HasSession: true, Role: "user"})
	assert.False(t, d.Allow)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard", d.Redirect)
}

func TestDecide_LockedSessionConfinedToSetup(t *testing.T) {
	locked := GateInput{HasSession: true, Role: "admin", ForcePasswordChange: true}

	for _, path := range []string{DashboardPath, "/users", LoginPath, "/"} {
		locked.Path = path
		d := Decide(locked)
		assert.False(t, d.Allow, "path %s", path)
		assert.Equal(t, SetupPath, d.Redirect, "path %s", path)
	}

	for _, path := range []string{SetupPath, SetupPath + "/verify"} {
		locked.Path = path
		d := Decide(locked)
		assert.True(t, d.Allow, "path %s", path)
	}
}

func TestDecide_UnlockedSessionLeavesEntryPages(t *testing.T) {
	unlocked := GateInput{HasSession: true, Role: "admin"}

	for _, path := range []string{LoginPath, SetupPath, "/"} {
		unlocked.Path = path
		d := Decide(unlocked)
		assert.False(t, d.Allow, "path %s", path)
		assert.Equal(t, DashboardPath, d.Redirect, "path %s", path)
	}

	unlocked.Path = "/users"
	d := Decide(unlocked)
	assert.True(t, d.Allow)
}
