package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_CanAccessLocation(t *testing.T) {
	staff := Actor{UserID: "u1", Role: RoleStaff, LocationIDs: []int64{1, 3}}
	admin := Actor{UserID: "a1", Role: RoleAdmin}

	assert.True(t, staff.CanAccessLocation(1))
	assert.True(t, staff.CanAccessLocation(3))
	assert.False(t, staff.CanAccessLocation(2))
	assert.True(t, admin.CanAccessLocation(2))
}

func TestActor_CanApply(t *testing.T) {
	staff := Actor{Role: RoleStaff}
	admin := Actor{Role: RoleAdmin}

	assert.False(t, staff.CanApply(EventRestore))
	assert.True(t, staff.CanApply(EventCancel))
	assert.True(t, admin.CanApply(EventRestore))
}
