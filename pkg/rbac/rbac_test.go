package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(1, PermissionClaimTask))
	assert.True(t, HasPermission(1, PermissionGenerateRoadmap))
	assert.False(t, HasPermission(1, "task:delete"))
}

func TestCheckPermission(t *testing.T) {
	assert.NoError(t, CheckPermission(1, PermissionReadTask))

	err := CheckPermission(1, "nonexistent:perm")
	assert.Error(t, err)

	var denied *PermissionDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, "nonexistent:perm", denied.Permission)
}

func TestValidateUserIDInPayload(t *testing.T) {
	assert.NoError(t, ValidateUserIDInPayload(7, 7))

	err := ValidateUserIDInPayload(7, 8)
	assert.Error(t, err)

	var mismatch *UserIDMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 7, mismatch.TokenUserID)
	assert.Equal(t, 8, mismatch.PayloadUserID)
}
