package database_test

import (
	"testing"

	"student-data-system/internal/global/database"
	"student-data-system/internal/model"
	"student-data-system/test"
	"student-data-system/tools"

	"github.com/stretchr/testify/require"
)

func TestSeedAdminIdempotent(t *testing.T) {
	db := test.NewDB(t)

	require.NoError(t, database.SeedAdmin(db, "ADMIN", "Administrator"))
	require.NoError(t, database.SeedAdmin(db, "ADMIN", "Administrator"))

	var admins []model.Student
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)

	admin := admins[0]
	require.Equal(t, "ADMIN", admin.NIS)
	require.True(t, admin.MustChangePassword)
	// bootstrap password equals the NIS, stored hashed
	require.True(t, tools.PasswordCompare("ADMIN", admin.Password))
}
