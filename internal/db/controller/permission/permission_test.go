package permission

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedPermission(t *testing.T, db *gorm.DB, name string) *models.Permission {
	t.Helper()

	p := &models.Permission{Name: name}
	require.NoError(t, db.Create(p).Error, "failed to seed permission")

	return p
}

func TestGetByName(t *testing.T) {
	db := setupTestDB(t)
	seedPermission(t, db, "view_ticket")

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		permName      string
		expectedError error
	}{
		{name: "nil database", dbParam: nil, permName: "view_ticket", expectedError: ErrDBNil},
		{name: "empty name", dbParam: db, permName: "", expectedError: ErrPermissionNameEmpty},
		{name: "not found", dbParam: db, permName: "fly", expectedError: ErrPermissionNotFound},
		{name: "successful get", dbParam: db, permName: "view_ticket"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			perm, err := GetByName(tc.dbParam, tc.permName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, perm)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.permName, perm.Name)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	seedPermission(t, db, "view_ticket")
	seedPermission(t, db, "create_ticket")

	perms, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, perms, 2)

	// Ordered by name.
	assert.Equal(t, "create_ticket", perms[0].Name)
	assert.Equal(t, "view_ticket", perms[1].Name)
}

func TestListForRole(t *testing.T) {
	db := setupTestDB(t)

	view := seedPermission(t, db, "view_ticket")
	reply := seedPermission(t, db, "reply_ticket")

	role := models.Role{Name: "agents", Permissions: []models.Permission{*view, *reply}}
	require.NoError(t, db.Create(&role).Error)

	names, err := ListForRole(db, role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"view_ticket", "reply_ticket"}, names)

	_, err = ListForRole(db, 404)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestGrantRevoke(t *testing.T) {
	db := setupTestDB(t)

	seedPermission(t, db, "edit_ticket")

	u := models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)

	require.NoError(t, Grant(db, u.ID, "edit_ticket"))

	names, err := ListDirect(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"edit_ticket"}, names)

	// Granting again is a no-op, not a duplicate row.
	require.NoError(t, Grant(db, u.ID, "edit_ticket"))

	var count int64
	db.Model(&models.UserPermission{}).Where("user_id = ?", u.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	require.NoError(t, Revoke(db, u.ID, "edit_ticket"))

	names, err = ListDirect(db, u.ID)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Unknown permission names fail loudly.
	require.ErrorIs(t, Grant(db, u.ID, "fly"), ErrPermissionNotFound)
	require.ErrorIs(t, Revoke(db, u.ID, "fly"), ErrPermissionNotFound)
}
