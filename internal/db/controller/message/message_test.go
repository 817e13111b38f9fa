package message

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (*gorm.DB, *models.User, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Message{})
	require.NoError(t, err, "failed to migrate test database")

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	return db, alice, bob
}

func TestCreate(t *testing.T) {
	db, alice, bob := setupTestDB(t)

	_, err := Create(nil, alice.ID, bob.ID, "hi", "")
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Create(db, alice.ID, bob.ID, "", "")
	require.ErrorIs(t, err, ErrBodyEmpty)

	m, err := Create(db, alice.ID, bob.ID, "lunch?", "")
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, alice.ID, m.SenderID)
	assert.Equal(t, bob.ID, m.RecipientID)
}

func TestGetForUser(t *testing.T) {
	db, alice, bob := setupTestDB(t)

	carol := &models.User{Username: "carol", Email: "carol@example.com", Password: "x"}
	require.NoError(t, db.Create(carol).Error)

	_, err := Create(db, alice.ID, bob.ID, "to bob", "")
	require.NoError(t, err)
	_, err = Create(db, bob.ID, alice.ID, "to alice", "")
	require.NoError(t, err)
	_, err = Create(db, bob.ID, carol.ID, "to carol", "")
	require.NoError(t, err)

	// Both directions of alice's conversations, nothing of bob<->carol.
	msgs, err := GetForUser(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "to bob", msgs[0].Body)
	assert.Equal(t, "to alice", msgs[1].Body)

	// Sender and recipient accounts are preloaded for display.
	assert.Equal(t, "alice", msgs[0].Sender.Username)
	assert.Equal(t, "bob", msgs[0].Recipient.Username)

	msgs, err = GetForUser(db, carol.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "to carol", msgs[0].Body)
}
