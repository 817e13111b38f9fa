package ticket

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.TicketReply{})
	require.NoError(t, err, "failed to migrate test database")

	author := &models.User{Username: "author", Email: "author@example.com", Password: "x"}
	require.NoError(t, db.Create(author).Error)

	return db, author
}

func TestCreate(t *testing.T) {
	db, author := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		subject       string
		description   string
		expectedError error
	}{
		{name: "nil database", dbParam: nil, subject: "s", description: "d", expectedError: ErrDBNil},
		{name: "empty subject", dbParam: db, subject: "", description: "d", expectedError: ErrSubjectEmpty},
		{name: "empty description", dbParam: db, subject: "s", description: "", expectedError: ErrDescriptionEmpty},
		{name: "successful create", dbParam: db, subject: "Broken printer", description: "It jams."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := Create(tc.dbParam, author.ID, tc.subject, tc.description)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.TicketStatusOpen, created.Status)
				assert.Equal(t, models.TicketPriorityNormal, created.Priority)
				assert.Equal(t, author.ID, created.UserID)
			}
		})
	}
}

func TestUpdatePartial(t *testing.T) {
	db, author := setupTestDB(t)

	created, err := Create(db, author.ID, "Subject", "Body")
	require.NoError(t, err)

	// Nothing submitted: nothing changes.
	updated, err := Update(db, created.ID, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, updated.Status)

	status := models.TicketStatusInProgress
	updated, err = Update(db, created.ID, &status, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusInProgress, updated.Status)
	assert.Equal(t, models.TicketPriorityNormal, updated.Priority, "priority untouched")

	// Free-form status values are accepted as-is.
	custom := "waiting on vendor"
	updated, err = Update(db, created.ID, &custom, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "waiting on vendor", updated.Status)

	_, err = Update(db, 404, &status, nil, nil)
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestAddReplyValidation(t *testing.T) {
	db, author := setupTestDB(t)

	created, err := Create(db, author.ID, "Subject", "Body")
	require.NoError(t, err)

	_, err = AddReply(db, created.ID, author.ID, "", "")
	require.ErrorIs(t, err, ErrMessageEmpty)

	_, err = AddReply(db, 404, author.ID, "hello", "")
	require.ErrorIs(t, err, ErrTicketNotFound)

	reply, err := AddReply(db, created.ID, author.ID, "hello", "ref_file.png")
	require.NoError(t, err)
	assert.Equal(t, "ref_file.png", reply.Attachment)
}

func TestGetWithThreadPreloads(t *testing.T) {
	db, author := setupTestDB(t)

	created, err := Create(db, author.ID, "Subject", "Body")
	require.NoError(t, err)

	_, err = AddReply(db, created.ID, author.ID, "first", "")
	require.NoError(t, err)
	_, err = AddReply(db, created.ID, author.ID, "second", "")
	require.NoError(t, err)

	loaded, err := GetWithThread(db, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "author", loaded.Author.Username)
	require.Len(t, loaded.Replies, 2)
	assert.Equal(t, "first", loaded.Replies[0].Message)
	assert.Equal(t, "second", loaded.Replies[1].Message)
	assert.Equal(t, "author", loaded.Replies[0].Author.Username)
}

func TestCountByStatus(t *testing.T) {
	db, author := setupTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := Create(db, author.ID, "Subject", "Body")
		require.NoError(t, err)
	}

	one, err := Create(db, author.ID, "Subject", "Body")
	require.NoError(t, err)

	closed := models.TicketStatusClosed
	_, err = Update(db, one.ID, &closed, nil, nil)
	require.NoError(t, err)

	open, err := CountByStatus(db, models.TicketStatusOpen)
	require.NoError(t, err)
	assert.EqualValues(t, 3, open)

	closedCount, err := CountByStatus(db, models.TicketStatusClosed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, closedCount)

	inProgress, err := CountByStatus(db, models.TicketStatusInProgress)
	require.NoError(t, err)
	assert.Zero(t, inProgress)
}
