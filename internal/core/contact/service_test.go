package contact

import (
	"context"
	"testing"

	"recipe-finder/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	s := NewService(db)

	res := s.Submit(context.Background(), "cook@example.com", "Love the app")
	assert.True(t, res.Success)
	assert.Equal(t, "Message sent successfully!", res.Message)

	var rows []database.ContactMessageModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, StatusNew, rows[0].Status)
	assert.Equal(t, "cook@example.com", rows[0].Email)
}

func TestSubmit_RequiresFields(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	s := NewService(db)

	for _, tc := range []struct{ email, message string }{
		{"", "hello"},
		{"a@b.c", ""},
		{"  ", "  "},
	} {
		res := s.Submit(context.Background(), tc.email, tc.message)
		assert.False(t, res.Success)
		assert.Equal(t, "Email and message are required.", res.Message)
	}

	var count int64
	require.NoError(t, db.Model(&database.ContactMessageModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
