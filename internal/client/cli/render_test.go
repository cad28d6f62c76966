package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
)

func TestRenderTasks(t *testing.T) {
	owner := "alice@x.io"
	tasks := []models.Task{
		{ID: 1, Title: "Buy milk", Status: models.StatusCreated, CreatedAt: models.Timestamp{Time: time.Now().Add(-time.Hour)}, CreatedBy: &owner},
		{ID: 2, Title: "Walk dog", Status: models.StatusCompleted},
	}

	t.Run("admin with owners", func(t *testing.T) {
		got := renderTasks(tasks, true)
		lines := strings.Split(got, "\n")
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], "CREATED BY")
		assert.Contains(t, lines[1], "alice@x.io")
		assert.Contains(t, lines[1], "1 hour ago")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "-"), "missing owner and time print as dashes")
	})

	t.Run("regular user", func(t *testing.T) {
		got := renderTasks(tasks, false)
		assert.NotContains(t, got, "CREATED BY")
		assert.NotContains(t, got, "alice@x.io")
		assert.Contains(t, got, "Walk dog")
	})

	t.Run("admin without owners", func(t *testing.T) {
		got := renderTasks(tasks[1:], true)
		assert.NotContains(t, got, "CREATED BY")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No tasks yet", renderTasks(nil, true))
	})
}

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, "[success] Task created", formatNotification(models.Success("Task created")))
	assert.Equal(t, "[error] Failed to delete task", formatNotification(models.Failure("Failed to delete task")))
}

func TestPrintErr(t *testing.T) {
	out := capturePrint(t)

	printErr(&services.ValidationError{Fields: map[string]string{
		services.FieldEmail:    "Please enter a valid email",
		services.FieldPassword: "Password must be at least 8 characters",
	}})
	printErr(services.ErrAlreadyCompleted)

	assert.Equal(t, []string{
		"email: Please enter a valid email",
		"password: Password must be at least 8 characters",
		"Task is already completed",
	}, *out)
}

func TestParseID(t *testing.T) {
	capturePrint(t)

	id, err := parseID("edit", " 42 ")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "x", "0", "-3"} {
		_, err := parseID("edit", bad)
		assert.ErrorIs(t, err, errUsage, bad)
	}
}
