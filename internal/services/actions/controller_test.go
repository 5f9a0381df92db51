package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/testutil"
)

type fakeExecutor struct {
	commands []string
	response string
	err      error
}

func (f *fakeExecutor) Execute(ctx context.Context, command string) (string, error) {
	f.commands = append(f.commands, command)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestController(executor *fakeExecutor) *Controller {
	return NewController(executor, testutil.NopLogger())
}

func TestSaySendsQuotedMessage(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	require.NoError(t, controller.Say(context.Background(), "hello everyone"))
	require.Len(t, executor.commands, 1)
	assert.Equal(t, "say 'hello everyone'", executor.commands[0])
}

func TestSayRejectsEmptyMessage(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	err := controller.Say(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrEmptyMessage)
	assert.Empty(t, executor.commands)
}

func TestPM(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	require.NoError(t, controller.PM(context.Background(), "Nova", "check base"))
	require.Len(t, executor.commands, 1)
	assert.Equal(t, "pm 'Nova' 'check base'", executor.commands[0])

	assert.ErrorIs(t, controller.PM(context.Background(), "", "hi"), model.ErrEmptyTarget)
	assert.ErrorIs(t, controller.PM(context.Background(), "Nova", ""), model.ErrEmptyMessage)
}

func TestKickDefaultsReason(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	require.NoError(t, controller.Kick(context.Background(), "Nova", ""))
	require.Len(t, executor.commands, 1)
	assert.Equal(t, "kick 'Nova' 'N/A'", executor.commands[0])
}

func TestBanAndUnban(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	require.NoError(t, controller.Ban(context.Background(), "76561198000000001", "7d"))
	require.NoError(t, controller.Unban(context.Background(), "76561198000000001"))
	require.Len(t, executor.commands, 2)
	assert.Equal(t, "ban 76561198000000001 7d", executor.commands[0])
	assert.Equal(t, "unban 76561198000000001", executor.commands[1])

	assert.ErrorIs(t, controller.Ban(context.Background(), "", "1h"), model.ErrEmptyTarget)
}

func TestSave(t *testing.T) {
	executor := &fakeExecutor{}
	controller := newTestController(executor)

	require.NoError(t, controller.Save(context.Background()))
	require.Equal(t, []string{"save"}, executor.commands)
}

func TestRejectedCommandSurfacesResponse(t *testing.T) {
	executor := &fakeExecutor{response: "Player not found"}
	controller := newTestController(executor)

	err := controller.Kick(context.Background(), "Ghost", "afk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Player not found")
}

func TestExecuteErrorWrapped(t *testing.T) {
	transportErr := errors.New("connection reset")
	executor := &fakeExecutor{err: transportErr}
	controller := newTestController(executor)

	err := controller.Say(context.Background(), "hi")
	assert.ErrorIs(t, err, transportErr)
}
