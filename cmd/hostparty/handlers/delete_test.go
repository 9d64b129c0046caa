package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostparty/hostparty/internal/provisioning/destroy"
)

func TestDelete_AllWithYes(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()

	require.NoError(t, Delete(context.Background(), Globals{}, DeleteOptions{All: true, Yes: true}))

	require.Len(t, env.instances.Deleted, 2)
	assert.Equal(t, "party-abcde", env.instances.Deleted[0].Name)
	assert.Equal(t, "party-xyz12", env.instances.Deleted[1].Name)
	require.Len(t, env.dns.Deleted, 2)
	assert.Equal(t, []string{"example.com"}, env.dns.Commits)
	assert.Contains(t, env.out.String(), "2 instances and 2 records deleted")

	logs := env.logs.String()
	assert.Contains(t, logs, "Deleting instance for id abcde...")
	assert.Contains(t, logs, "Deleting domain name for id q1w2e...")
	assert.Contains(t, logs, "Applying the DNS changes...")
	assert.Contains(t, logs, "Done!")
}

func TestDelete_Exclude(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()

	opts := DeleteOptions{All: true, Exclude: []string{"abcde"}, Yes: true}
	require.NoError(t, Delete(context.Background(), Globals{}, opts))

	require.Len(t, env.instances.Deleted, 1)
	assert.Equal(t, "party-xyz12", env.instances.Deleted[0].Name)
	require.Len(t, env.dns.Deleted, 1)
	assert.Equal(t, "q1w2e.party", env.dns.Deleted[0].SubDomain)
}

func TestDelete_DryRun(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()

	require.NoError(t, Delete(context.Background(), Globals{}, DeleteOptions{All: true, DryRun: true}))

	assert.Empty(t, env.instances.Deleted)
	assert.Empty(t, env.dns.Deleted)
	assert.Empty(t, env.dns.Commits)
	assert.Contains(t, env.logs.String(), "Running in dry-run mode.")
	assert.Contains(t, env.out.String(), "would be deleted")
}

func TestDelete_RefusesWithoutTerminal(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()

	err := Delete(context.Background(), Globals{}, DeleteOptions{Servers: []string{"abcde"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, env.instances.Deleted)
	assert.Empty(t, env.dns.Commits)
}

func TestDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name    string
		answer  bool
		wantErr error
		deleted int
	}{
		{name: "confirmed", answer: true, deleted: 1},
		{name: "declined", answer: false, wantErr: ErrAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.seed()
			isTerminal = func() bool { return true }
			var asked []string
			confirm = func(_ context.Context, labels []string) (bool, error) {
				asked = labels
				return tt.answer, nil
			}

			err := Delete(context.Background(), Globals{}, DeleteOptions{Servers: []string{"abcde"}})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"abcde"}, asked)
			assert.Len(t, env.instances.Deleted, tt.deleted)
		})
	}
}

func TestDelete_ConfirmationError(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()
	isTerminal = func() bool { return true }
	confirm = func(context.Context, []string) (bool, error) {
		return false, errors.New("tty gone")
	}

	err := Delete(context.Background(), Globals{}, DeleteOptions{All: true})
	require.Error(t, err)
	assert.Empty(t, env.instances.Deleted)
}

func TestDelete_UnknownServer(t *testing.T) {
	env := setupTestEnv(t)
	env.seed()

	err := Delete(context.Background(), Globals{}, DeleteOptions{Servers: []string{"abcde", "ghost"}, Yes: true})
	require.Error(t, err)

	var lookupErr *destroy.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, []string{"ghost"}, lookupErr.Labels)
	assert.Empty(t, env.instances.Deleted)
}

func TestDelete_InvalidSelection(t *testing.T) {
	env := setupTestEnv(t)

	err := Delete(context.Background(), Globals{}, DeleteOptions{Exclude: []string{"abcde"}})
	require.Error(t, err)
	assert.Zero(t, env.loads, "the selection is checked before loading the config")
}

func TestDelete_NothingSelectedStillCommits(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, Delete(context.Background(), Globals{}, DeleteOptions{All: true}))

	assert.Contains(t, env.logs.String(), "No server matches the selection")
	assert.Equal(t, []string{"example.com"}, env.dns.Commits)
}
