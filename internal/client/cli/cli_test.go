package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/client/auth"
	"github.com/voyago/tripsync/internal/client/data"
	"github.com/voyago/tripsync/internal/client/iocli"
	"github.com/voyago/tripsync/internal/client/resolver"
	"github.com/voyago/tripsync/internal/client/storage/boltdb"
	clientsync "github.com/voyago/tripsync/internal/client/sync"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/pkg/api"
)

// scriptedIO replays canned answers for prompts and captures all output.
func scriptedIO(t *testing.T, answers ...string) (*iocli.IOMock, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	next := 0

	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			fmt.Fprintln(&out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(&out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			if next >= len(answers) {
				t.Fatalf("unexpected prompt %q", prompt)
			}
			answer := answers[next]
			next++
			return answer, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			if next >= len(answers) {
				t.Fatalf("unexpected password prompt %q", prompt)
			}
			answer := answers[next]
			next++
			return answer, nil
		},
	}, &out
}

func newTestCli(t *testing.T, apiMock *clientsync.ClientAPIMock, ioMock *iocli.IOMock) *Cli {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewWithDeviceID("device-a")

	session := auth.NewSession(apiMock, store, logger)
	dataSvc := data.NewService(store, store, clk)
	engine := clientsync.NewEngine(
		apiMock, session, store, store, store, store,
		resolver.Default(), clk, clientsync.DefaultSettings(), logger,
	)

	return New(ioMock, session, dataSvc, engine, nil)
}

func loginResponder() *clientsync.ClientAPIMock {
	return &clientsync.ClientAPIMock{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
			return &api.TokenResponse{
				UserID:       "user-1",
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
			}, nil
		},
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	ioMock, out := scriptedIO(t)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)

	err := c.Run(context.Background(), "teleport", nil)
	assert.ErrorContains(t, err, "unknown command")
	assert.Contains(t, out.String(), "Usage:")
}

func TestLogin(t *testing.T) {
	ioMock, out := scriptedIO(t, "alice", "password123")
	c := newTestCli(t, loginResponder(), ioMock)

	err := c.Run(context.Background(), "login", nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Login successful")
	assert.Contains(t, out.String(), "alice")
}

func TestStatus_NotAuthenticated(t *testing.T) {
	ioMock, out := scriptedIO(t)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)

	err := c.Run(context.Background(), "status", nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Not signed in")
}

func TestTrip_AddAndList(t *testing.T) {
	ioMock, out := scriptedIO(t,
		"Summer in Portugal", "Lisbon", "2026-07-01", "2026-07-14", "Two weeks of sun",
	)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "trip", []string{"add"}))
	assert.Contains(t, out.String(), "Trip created")

	out.Reset()
	require.NoError(t, c.Run(ctx, "trip", []string{"list"}))
	assert.Contains(t, out.String(), "Summer in Portugal")
	assert.Contains(t, out.String(), "Lisbon")
	assert.Contains(t, out.String(), "2026-07-01 to 2026-07-14")
}

func TestTrip_AddRequiresTitle(t *testing.T) {
	ioMock, _ := scriptedIO(t, "", "", "", "", "")
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)

	err := c.Run(context.Background(), "trip", []string{"add"})
	assert.ErrorContains(t, err, "title is required")
}

func TestTrip_DeleteAborted(t *testing.T) {
	ioMock, out := scriptedIO(t,
		"Weekend", "Porto", "", "", "",
		"n",
	)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "trip", []string{"add"}))

	trips, err := c.data.ListTrips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)

	require.NoError(t, c.Run(ctx, "trip", []string{"delete", trips[0].ID}))
	assert.Contains(t, out.String(), "Aborted")

	trips, err = c.data.ListTrips(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 1, "aborted delete must keep the trip")
}

func TestPoll_FullFlow(t *testing.T) {
	ioMock, out := scriptedIO(t,
		"alice", "password123", // login
		"Group trip", "Lisbon", "", "", "", // trip add
		"Which beach?", "", // poll create
		"Guincho", // option
		"Costa",   // option
	)
	c := newTestCli(t, loginResponder(), ioMock)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, "login", nil))
	require.NoError(t, c.Run(ctx, "trip", []string{"add"}))

	trips, err := c.data.ListTrips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 1)

	require.NoError(t, c.Run(ctx, "poll", []string{"create", trips[0].ID}))

	polls, err := c.data.ListPolls(ctx, trips[0].ID)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	pollID := polls[0].ID

	require.NoError(t, c.Run(ctx, "poll", []string{"option", pollID}))
	require.NoError(t, c.Run(ctx, "poll", []string{"option", pollID}))

	options, err := c.data.PollResults(ctx, pollID)
	require.NoError(t, err)
	require.Len(t, options, 2)

	out.Reset()
	require.NoError(t, c.Run(ctx, "poll", []string{"vote", pollID, options[0].ID}))
	assert.Contains(t, out.String(), "Vote recorded")

	out.Reset()
	require.NoError(t, c.Run(ctx, "poll", []string{"results", pollID}))
	assert.Contains(t, out.String(), options[0].Text)
}

func TestConflicts_ResolveBadChoice(t *testing.T) {
	ioMock, _ := scriptedIO(t)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)

	err := c.Run(context.Background(), "conflicts", []string{"resolve", "1", "flip-a-coin"})
	assert.ErrorContains(t, err, "mine")

	err = c.Run(context.Background(), "conflicts", []string{"resolve", "abc", "mine"})
	assert.ErrorContains(t, err, "queue id")
}

func TestConflicts_ListEmpty(t *testing.T) {
	ioMock, out := scriptedIO(t)
	c := newTestCli(t, &clientsync.ClientAPIMock{}, ioMock)

	require.NoError(t, c.Run(context.Background(), "conflicts", nil))
	assert.Contains(t, out.String(), "No conflicts")
}
