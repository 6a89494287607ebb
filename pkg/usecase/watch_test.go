package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kensho-lab/acwatch/pkg/repository/memory"
	"github.com/kensho-lab/acwatch/pkg/usecase"
)

func TestWatchUseCase_RegisterUsers(t *testing.T) {
	t.Run("comma-separated names are trimmed and added", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewWatchUseCase(repo)
		ctx := context.Background()

		added, err := uc.RegisterUsers(ctx, " alice, bob ,carol")
		gt.NoError(t, err).Required()
		gt.Value(t, added).Equal([]string{"alice", "bob", "carol"})

		users, err := uc.ListUsers(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, users).Equal([]string{"alice", "bob", "carol"})
	})

	t.Run("registering the same name twice yields one entry", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewWatchUseCase(repo)
		ctx := context.Background()

		_, err := uc.RegisterUsers(ctx, "alice")
		gt.NoError(t, err).Required()
		added, err := uc.RegisterUsers(ctx, "alice,alice")
		gt.NoError(t, err).Required()
		gt.Array(t, added).Length(0)

		users, err := uc.ListUsers(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, users).Equal([]string{"alice"})
	})

	t.Run("invalid names are rejected", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewWatchUseCase(repo)

		_, err := uc.RegisterUsers(context.Background(), "not a name!")
		gt.Error(t, err)
	})

	t.Run("roster survives a new use case instance", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		_, err := usecase.NewWatchUseCase(repo).RegisterUsers(ctx, "alice")
		gt.NoError(t, err).Required()

		users, err := usecase.NewWatchUseCase(repo).ListUsers(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, users).Equal([]string{"alice"})
	})
}

func TestWatchUseCase_UnregisterUser(t *testing.T) {
	repo := memory.New()
	uc := usecase.NewWatchUseCase(repo)
	ctx := context.Background()

	_, err := uc.RegisterUsers(ctx, "alice,bob")
	gt.NoError(t, err).Required()

	// removing a never-registered name is a no-op, not an error
	gt.NoError(t, uc.UnregisterUser(ctx, "mallory"))

	gt.NoError(t, uc.UnregisterUser(ctx, "alice"))
	users, err := uc.ListUsers(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, users).Equal([]string{"bob"})
}

func TestWatchUseCase_SetChannel(t *testing.T) {
	repo := memory.New()
	uc := usecase.NewWatchUseCase(repo)
	ctx := context.Background()

	gt.Error(t, uc.SetChannel(ctx, ""))
	gt.NoError(t, uc.SetChannel(ctx, "C0123456789"))

	cfg, err := uc.Get(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Channel).Equal("C0123456789")
}

func TestWatchUseCase_EmptyDefaults(t *testing.T) {
	repo := memory.New()
	uc := usecase.NewWatchUseCase(repo)
	ctx := context.Background()

	cfg, err := uc.Get(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Channel).Equal("")
	gt.Array(t, cfg.Users).Length(0)

	users, err := uc.ListUsers(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, users).Length(0)
}
