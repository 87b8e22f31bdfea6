package services

import (
	"context"
	"testing"

	"github.com/nimasrn/banking-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedService_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeder := NewSeedService(env.users, env.customers, env.accounts)

	require.NoError(t, seeder.Seed(ctx))

	users, err := env.users.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, users, 7)
	count, err := env.accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	rahul, err := env.users.GetByUserName(ctx, "rahul")
	require.NoError(t, err)
	accounts, err := env.accounts.ListByCustomer(ctx, *rahul.CustomerID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, dec("12000").Equal(accounts[0].Balance))

	require.NoError(t, seeder.Seed(ctx))

	users, err = env.users.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 7)
	count, err = env.accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestSeedService_RepairsEmptyAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeder := NewSeedService(env.users, env.customers, env.accounts)
	require.NoError(t, seeder.Seed(ctx))

	sneha, err := env.users.GetByUserName(ctx, "sneha")
	require.NoError(t, err)
	accounts, err := env.accounts.ListByCustomer(ctx, *sneha.CustomerID)
	require.NoError(t, err)
	require.NoError(t, env.accounts.UpdateBalance(ctx, accounts[0].ID, dec("0")))

	require.NoError(t, seeder.Seed(ctx))
	assert.True(t, dec("7400").Equal(env.balance(t, accounts[0].ID)))
}

func TestSeedService_AdminCanLogIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, NewSeedService(env.users, env.customers, env.accounts).Seed(ctx))

	resp, err := env.authService().Login(ctx, model.LoginRequest{Email: "admin@hcl.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", resp.Role)
	assert.True(t, resp.KycCompleted)
}
