package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededEnv(t *testing.T) testEnv {
	t.Helper()
	env := newTestEnv(t)
	n, err := SeedDefaultCategories(context.Background(), env.store)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	return env
}

func findCategory(t *testing.T, store Store, userID, name string, typ TransactionType) Category {
	t.Helper()
	cats, err := store.ListCategories(context.Background(), userID)
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == name && c.Type == typ {
			return c
		}
	}
	t.Fatalf("category %s/%s not found", name, typ)
	return Category{}
}

func TestSeedDefaultCategoriesIsIdempotent(t *testing.T) {
	env := seededEnv(t)
	ctx := context.Background()

	n, err := SeedDefaultCategories(ctx, env.store)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := env.store.CountDefaultCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, count)
}

func TestCreateCategoryRejectsDefaultDuplicateAnyCase(t *testing.T) {
	env := seededEnv(t)

	_, err := env.server.CreateCategory(context.Background(), "user-1", "food", TransactionExpense)
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.server.CreateCategory(context.Background(), "user-1", "  FOOD ", TransactionExpense)
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestCreateCategorySameNameOtherType(t *testing.T) {
	env := seededEnv(t)

	category, err := env.server.CreateCategory(context.Background(), "user-1", "Food", TransactionIncome)
	require.NoError(t, err)
	assert.False(t, category.IsDefault)
	require.NotNil(t, category.UserID)
	assert.Equal(t, "user-1", *category.UserID)
}

func TestCreateCategoryDuplicatesAreScopedPerUser(t *testing.T) {
	env := seededEnv(t)
	ctx := context.Background()

	_, err := env.server.CreateCategory(ctx, "user-1", "Pets", TransactionExpense)
	require.NoError(t, err)

	_, err = env.server.CreateCategory(ctx, "user-1", "pets", TransactionExpense)
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = env.server.CreateCategory(ctx, "user-2", "Pets", TransactionExpense)
	assert.NoError(t, err)
}

func TestCreateCategoryValidation(t *testing.T) {
	env := seededEnv(t)

	_, err := env.server.CreateCategory(context.Background(), "user-1", "   ", TransactionExpense)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.server.CreateCategory(context.Background(), "user-1", "Pets", "transfer")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteDefaultCategoryIsRejected(t *testing.T) {
	env := seededEnv(t)
	ctx := context.Background()
	food := findCategory(t, env.store, "user-1", "Food", TransactionExpense)

	for _, user := range []string{"user-1", "user-2"} {
		err := env.server.DeleteCategory(ctx, user, food.ID)
		assert.ErrorIs(t, err, ErrDefaultCategory)
	}
	assert.Equal(t, food.ID, findCategory(t, env.store, "user-1", "Food", TransactionExpense).ID)
}

func TestDeleteCustomCategory(t *testing.T) {
	env := seededEnv(t)
	ctx := context.Background()
	pets, err := env.server.CreateCategory(ctx, "user-1", "Pets", TransactionExpense)
	require.NoError(t, err)

	err = env.server.DeleteCategory(ctx, "user-2", pets.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.server.DeleteCategory(ctx, "user-1", pets.ID))
	err = env.server.DeleteCategory(ctx, "user-1", pets.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupCategories(t *testing.T) {
	env := seededEnv(t)
	ctx := context.Background()
	_, err := env.server.CreateCategory(ctx, "user-1", "Pets", TransactionExpense)
	require.NoError(t, err)
	_, err = env.server.CreateCategory(ctx, "user-2", "Hidden", TransactionExpense)
	require.NoError(t, err)

	cats, err := env.store.ListCategories(ctx, "user-1")
	require.NoError(t, err)
	groups := groupCategories(cats)

	assert.Len(t, groups.Income, 5)
	assert.Len(t, groups.Expense, 12)

	custom := 0
	for _, c := range groups.Expense {
		assert.NotEqual(t, "Hidden", c.Name)
		if c.IsCustom {
			custom++
			assert.Equal(t, "Pets", c.Name)
		}
	}
	assert.Equal(t, 1, custom)
	assert.Equal(t, "Bank Transfer", groups.Income[0].Name)
}
