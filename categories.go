package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// defaultCategories are visible to every user and cannot be deleted
var defaultCategories = map[TransactionType][]string{
	TransactionIncome: {"Salary", "Freelance", "Investment", "Bank Transfer", "Other"},
	TransactionExpense: {
		"Food",
		"Transportation",
		"Housing",
		"Entertainment",
		"Shopping",
		"Healthcare",
		"Education",
		"Travel",
		"Gifts",
		"Bills",
		"Other",
	},
}

// SeedDefaultCategories inserts the default categories unless some already
// exist. It is safe to run on every start.
func SeedDefaultCategories(ctx context.Context, store Store) (int, error) {
	existing, err := store.CountDefaultCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count default categories: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	var cats []Category
	for _, typ := range []TransactionType{TransactionIncome, TransactionExpense} {
		for _, name := range defaultCategories[typ] {
			cats = append(cats, Category{Name: name, Type: typ, IsDefault: true})
		}
	}
	if err := store.InsertDefaultCategories(ctx, cats); err != nil {
		return 0, fmt.Errorf("insert default categories: %w", err)
	}
	return len(cats), nil
}

// CategoryGroups is the category listing split by type
type CategoryGroups struct {
	Income  []CategoryView `json:"income"`
	Expense []CategoryView `json:"expense"`
}

// CategoryView decorates a category for listing
type CategoryView struct {
	Category
	IsCustom bool `json:"isCustom"`
}

func groupCategories(cats []Category) CategoryGroups {
	groups := CategoryGroups{Income: []CategoryView{}, Expense: []CategoryView{}}
	for _, c := range cats {
		view := CategoryView{Category: c, IsCustom: !c.IsDefault}
		switch c.Type {
		case TransactionIncome:
			groups.Income = append(groups.Income, view)
		case TransactionExpense:
			groups.Expense = append(groups.Expense, view)
		}
	}
	return groups
}

// CreateCategory adds a custom category unless the user or the defaults
// already have one with the same name (any case) and type.
func (s *Server) CreateCategory(ctx context.Context, userID, name string, typ TransactionType) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, invalid("Category name is required")
	}
	if !typ.Valid() {
		return Category{}, invalid("Category type must be income or expense")
	}

	exists, err := s.store.CategoryExists(ctx, userID, name, typ)
	if err != nil {
		return Category{}, dependency("check category", err)
	}
	if exists {
		return Category{}, ErrDuplicateCategory
	}

	owner := userID
	category := Category{Name: name, Type: typ, UserID: &owner}
	if err := s.store.CreateCategory(ctx, &category); err != nil {
		if errors.Is(err, ErrDuplicateCategory) {
			return Category{}, err
		}
		return Category{}, dependency("create category", err)
	}
	return category, nil
}

// DeleteCategory removes one of the user's custom categories. Default
// categories are refused for everyone.
func (s *Server) DeleteCategory(ctx context.Context, userID, id string) error {
	category, err := s.store.GetVisibleCategory(ctx, userID, id)
	if err != nil {
		return named(err, "Category")
	}
	if category.IsDefault {
		return ErrDefaultCategory
	}
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return named(err, "Category")
	}
	return nil
}
