package services

import (
	"fmt"

	"foodgram/models"
)

// IngredientAmount is one ingredient line of a recipe write.
type IngredientAmount struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount"`
}

// ToggleOp is the direction of a relationship toggle.
type ToggleOp int

const (
	ToggleAdd ToggleOp = iota
	ToggleRemove
)

// ValidateTags fails when tags is empty or repeats an id.
func ValidateTags(tags []int64) error {
	if len(tags) == 0 {
		return newValidationError("tags", ErrEmptyOrDuplicateTags)
	}
	seen := make(map[int64]struct{}, len(tags))
	for _, id := range tags {
		if _, dup := seen[id]; dup {
			return newValidationError("tags", ErrEmptyOrDuplicateTags)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateIngredients fails on an empty list, a repeated ingredient id or
// an amount below 1, checked in that order.
func ValidateIngredients(items []IngredientAmount) error {
	if len(items) == 0 {
		return newValidationError("ingredients", ErrEmptyIngredientList)
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return newValidationError("ingredients", ErrDuplicateIngredient)
		}
		seen[it.ID] = struct{}{}
	}
	for _, it := range items {
		if it.Amount < models.RECIPE_MIN_AMOUNT {
			return newValidationError("ingredients", ErrNonPositiveAmount)
		}
	}
	return nil
}

// ValidateCookingTime fails when minutes is below models.RECIPE_MIN_COOKING_TIME.
func ValidateCookingTime(minutes int) error {
	if minutes < models.RECIPE_MIN_COOKING_TIME {
		return newValidationError("cooking_time", ErrInvalidCookingTime)
	}
	return nil
}

// ValidateSubscription rejects self subscription first, then duplicates.
func ValidateSubscription(subscriberID, authorID int64, exists bool) error {
	if subscriberID == authorID {
		return ErrSelfSubscription
	}
	if exists {
		return ErrDuplicateSubscription
	}
	return nil
}

// ValidateToggle checks a favorite or cart toggle against the current
// state of the relation.
func ValidateToggle(op ToggleOp, relation string, exists bool) error {
	switch {
	case op == ToggleAdd && exists:
		return fmt.Errorf("recipe is already in %s: %w", relation, ErrAlreadyExists)
	case op == ToggleRemove && !exists:
		return fmt.Errorf("recipe is not in %s: %w", relation, ErrNotFound)
	}
	return nil
}
