package services

import (
	"errors"
	"testing"

	"foodgram/models"
)

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []int64
		wantErr bool
	}{
		{"single", []int64{1}, false},
		{"several", []int64{1, 2, 3}, false},
		{"empty", nil, true},
		{"repeated", []int64{1, 2, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.tags)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateTags(%v) = %v", tt.tags, err)
			}
			if err != nil && !errors.Is(err, ErrEmptyOrDuplicateTags) {
				t.Errorf("expected ErrEmptyOrDuplicateTags, got %v", err)
			}
		})
	}
}

func TestValidateIngredients(t *testing.T) {
	tests := []struct {
		name  string
		items []IngredientAmount
		want  error
	}{
		{"valid", []IngredientAmount{{ID: 1, Amount: 2}, {ID: 2, Amount: 1}}, nil},
		{"empty", nil, ErrEmptyIngredientList},
		{"duplicate", []IngredientAmount{{ID: 1, Amount: 2}, {ID: 1, Amount: 3}}, ErrDuplicateIngredient},
		{"zero amount", []IngredientAmount{{ID: 1, Amount: 0}}, ErrNonPositiveAmount},
		{"negative amount", []IngredientAmount{{ID: 1, Amount: -4}}, ErrNonPositiveAmount},
		{"minimum amount", []IngredientAmount{{ID: 1, Amount: models.RECIPE_MIN_AMOUNT}}, nil},
		{"below minimum amount", []IngredientAmount{{ID: 1, Amount: models.RECIPE_MIN_AMOUNT - 1}}, ErrNonPositiveAmount},
		// duplicates are reported before amounts
		{"duplicate and zero", []IngredientAmount{{ID: 1, Amount: 0}, {ID: 1, Amount: 0}}, ErrDuplicateIngredient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngredients(tt.items)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected a validation error, got %T", err)
			}
		})
	}
}

func TestValidateCookingTime(t *testing.T) {
	if err := ValidateCookingTime(models.RECIPE_MIN_COOKING_TIME); err != nil {
		t.Errorf("the minimum should be valid: %v", err)
	}
	for _, m := range []int{models.RECIPE_MIN_COOKING_TIME - 1, -5} {
		if err := ValidateCookingTime(m); !errors.Is(err, ErrInvalidCookingTime) {
			t.Errorf("ValidateCookingTime(%d) = %v", m, err)
		}
	}
}

func TestValidateSubscription(t *testing.T) {
	if err := ValidateSubscription(1, 2, false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSubscription(1, 2, true); !errors.Is(err, ErrDuplicateSubscription) {
		t.Errorf("duplicate: got %v", err)
	}
	// self subscription wins over duplicate
	if err := ValidateSubscription(3, 3, true); !errors.Is(err, ErrSelfSubscription) {
		t.Errorf("self: got %v", err)
	}
}

func TestValidateToggle(t *testing.T) {
	if err := ValidateToggle(ToggleAdd, "favorites", false); err != nil {
		t.Errorf("add absent: %v", err)
	}
	if err := ValidateToggle(ToggleRemove, "favorites", true); err != nil {
		t.Errorf("remove present: %v", err)
	}
	if err := ValidateToggle(ToggleAdd, "favorites", true); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("add present: %v", err)
	}
	if err := ValidateToggle(ToggleRemove, "shopping cart", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove absent: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := invalidFields(map[string][]string{
		"name":  {"this field is required"},
		"email": {"enter a valid email address"},
	})
	want := "email: enter a valid email address; name: this field is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
}
