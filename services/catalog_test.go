package services

import (
	"errors"
	"testing"

	"foodgram/db/dbtest"
	"foodgram/models"
)

func TestSearchIngredients(t *testing.T) {
	db := dbtest.Open(t)
	for _, name := range []string{"Salt", "salmon", "sugar", "basalt", "50% cream"} {
		mustIngredient(t, db, name, "g")
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"sal", []string{"Salt", "salmon"}},
		{"SU", []string{"sugar"}},
		{"x", nil},
		{"50%", []string{"50% cream"}},
		{"5_", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := SearchIngredients(db, tt.prefix)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].Name != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}

	all, err := SearchIngredients(db, "")
	if err != nil || len(all) != 5 {
		t.Errorf("empty prefix: %d, %v", len(all), err)
	}
}

func TestSearchIngredients_NonASCII(t *testing.T) {
	db := dbtest.Open(t)
	mustIngredient(t, db, "Мука", "г")
	mustIngredient(t, db, "Молоко", "мл")
	mustIngredient(t, db, "Éclair", "pcs")

	tests := []struct {
		prefix string
		want   string
	}{
		{"Мук", "Мука"},
		{"мук", "Мука"},
		{"МУКА", "Мука"},
		{"мол", "Молоко"},
		{"éC", "Éclair"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := SearchIngredients(db, tt.prefix)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0].Name != tt.want {
				t.Errorf("SearchIngredients(%q) = %+v, want [%s]", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCreateIngredient_Unique(t *testing.T) {
	db := dbtest.Open(t)
	mustIngredient(t, db, "milk", "ml")
	if _, err := CreateIngredient(db, IngredientInput{Name: "milk", MeasurementUnit: "l"}); err != nil {
		t.Errorf("same name, other unit: %v", err)
	}
	if _, err := CreateIngredient(db, IngredientInput{Name: "milk", MeasurementUnit: "ml"}); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate: %v", err)
	}
	if _, err := CreateIngredient(db, IngredientInput{Name: "milk"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing unit: %v", err)
	}
	if _, err := GetIngredient(db, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ingredient: %v", err)
	}
}

func TestCreateTag(t *testing.T) {
	db := dbtest.Open(t)

	tag, err := CreateTag(db, TagInput{Name: "Breakfast", Slug: "breakfast"})
	if err != nil {
		t.Fatal(err)
	}
	if tag.Color != models.TAG_DEFAULT_COLOR {
		t.Errorf("color = %q, want default", tag.Color)
	}

	tests := []struct {
		name string
		in   TagInput
	}{
		{"duplicate slug", TagInput{Name: "Other", Slug: "breakfast"}},
		{"bad slug", TagInput{Name: "Other", Slug: "two words"}},
		{"bad color", TagInput{Name: "Other", Slug: "other", Color: "blue"}},
		{"short color", TagInput{Name: "Other", Slug: "other", Color: "#fff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateTag(db, tt.in); !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}

	tags, err := ListTags(db)
	if err != nil || len(tags) != 1 {
		t.Errorf("ListTags = %+v, %v", tags, err)
	}
	if got, err := GetTag(db, tag.ID); err != nil || got.Slug != "breakfast" {
		t.Errorf("GetTag = %+v, %v", got, err)
	}
}
