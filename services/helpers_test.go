package services

import (
	"context"
	"os"
	"sync"
	"testing"

	"foodgram/models"
	"foodgram/storage"
	"foodgram/tools"

	"github.com/jinzhu/gorm"
)

func TestMain(m *testing.M) {
	tools.PasswordCost = 4
	os.Exit(m.Run())
}

// memoryStore is an ImageStore keeping images in a map.
type memoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return "http://images.test/" + name, nil
}

func testImage() *storage.Image {
	return &storage.Image{ContentType: "image/png", Ext: "png", Data: []byte("\x89PNG fake")}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func mustUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user, err := insertUser(db, UserInput{
		Email:     email,
		Username:  "user",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}, false)
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	return user
}

func mustTag(t *testing.T, db *gorm.DB, slug string) models.Tag {
	t.Helper()
	tag, err := CreateTag(db, TagInput{Name: slug, Slug: slug})
	if err != nil {
		t.Fatalf("create tag %s: %v", slug, err)
	}
	return tag
}

func mustIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient, err := CreateIngredient(db, IngredientInput{Name: name, MeasurementUnit: unit})
	if err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return ingredient
}

func recipeInput(name string, tags []int64, items ...IngredientAmount) RecipeInput {
	return RecipeInput{
		Name:        strPtr(name),
		Text:        strPtr("Mix and serve."),
		CookingTime: intPtr(10),
		Image:       testImage(),
		Tags:        tags,
		Ingredients: items,
	}
}

func mustRecipe(t *testing.T, db *gorm.DB, author models.User, in RecipeInput) RecipeView {
	t.Helper()
	view, err := CreateRecipe(context.Background(), db, newMemoryStore(), author, in)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	return view
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, where string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
