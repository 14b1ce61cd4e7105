package db

import (
	"fmt"
	"strings"

	"foodgram/models"

	"github.com/jinzhu/gorm"
)

type foreignKey struct {
	name, table, column, ref, onDelete string
}

// Deletion policy: recipes survive their author (SET NULL); every link and
// relation row dies with either endpoint (CASCADE). The services repeat these
// deletes explicitly so sqlite, which has no constraints here, behaves the same.
var foreignKeys = []foreignKey{
	{"fk_recipes_author", "recipes", "author_id", "users(id)", "SET NULL"},
	{"fk_recipe_ingredients_recipe", "recipe_ingredients", "recipe_id", "recipes(id)", "CASCADE"},
	{"fk_recipe_ingredients_ingredient", "recipe_ingredients", "ingredient_id", "ingredients(id)", "CASCADE"},
	{"fk_recipe_tags_recipe", "recipe_tags", "recipe_id", "recipes(id)", "CASCADE"},
	{"fk_recipe_tags_tag", "recipe_tags", "tag_id", "tags(id)", "CASCADE"},
	{"fk_subscriptions_subscriber", "subscriptions", "subscriber_id", "users(id)", "CASCADE"},
	{"fk_subscriptions_author", "subscriptions", "author_id", "users(id)", "CASCADE"},
	{"fk_favorite_recipes_user", "favorite_recipes", "user_id", "users(id)", "CASCADE"},
	{"fk_favorite_recipes_recipe", "favorite_recipes", "recipe_id", "recipes(id)", "CASCADE"},
	{"fk_shopping_list_entries_user", "shopping_list_entries", "user_id", "users(id)", "CASCADE"},
	{"fk_shopping_list_entries_recipe", "shopping_list_entries", "recipe_id", "recipes(id)", "CASCADE"},
}

// Migrate creates or updates every table and, on postgres, the foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...).Error; err != nil {
		return fmt.Errorf("db: automigrate: %w", err)
	}
	if err := backfillIngredientNames(db); err != nil {
		return err
	}

	if db.Dialect().GetName() != "postgres" {
		return nil
	}

	for _, fk := range foreignKeys {
		if db.Dialect().HasForeignKey(fk.table, fk.name) {
			continue
		}
		stmt := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE %s ON UPDATE CASCADE",
			fk.table, fk.name, fk.column, fk.ref, fk.onDelete,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("db: adding %s: %w", fk.name, err)
		}
	}

	// Subscriptions are irreflexive; the services check it first.
	err := db.Exec("ALTER TABLE subscriptions ADD CONSTRAINT ck_subscriptions_not_self CHECK (subscriber_id <> author_id)").Error
	if err != nil && !IsDuplicateObject(err) {
		return fmt.Errorf("db: adding subscription check: %w", err)
	}
	return nil
}

// backfillIngredientNames fills name_lower for rows written before the
// column existed.
func backfillIngredientNames(db *gorm.DB) error {
	var stale []models.Ingredient
	if err := db.Where("name_lower = ''").Find(&stale).Error; err != nil {
		return fmt.Errorf("db: loading ingredients: %w", err)
	}
	for _, ing := range stale {
		err := db.Model(&models.Ingredient{}).Where("id = ?", ing.ID).
			UpdateColumn("name_lower", strings.ToLower(ing.Name)).Error
		if err != nil {
			return fmt.Errorf("db: backfilling ingredient %d: %w", ing.ID, err)
		}
	}
	return nil
}
