package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "foodgram/db"
	"foodgram/logging"
	"foodgram/models"
	"foodgram/storage"

	"github.com/jinzhu/gorm"
)

const recipeNameMaxLen = 200

// RecipeInput is a recipe write. Nil scalars are left untouched on update
// and are required on create. Tags and Ingredients always replace the
// current sets.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *storage.Image
	Tags        []int64
	Ingredients []IngredientAmount

	// AuthorID is set when the client tried to send an author.
	AuthorID *int64
}

// RecipeFilter narrows ListRecipes. Tags match by slug, any of them.
// IsFavorited and IsInShoppingCart are ignored for anonymous viewers.
type RecipeFilter struct {
	AuthorID         int64
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

func (in RecipeInput) validate(create bool) error {
	if create {
		switch {
		case in.Name == nil:
			return Invalid("name", "this field is required")
		case in.Text == nil:
			return Invalid("text", "this field is required")
		case in.CookingTime == nil:
			return Invalid("cooking_time", "this field is required")
		case in.Image == nil:
			return Invalid("image", "this field is required")
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Invalid("name", "this field may not be blank")
		}
		if len([]rune(name)) > recipeNameMaxLen {
			return Invalid("name", fmt.Sprintf("ensure this field has no more than %d characters", recipeNameMaxLen))
		}
	}
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return Invalid("text", "this field may not be blank")
	}
	if in.CookingTime != nil {
		if err := ValidateCookingTime(*in.CookingTime); err != nil {
			return err
		}
	}
	if err := ValidateTags(in.Tags); err != nil {
		return err
	}
	return ValidateIngredients(in.Ingredients)
}

// checkReferences verifies every tag and ingredient id exists.
func checkReferences(tx *gorm.DB, tags []int64, items []IngredientAmount) error {
	var n int
	if err := tx.Model(&models.Tag{}).Where("id IN (?)", tags).Count(&n).Error; err != nil {
		return err
	}
	if n != len(tags) {
		return Invalid("tags", "unknown tag id")
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if err := tx.Model(&models.Ingredient{}).Where("id IN (?)", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != len(ids) {
		return Invalid("ingredients", "unknown ingredient id")
	}
	return nil
}

// replaceRecipeLinks swaps the tag and ingredient sets of recipeID.
func replaceRecipeLinks(tx *gorm.DB, recipeID int64, tags []int64, items []IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	for _, tagID := range tags {
		if err := tx.Create(&models.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
			return err
		}
	}
	for _, it := range items {
		link := models.RecipeIngredient{RecipeID: recipeID, IngredientID: it.ID, Amount: it.Amount}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func storeImage(ctx context.Context, images storage.ImageStore, img *storage.Image) (string, error) {
	if images == nil {
		return "", errors.New("no image store configured")
	}
	url, err := storage.SaveImage(ctx, images, *img)
	if err != nil {
		return "", fmt.Errorf("saving recipe image: %w", err)
	}
	return url, nil
}

// CreateRecipe validates in and stores the recipe with its tags and
// ingredients in one transaction, authored by author.
func CreateRecipe(ctx context.Context, db *gorm.DB, images storage.ImageStore, author models.User, in RecipeInput) (RecipeView, error) {
	if err := in.validate(true); err != nil {
		return RecipeView{}, err
	}

	url, err := storeImage(ctx, images, in.Image)
	if err != nil {
		return RecipeView{}, err
	}

	authorID := author.ID
	recipe := models.Recipe{
		Name:        strings.TrimSpace(*in.Name),
		Image:       url,
		Text:        *in.Text,
		AuthorID:    &authorID,
		CookingTime: *in.CookingTime,
		PubDate:     time.Now().UTC(),
	}

	err = inTx(db, func(tx *gorm.DB) error {
		if err := checkReferences(tx, in.Tags, in.Ingredients); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return replaceRecipeLinks(tx, recipe.ID, in.Tags, in.Ingredients)
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return RecipeView{}, fmt.Errorf("recipe: %w", ErrAlreadyExists)
		}
		return RecipeView{}, err
	}

	logging.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Int64("author_id", author.ID).Msg("recipe created")
	return GetRecipe(db, recipe.ID, &author)
}

func canModify(actor models.User, r models.Recipe) bool {
	if actor.Admin {
		return true
	}
	return r.AuthorID != nil && *r.AuthorID == actor.ID
}

// UpdateRecipe applies in to recipe id. Only the author or an admin may
// update; tags and ingredients are replaced atomically.
func UpdateRecipe(ctx context.Context, db *gorm.DB, images storage.ImageStore, actor models.User, id int64, in RecipeInput) (RecipeView, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		return RecipeView{}, notFound(err, "recipe")
	}
	if !canModify(actor, recipe) {
		return RecipeView{}, ErrForbidden
	}
	if in.AuthorID != nil && (recipe.AuthorID == nil || *in.AuthorID != *recipe.AuthorID) {
		return RecipeView{}, newValidationError("author", ErrAuthorChangeForbidden)
	}
	if err := in.validate(false); err != nil {
		return RecipeView{}, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.CookingTime != nil {
		fields["cooking_time"] = *in.CookingTime
	}
	if in.Image != nil {
		url, err := storeImage(ctx, images, in.Image)
		if err != nil {
			return RecipeView{}, err
		}
		fields["image"] = url
	}

	err := inTx(db, func(tx *gorm.DB) error {
		if err := checkReferences(tx, in.Tags, in.Ingredients); err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&recipe).Updates(fields).Error; err != nil {
				return err
			}
		}
		return replaceRecipeLinks(tx, recipe.ID, in.Tags, in.Ingredients)
	})
	if err != nil {
		return RecipeView{}, err
	}

	logging.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Int64("actor_id", actor.ID).Msg("recipe updated")
	return GetRecipe(db, recipe.ID, &actor)
}

// DeleteRecipe removes recipe id with its links, favorites and cart
// entries. Only the author or an admin may delete.
func DeleteRecipe(ctx context.Context, db *gorm.DB, actor models.User, id int64) error {
	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		return notFound(err, "recipe")
	}
	if !canModify(actor, recipe) {
		return ErrForbidden
	}

	err := inTx(db, func(tx *gorm.DB) error {
		return deleteRecipes(tx, []int64{recipe.ID})
	})
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Int64("actor_id", actor.ID).Msg("recipe deleted")
	return nil
}

func deleteRecipes(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, m := range []interface{}{
		&models.RecipeTag{},
		&models.RecipeIngredient{},
		&models.FavoriteRecipe{},
		&models.ShoppingListEntry{},
	} {
		if err := tx.Where("recipe_id IN (?)", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN (?)", ids).Delete(&models.Recipe{}).Error
}

// GetRecipe returns recipe id as seen by viewer (nil for anonymous).
func GetRecipe(db *gorm.DB, id int64, viewer *models.User) (RecipeView, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		return RecipeView{}, notFound(err, "recipe")
	}
	views, err := hydrateRecipes(db, []models.Recipe{recipe}, viewer)
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

// ListRecipes returns one page of recipes matching f, newest first, and the
// total number of matches.
func ListRecipes(db *gorm.DB, f RecipeFilter, viewer *models.User, page Page) ([]RecipeView, int64, error) {
	q := db.Model(&models.Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.Tags) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN (?)", f.Tags).
			SubQuery()
		q = q.Where("recipes.id IN ?", tagged)
	}
	if viewer != nil && f.IsFavorited {
		favs := db.Table("favorite_recipes").Select("recipe_id").Where("user_id = ?", viewer.ID).SubQuery()
		q = q.Where("recipes.id IN ?", favs)
	}
	if viewer != nil && f.IsInShoppingCart {
		cart := db.Table("shopping_list_entries").Select("recipe_id").Where("user_id = ?", viewer.ID).SubQuery()
		q = q.Where("recipes.id IN ?", cart)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("recipes.pub_date DESC").Order("recipes.id DESC")
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	views, err := hydrateRecipes(db, recipes, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

type recipeTagRow struct {
	RecipeID int64
	models.Tag
}

type recipeIngredientRow struct {
	RecipeID        int64
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int
}

// hydrateRecipes builds views for recipes with a fixed number of queries
// regardless of how many recipes there are.
func hydrateRecipes(db *gorm.DB, recipes []models.Recipe, viewer *models.User) ([]RecipeView, error) {
	views := make([]RecipeView, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	ids := make([]int64, len(recipes))
	var authorIDs []int64
	for i, r := range recipes {
		ids[i] = r.ID
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
	}

	var tagRows []recipeTagRow
	err := db.Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.color, tags.slug").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN (?)", ids).
		Order("tags.id ASC").
		Scan(&tagRows).Error
	if err != nil {
		return nil, err
	}
	tags := make(map[int64][]models.Tag)
	for _, row := range tagRows {
		tags[row.RecipeID] = append(tags[row.RecipeID], row.Tag)
	}

	var ingredientRows []recipeIngredientRow
	err = db.Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, ingredients.id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", ids).
		Order("recipe_ingredients.id ASC").
		Scan(&ingredientRows).Error
	if err != nil {
		return nil, err
	}
	ingredients := make(map[int64][]RecipeIngredientView)
	for _, row := range ingredientRows {
		ingredients[row.RecipeID] = append(ingredients[row.RecipeID], RecipeIngredientView{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	authors := make(map[int64]models.User)
	if len(authorIDs) > 0 {
		var users []models.User
		if err := db.Where("id IN (?)", authorIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			authors[u.ID] = u
		}
	}

	favorited, err := recipeSet(db, "favorite_recipes", viewer, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := recipeSet(db, "shopping_list_entries", viewer, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedSet(db, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		v := RecipeView{
			ID:               r.ID,
			Tags:             tags[r.ID],
			Ingredients:      ingredients[r.ID],
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if v.Tags == nil {
			v.Tags = []models.Tag{}
		}
		if v.Ingredients == nil {
			v.Ingredients = []RecipeIngredientView{}
		}
		if r.AuthorID != nil {
			if u, ok := authors[*r.AuthorID]; ok {
				author := newUserView(u, subscribed[u.ID])
				v.Author = &author
			}
		}
		views[i] = v
	}
	return views, nil
}

// recipeSet returns which of ids the viewer has in table.
func recipeSet(db *gorm.DB, table string, viewer *models.User, ids []int64) (map[int64]bool, error) {
	set := make(map[int64]bool)
	if viewer == nil || len(ids) == 0 {
		return set, nil
	}
	var found []int64
	err := db.Table(table).
		Where("user_id = ? AND recipe_id IN (?)", viewer.ID, ids).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// subscribedSet returns which of authorIDs the viewer follows.
func subscribedSet(db *gorm.DB, viewer *models.User, authorIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool)
	if viewer == nil || len(authorIDs) == 0 {
		return set, nil
	}
	var found []int64
	err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN (?)", viewer.ID, authorIDs).
		Pluck("author_id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}
