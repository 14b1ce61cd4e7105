package services

import (
	"fmt"

	dbpkg "foodgram/db"
	"foodgram/models"

	"github.com/jinzhu/gorm"
)

// RecipeRelation is a per-user set of recipes: favorites or shopping cart.
type RecipeRelation int

const (
	Favorites RecipeRelation = iota
	ShoppingCart
)

func (r RecipeRelation) String() string {
	if r == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

func (r RecipeRelation) model() interface{} {
	if r == ShoppingCart {
		return &models.ShoppingListEntry{}
	}
	return &models.FavoriteRecipe{}
}

func (r RecipeRelation) row(userID, recipeID int64) interface{} {
	if r == ShoppingCart {
		return &models.ShoppingListEntry{UserID: userID, RecipeID: recipeID}
	}
	return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
}

// AddRecipeRelation puts recipeID in the user's rel set and returns the
// recipe in minified form.
func AddRecipeRelation(db *gorm.DB, rel RecipeRelation, user models.User, recipeID int64) (RecipeMinified, error) {
	var recipe models.Recipe
	err := inTx(db, func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return notFound(err, "recipe")
		}

		var n int
		err := tx.Model(rel.model()).
			Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if err := ValidateToggle(ToggleAdd, rel.String(), n > 0); err != nil {
			return err
		}

		return insertRecipeRelation(tx, rel, user.ID, recipeID)
	})
	if err != nil {
		return RecipeMinified{}, err
	}
	return minify(recipe), nil
}

// insertRecipeRelation adds the row; a concurrent duplicate caught by the
// unique index reads as ErrAlreadyExists.
func insertRecipeRelation(tx *gorm.DB, rel RecipeRelation, userID, recipeID int64) error {
	if err := tx.Create(rel.row(userID, recipeID)).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return ValidateToggle(ToggleAdd, rel.String(), true)
		}
		return err
	}
	return nil
}

// RemoveRecipeRelation takes recipeID out of the user's rel set.
func RemoveRecipeRelation(db *gorm.DB, rel RecipeRelation, user models.User, recipeID int64) error {
	return inTx(db, func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return notFound(err, "recipe")
		}
		res := tx.Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).Delete(rel.model())
		if res.Error != nil {
			return res.Error
		}
		return ValidateToggle(ToggleRemove, rel.String(), res.RowsAffected > 0)
	})
}

// Subscribe makes subscriber follow authorID and returns the author with a
// preview of up to recipesLimit recipes (all when recipesLimit <= 0).
func Subscribe(db *gorm.DB, subscriber models.User, authorID int64, recipesLimit int) (AuthorView, error) {
	var author models.User
	err := inTx(db, func(tx *gorm.DB) error {
		if err := tx.First(&author, authorID).Error; err != nil {
			return notFound(err, "author")
		}

		var n int
		err := tx.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", subscriber.ID, authorID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if err := ValidateSubscription(subscriber.ID, authorID, n > 0); err != nil {
			return err
		}

		return insertSubscription(tx, subscriber.ID, authorID)
	})
	if err != nil {
		return AuthorView{}, err
	}

	views, err := authorViews(db, []models.User{author}, &subscriber, recipesLimit)
	if err != nil {
		return AuthorView{}, err
	}
	return views[0], nil
}

// insertSubscription adds the row; a concurrent duplicate caught by the
// unique index reads as ErrDuplicateSubscription.
func insertSubscription(tx *gorm.DB, subscriberID, authorID int64) error {
	sub := models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := tx.Create(&sub).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return ErrDuplicateSubscription
		}
		return err
	}
	return nil
}

// Unsubscribe removes the follow relation only. The author and their
// recipes are untouched.
func Unsubscribe(db *gorm.DB, subscriber models.User, authorID int64) error {
	return inTx(db, func(tx *gorm.DB) error {
		var author models.User
		if err := tx.First(&author, authorID).Error; err != nil {
			return notFound(err, "author")
		}
		res := tx.Where("subscriber_id = ? AND author_id = ?", subscriber.ID, authorID).
			Delete(&models.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("not subscribed to this author: %w", ErrNotFound)
		}
		return nil
	})
}

// IsSubscribed reports whether subscriber follows authorID.
func IsSubscribed(db *gorm.DB, subscriber models.User, authorID int64) (bool, error) {
	var author models.User
	if err := db.First(&author, authorID).Error; err != nil {
		return false, notFound(err, "author")
	}
	set, err := subscribedSet(db, &subscriber, []int64{authorID})
	if err != nil {
		return false, err
	}
	return set[authorID], nil
}

// ListSubscriptions returns one page of the authors subscriber follows,
// ordered by id, and the total count.
func ListSubscriptions(db *gorm.DB, subscriber models.User, page Page, recipesLimit int) ([]AuthorView, int64, error) {
	followed := db.Table("subscriptions").
		Select("author_id").
		Where("subscriber_id = ?", subscriber.ID).
		SubQuery()
	q := db.Model(&models.User{}).Where("id IN ?", followed)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("id ASC")
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	var authors []models.User
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	views, err := authorViews(db, authors, &subscriber, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

type authorCountRow struct {
	AuthorID int64
	Total    int64
}

// authorViews loads recipe counts and previews for all authors at once.
func authorViews(db *gorm.DB, authors []models.User, viewer *models.User, recipesLimit int) ([]AuthorView, error) {
	views := make([]AuthorView, len(authors))
	if len(authors) == 0 {
		return views, nil
	}
	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var counts []authorCountRow
	err := db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN (?)", ids).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]int64, len(counts))
	for _, c := range counts {
		totals[c.AuthorID] = c.Total
	}

	var recipes []models.Recipe
	err = db.Where("author_id IN (?)", ids).
		Order("pub_date DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	previews := make(map[int64][]RecipeMinified)
	for _, r := range recipes {
		id := *r.AuthorID
		if recipesLimit > 0 && len(previews[id]) >= recipesLimit {
			continue
		}
		previews[id] = append(previews[id], minify(r))
	}

	subscribed, err := subscribedSet(db, viewer, ids)
	if err != nil {
		return nil, err
	}

	for i, a := range authors {
		p := previews[a.ID]
		if p == nil {
			p = []RecipeMinified{}
		}
		views[i] = AuthorView{
			UserView:     newUserView(a, subscribed[a.ID]),
			Recipes:      p,
			RecipesCount: totals[a.ID],
		}
	}
	return views, nil
}
