package services

import (
	"context"
	"fmt"
	"strings"

	dbpkg "foodgram/db"
	"foodgram/logging"
	"foodgram/models"
	"foodgram/tools"

	"github.com/jinzhu/gorm"
)

// UserInput is a registration request.
type UserInput struct {
	Email     string `json:"email" validate:"required,max=254,email"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

func invalidFields(fields map[string][]string) *ValidationError {
	return &ValidationError{Fields: fields, cause: ErrValidation}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. Email is unique, compared case
// insensitively; the password is stored as a bcrypt hash.
func CreateUser(ctx context.Context, db *gorm.DB, in UserInput, minPasswordLen int) (UserView, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if fields := tools.ValidateStruct(in); fields != nil {
		return UserView{}, invalidFields(fields)
	}
	if err := tools.CheckPassword(in.Password, minPasswordLen); err != nil {
		return UserView{}, Invalid("password", err.Error())
	}

	user, err := insertUser(db, in, false)
	if err != nil {
		return UserView{}, err
	}

	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user registered")
	return newUserView(user, false), nil
}

func insertUser(db *gorm.DB, in UserInput, admin bool) (models.User, error) {
	var n int
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
		return models.User{}, err
	}
	if n > 0 {
		return models.User{}, Invalid("email", "a user with this email already exists")
	}

	hash, err := tools.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		Admin:     admin,
	}
	if err := db.Create(&user).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return models.User{}, Invalid("email", "a user with this email already exists")
		}
		return models.User{}, err
	}
	return user, nil
}

// EnsureAdmin creates an admin account for email unless one exists, and
// promotes an existing account with that email.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	email = normalizeEmail(email)

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.Admin {
			return nil
		}
		if err := db.Model(&user).Update("admin", true).Error; err != nil {
			return err
		}
		logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user promoted to admin")
		return nil
	case !dbpkg.IsNotFound(err):
		return err
	}

	name := strings.SplitN(email, "@", 2)[0]
	user, err = insertUser(db, UserInput{
		Email:     email,
		Username:  name,
		FirstName: "Admin",
		LastName:  "Admin",
		Password:  password,
	}, true)
	if err != nil {
		return fmt.Errorf("creating admin %s: %w", email, err)
	}
	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("admin account created")
	return nil
}

// Authenticate returns the user matching email and password.
func Authenticate(db *gorm.DB, email, password string) (models.User, error) {
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if dbpkg.IsNotFound(err) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	if !tools.CheckPasswordHash(user.Password, password) {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

// SetPassword replaces the user's password after checking the current one.
func SetPassword(ctx context.Context, db *gorm.DB, user models.User, current, next string, minPasswordLen int) error {
	if !tools.CheckPasswordHash(user.Password, current) {
		return Invalid("current_password", "wrong password")
	}
	if err := tools.CheckPassword(next, minPasswordLen); err != nil {
		return Invalid("new_password", err.Error())
	}
	hash, err := tools.HashPassword(next)
	if err != nil {
		return err
	}
	if err := db.Model(&user).Update("password", hash).Error; err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("password changed")
	return nil
}

// GetUserByID loads the raw user row.
func GetUserByID(db *gorm.DB, id int64) (models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return models.User{}, notFound(err, "user")
	}
	return user, nil
}

// GetUser returns user id as seen by viewer.
func GetUser(db *gorm.DB, id int64, viewer *models.User) (UserView, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return UserView{}, err
	}
	set, err := subscribedSet(db, viewer, []int64{user.ID})
	if err != nil {
		return UserView{}, err
	}
	return newUserView(user, set[user.ID]), nil
}

// ListUsers returns one page of users ordered by id and the total count.
func ListUsers(db *gorm.DB, viewer *models.User, page Page) ([]UserView, int64, error) {
	q := db.Model(&models.User{})

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
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	set, err := subscribedSet(db, viewer, ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = newUserView(u, set[u.ID])
	}
	return views, count, nil
}

// DeleteUser removes user id. Their subscriptions in both directions,
// favorites and cart entries go with them; recipes they wrote stay with no
// author.
func DeleteUser(ctx context.Context, db *gorm.DB, id int64) error {
	err := inTx(db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}

		if err := tx.Where("subscriber_id = ? OR author_id = ?", id, id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ShoppingListEntry{}).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Recipe{}).
			Where("author_id = ?", id).
			UpdateColumn("author_id", gorm.Expr("NULL")).Error
		if err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
