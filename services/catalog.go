package services

import (
	"strings"

	dbpkg "foodgram/db"
	"foodgram/models"
	"foodgram/tools"

	"github.com/jinzhu/gorm"
)

// IngredientInput is an admin request to add an ingredient.
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// TagInput is an admin request to add a tag. Color defaults to
// models.TAG_DEFAULT_COLOR.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,color"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// escapeLike escapes the LIKE wildcards of s, using backslash as escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// SearchIngredients returns ingredients whose name starts with prefix,
// ignoring case (Unicode aware, through name_lower), ordered by name. An
// empty prefix lists everything.
func SearchIngredients(db *gorm.DB, prefix string) ([]models.Ingredient, error) {
	q := db.Model(&models.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}
	ingredients := []models.Ingredient{}
	if err := q.Order("name ASC").Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func GetIngredient(db *gorm.DB, id int64) (models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := db.First(&ingredient, id).Error; err != nil {
		return models.Ingredient{}, notFound(err, "ingredient")
	}
	return ingredient, nil
}

// CreateIngredient adds an ingredient; (name, unit) must be unique.
func CreateIngredient(db *gorm.DB, in IngredientInput) (models.Ingredient, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.MeasurementUnit = strings.TrimSpace(in.MeasurementUnit)
	if fields := tools.ValidateStruct(in); fields != nil {
		return models.Ingredient{}, invalidFields(fields)
	}

	ingredient := models.Ingredient{
		Name:            in.Name,
		MeasurementUnit: in.MeasurementUnit,
		NameLower:       strings.ToLower(in.Name),
	}
	if err := db.Create(&ingredient).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return models.Ingredient{}, Invalid("name", "ingredient with this name and measurement unit already exists")
		}
		return models.Ingredient{}, err
	}
	return ingredient, nil
}

func ListTags(db *gorm.DB) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := db.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func GetTag(db *gorm.DB, id int64) (models.Tag, error) {
	var tag models.Tag
	if err := db.First(&tag, id).Error; err != nil {
		return models.Tag{}, notFound(err, "tag")
	}
	return tag, nil
}

// CreateTag adds a tag; the slug must be unique.
func CreateTag(db *gorm.DB, in TagInput) (models.Tag, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Color = strings.TrimSpace(in.Color)
	if fields := tools.ValidateStruct(in); fields != nil {
		return models.Tag{}, invalidFields(fields)
	}
	if in.Color == "" {
		in.Color = models.TAG_DEFAULT_COLOR
	}

	tag := models.Tag{Name: in.Name, Color: strings.ToLower(in.Color), Slug: in.Slug}
	if err := db.Create(&tag).Error; err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return models.Tag{}, Invalid("slug", "tag with this slug already exists")
		}
		return models.Tag{}, err
	}
	return tag, nil
}
