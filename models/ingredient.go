package models

import "strings"

// Ingredient is a catalog entry; (name, measurement_unit) is unique.
// NameLower is a Unicode lowercased copy of Name used by the prefix search.
type Ingredient struct {
	ID              int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name            string `gorm:"not null;unique_index:ux_ingredient_name_unit" json:"name" form:"name"`
	MeasurementUnit string `gorm:"not null;unique_index:ux_ingredient_name_unit" json:"measurement_unit" form:"measurement_unit"`
	NameLower       string `gorm:"not null;default:'';index" json:"-"`
}

// BeforeSave keeps NameLower in sync with Name.
func (i *Ingredient) BeforeSave() error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}
