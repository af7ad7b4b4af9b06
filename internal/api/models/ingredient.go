package models

type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"size:200;not null;index:idx_ingredient_name_unit,unique"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;index:idx_ingredient_name_unit,unique"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
