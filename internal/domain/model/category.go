package model

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;type:varchar(100);unique"`
	Description string `gorm:"type:text"`
	BaseModel
}
