package model

type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"not null;type:varchar(100)"`
	LastName  string `gorm:"not null;type:varchar(100)"`
	Email     string `gorm:"unique;not null;type:varchar(100)"`
	// bcrypt hash, never serialized
	Password string  `gorm:"not null;type:varchar(100)" json:"-"`
	Role     string  `gorm:"not null;type:varchar(20);default:customer"`
	IsActive bool    `gorm:"not null;default:true"`
	Orders   []Order `gorm:"foreignKey:UserID"`
	BaseModel
}
