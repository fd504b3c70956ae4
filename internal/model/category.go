package model

import "time"

// Category groups quizzes; paid categories require an active access grant.
// swagger:model Category
type Category struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	IsPaid      bool    `gorm:"default:false" json:"isPaid"`
}

func (Category) TableName() string {
	return "categories"
}

// UserCategoryAccess records a time-boxed entitlement to a paid category.
// swagger:model UserCategoryAccess
type UserCategoryAccess struct {
	BaseModel
	UserID     uint      `gorm:"index;not null" json:"userId"`
	CategoryID uint      `gorm:"index;not null" json:"categoryId"`
	GrantedAt  time.Time `json:"grantedAt"`
	ExpiresAt  time.Time `gorm:"index" json:"expiresAt"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
}

func (UserCategoryAccess) TableName() string {
	return "user_category_access"
}

func (a *UserCategoryAccess) IsAccessActive(now time.Time) bool {
	return a.IsActive && now.Before(a.ExpiresAt)
}
