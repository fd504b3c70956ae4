package model

// Payment records a completed category purchase. There is no external
// gateway; payments are marked completed at creation time and grant
// 30 days of category access.
// swagger:model Payment
type Payment struct {
	BaseModel
	UserID        uint    `gorm:"index;not null" json:"userId"`
	CategoryID    uint    `gorm:"index" json:"categoryId"`
	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string  `gorm:"size:10;default:'GEL'" json:"currency"`
	TransactionID string  `gorm:"size:100;uniqueIndex" json:"transactionId"`
	Description   string  `gorm:"type:text" json:"description"`
}

func (Payment) TableName() string {
	return "payments"
}
