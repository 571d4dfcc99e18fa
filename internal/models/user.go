package models

// User represents an account. Deleting a user only flips IsDeleted.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Login     string `json:"login" gorm:"uniqueIndex;type:varchar(50);not null"`
	Password  string `json:"password" gorm:"type:varchar(255);not null"`
	Age       int    `json:"age" gorm:"type:smallint;not null"`
	IsDeleted bool   `json:"isDeleted" gorm:"column:isDeleted;not null;default:false"`
}

// TableName pins the table name used by the original schema.
func (User) TableName() string {
	return "users"
}
