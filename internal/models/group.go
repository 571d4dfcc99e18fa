package models

import "gorm.io/datatypes"

// Permission is a single capability granted to members of a group.
type Permission string

const (
	PermissionRead        Permission = "READ"
	PermissionWrite       Permission = "WRITE"
	PermissionDelete      Permission = "DELETE"
	PermissionShare       Permission = "SHARE"
	PermissionUploadFiles Permission = "UPLOAD_FILES"
)

// Permissions lists every recognised permission in declaration order.
var Permissions = []Permission{
	PermissionRead,
	PermissionWrite,
	PermissionDelete,
	PermissionShare,
	PermissionUploadFiles,
}

// IsValid reports whether p is one of the recognised permissions.
func (p Permission) IsValid() bool {
	for _, known := range Permissions {
		if p == known {
			return true
		}
	}
	return false
}

// Group represents a named set of permissions. Duplicate permissions are
// stored as given.
type Group struct {
	ID          string                          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string                          `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	Permissions datatypes.JSONSlice[Permission] `json:"permissions" gorm:"not null"`
}

func (Group) TableName() string {
	return "groups"
}
