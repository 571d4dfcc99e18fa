package models

// UserGroup is one (user, group) membership edge. The table has no primary
// key and no uniqueness constraint, so repeated edges are stored as is.
type UserGroup struct {
	UserID  string `json:"userId" gorm:"column:userId;type:varchar(36);not null;index"`
	GroupID string `json:"groupId" gorm:"column:groupId;type:varchar(36);not null;index"`
}

func (UserGroup) TableName() string {
	return "userGroups"
}
