package models

// UserPermission represents the many-to-many relationship between users and
// directly granted permissions. Direct grants belong to the user's authorization
// state and are removed with the user (CASCADE).
type UserPermission struct {
	// UserID is the ID of the user in this grant.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// PermissionID is the ID of the granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the UserPermission model.
// This overrides GORM's default pluralized table naming.
func (UserPermission) TableName() string {
	return "user_permissions"
}
