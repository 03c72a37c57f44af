package domain

// Models lists every persisted entity in parent -> child order for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&RoomType{},
		&Room{},
		&CalendarCell{},
		&Booking{},
		&Request{},
		&RequestCell{},
		&Guest{},
		&Review{},
		&Notification{},
	}
}
