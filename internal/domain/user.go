package domain

// User is owned by the external account service. This backend only reads the
// table for existence checks and to enrich chat/notification payloads.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// UserSummary is the compact profile embedded in chat and notification payloads.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

// Summary converts a user row into the embeddable profile form.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// FullName returns the display name used in message payloads.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
