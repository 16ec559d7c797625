package entity

import "time"

// Profile is the public face of an account.
type Profile struct {
	UserID       string    `json:"user_id" firestore:"userId"`
	Email        string    `json:"email,omitempty" firestore:"email"`
	FullName     string    `json:"full_name" firestore:"fullName"`
	Username     string    `json:"username,omitempty" firestore:"username"`
	Wilaya       string    `json:"wilaya,omitempty" firestore:"wilaya"`
	MemberNumber int       `json:"member_number,omitempty" firestore:"memberNumber"`
	AvatarURL    string    `json:"avatar_url,omitempty" firestore:"avatarUrl"`
	IsVerified   bool      `json:"is_verified" firestore:"isVerified"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsComplete reports whether the profile went through completion.
func (p *Profile) IsComplete() bool {
	return p.MemberNumber > 0 && p.Username != "" && p.Wilaya != ""
}

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleUser
}

type UserRole struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	Role      Role      `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

func HasRole(roles []Role, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

// Session is what the identity provider hands back after a sign-in.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsNewUser    bool      `json:"is_new_user,omitempty"`
	DisplayName  string    `json:"-"`
}
