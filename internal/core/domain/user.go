package domain

import "time"

// UserType determines which platforms an account may authenticate against.
type UserType int

const (
	UserTypeUser  UserType = 1
	UserTypeAdmin UserType = 2
)

// Platform is the client category a request originates from. It selects the
// JWT secret used to sign and verify session tokens.
type Platform int

const (
	PlatformUserApp Platform = 1
	PlatformAdmin   Platform = 2
)

func (p Platform) String() string {
	switch p {
	case PlatformUserApp:
		return "userapp"
	case PlatformAdmin:
		return "admin"
	}
	return "unknown"
}

// LoginAccess maps each user type to the set of platforms it may log in to.
var LoginAccess = map[UserType][]Platform{
	UserTypeUser:  {PlatformUserApp},
	UserTypeAdmin: {PlatformAdmin},
}

// CanAccess reports whether the user type is allowed on the given platform.
func (t UserType) CanAccess(platform Platform) bool {
	for _, p := range LoginAccess[t] {
		if p == platform {
			return true
		}
	}
	return false
}

// ValidateLoginAccess checks the role-access table at startup: every user type
// must map to at least one known platform.
func ValidateLoginAccess() error {
	for _, t := range []UserType{UserTypeUser, UserTypeAdmin} {
		platforms, ok := LoginAccess[t]
		if !ok || len(platforms) == 0 {
			return ErrRoleNotAssigned
		}
		for _, p := range platforms {
			if p != PlatformUserApp && p != PlatformAdmin {
				return ErrPlatformForbidden
			}
		}
	}
	return nil
}

// ResetPasswordLink holds the one-time code bound to a user during a password
// reset, plus the instant it stops being valid. The zero value means no reset
// is in progress.
type ResetPasswordLink struct {
	Code       string    `json:"code,omitempty" bson:"code,omitempty"`
	ExpireTime time.Time `json:"expire_time,omitempty" bson:"expire_time,omitempty"`
}

// IsZero reports whether no reset code is currently set.
func (l ResetPasswordLink) IsZero() bool {
	return l.Code == "" && l.ExpireTime.IsZero()
}

// User is the identity record. Either Email or Phone identifies an account;
// both are unique when present. Accounts are soft-deleted, never removed.
type User struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	Email             string            `json:"email,omitempty" bson:"email,omitempty"`
	Phone             string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Name              string            `json:"name,omitempty" bson:"name,omitempty"`
	PasswordHash      string            `json:"-" bson:"password"`
	UserType          UserType          `json:"user_type" bson:"user_type"`
	IsActive          bool              `json:"is_active" bson:"is_active"`
	IsDeleted         bool              `json:"is_deleted" bson:"is_deleted"`
	LoginRetryLimit   int               `json:"-" bson:"login_retry_limit"`
	LoginReactiveTime *time.Time        `json:"-" bson:"login_reactive_time,omitempty"`
	ResetPasswordLink ResetPasswordLink `json:"-" bson:"reset_password_link,omitempty"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

// CanAuthenticate reports whether the account is eligible to log in at all.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}

// PublicView strips credential and throttle state before the user record
// leaves the service layer.
type PublicView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Name      string    `json:"name,omitempty"`
	UserType  UserType  `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the externally visible view of the user.
func (u *User) Public() PublicView {
	return PublicView{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt,
	}
}
