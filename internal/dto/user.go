package dto

import (
	"time"

	"github.com/SscSPs/blog_backend/internal/core/domain"
)

// UpdateProfileRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=30,username"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=50"`
	Age       *int    `json:"age" binding:"omitempty,gte=13,lte=120"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdateProfileRequest) IsEmpty() bool {
	return r.Username == nil && r.Email == nil && r.FirstName == nil && r.LastName == nil && r.Age == nil
}

// ChangePasswordRequest is the body of a password change for a local account.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=8,maxbytes=72,strongpassword,nefield=CurrentPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required,eqfield=NewPassword"`
}

// UserResponse is the full view of a user, returned to the user themselves.
// It never carries the password hash.
type UserResponse struct {
	UserID    string              `json:"id"`
	Username  string              `json:"username"`
	Email     string              `json:"email"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Age       int                 `json:"age"`
	Provider  domain.AuthProvider `json:"provider"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// PublicUserResponse is what anonymous callers and other users see.
type PublicUserResponse struct {
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeResponse wraps the caller's own record with the mechanism that authenticated them.
type MeResponse struct {
	User       UserResponse      `json:"user"`
	AuthMethod domain.AuthMethod `json:"authMethod"`
}

// ToUserResponse converts a domain.User to its full view.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
		Provider:  user.AuthProvider,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToPublicUserResponse converts a domain.User to its public view.
func ToPublicUserResponse(user *domain.User) PublicUserResponse {
	return PublicUserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}
