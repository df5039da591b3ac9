package dto

import (
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// CredentialsRequest describes email/password payload.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminResponse is the public view of an admin account.
type AdminResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAdminResponse hides the password hash.
func NewAdminResponse(a model.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
