package dto

import (
	"strings"
	"tasktrack/internal/domains/user/model"
	"tasktrack/shared/constant"
	gModel "tasktrack/shared/model"
	"tasktrack/shared/timezone"
	"time"

	"github.com/google/uuid"
)

// NewUser builds a user row for a freshly signed-up account. The email is stored lower-cased.
func NewUser(email, hashedPassword string) model.User {
	now := timezone.Now()
	id := uuid.NewString()

	return model.User{
		ID:       id,
		Email:    NormalizeEmail(email),
		Password: hashedPassword,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  id,
			ModifiedBy: id,
		},
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.CreatedAt = timezone.Format(user.CreatedAt, constant.DateFormat)
}
