package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	// Identifier accepts the account email or phone number.
	Identifier string `json:"identifier" validate:"required,min=1"`
	Password   string `json:"password"   validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=100"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=6,max=20"`
	Password    string `json:"password"     validate:"required,min=8"`
}

type CreateUserRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=100"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=6,max=20"`
	Password    string `json:"password"     validate:"required,min=8"`
	Role        string `json:"role"         validate:"required,oneof=admin manager staff"`
}

type UpdateUserRequest struct {
	Name        string  `json:"name"         validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=6,max=20"`
	Role        string  `json:"role"         validate:"omitempty,oneof=admin manager staff"`
	Password    string  `json:"password"     validate:"omitempty,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	IsVerified  bool   `json:"is_verified"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
