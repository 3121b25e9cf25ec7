package dto

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"Password123!"`
	FullName string `json:"fullName" binding:"required,min=2,max=100" example:"Jane Doe"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher" example:"student"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"Password123!"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// AuthResponse is returned on register and login
type AuthResponse struct {
	User   *UserResponse  `json:"user"`
	Tokens *TokenResponse `json:"tokens"`
}
