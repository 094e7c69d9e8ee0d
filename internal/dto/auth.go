package dto

// RegisterRequest is the body of a local account registration.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=30,username"`
	FirstName       string `json:"firstName" binding:"required,min=1,max=50"`
	LastName        string `json:"lastName" binding:"required,min=1,max=50"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Age             int    `json:"age" binding:"required,gte=13,lte=120"`
	Password        string `json:"password" binding:"required,min=8,maxbytes=72,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest represents the body of a local login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ExchangeCodeRequest carries an authorization code obtained by the frontend.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned by registration, login and OAuth callbacks.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
}

// ErrorResponse is the JSON body of every 4xx/5xx response.
// Detail is only populated outside production.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
