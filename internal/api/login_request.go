package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"123456"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	Name        string `json:"name" example:"Jon Doe"`
	Role        string `json:"role" example:"user"`
	Status      bool   `json:"status" example:"true"`
	Email       string `json:"email" example:"jondoe@example.com"`
	UserID      int    `json:"userId" example:"1"`
}
