package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string  `json:"name" form:"name" validate:"required" example:"Jon Doe"`
	Email    string  `json:"email" form:"email" validate:"required,email" example:"jondoe@example.com"`
	Password string  `json:"password" form:"password" validate:"required,len=6,number" example:"123456"`
	Picture  *string `json:"picture,omitempty" form:"picture" example:"https://example.com/me.png"`
	// 以下欄位可被送出但註冊時一律忽略
	Role    string `json:"role,omitempty" form:"role" validate:"omitempty,oneof=admin user" example:"user"`
	IsOAuth bool   `json:"isOAuth,omitempty" form:"isOAuth" swaggerignore:"true"`
	Status  *bool  `json:"status,omitempty" form:"status" example:"true"`
}
