package api

// UpdateUserRequest 所有欄位皆為選填，未送出的欄位不變更
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" form:"name" validate:"omitnil,min=1" example:"Alice"`
	Email    *string `json:"email,omitempty" form:"email" validate:"omitnil,email" example:"alice@example.com"`
	Password *string `json:"password,omitempty" form:"password" validate:"omitnil,len=6,number" example:"654321"`
	Picture  *string `json:"picture,omitempty" form:"picture" example:"https://example.com/a.png"`
	Status   *bool   `json:"status,omitempty" form:"status" example:"true"`
	// Role 不可修改，送出即被拒絕
	Role *string `json:"role,omitempty" form:"role" swaggerignore:"true"`
}
