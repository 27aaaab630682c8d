package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string `json:"message" example:"invalid credentials"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"user removed"`
}

// swagger:model api.PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}
