// Package docs 以 swag 註冊 API 規格，供 echo-swagger 提供 /swagger 頁面。
// 內容須與 handler 上的 swag 註解同步；路徑清單由 docs_test.go 檢查。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "驗證帳密後回傳一小時有效的存取令牌與使用者基本資料",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "登入使用者",
                "parameters": [
                    {"description": "登入資料", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "建立密碼帳號；角色固定為 user，Email 會自動轉小寫",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "註冊使用者",
                "parameters": [
                    {"description": "註冊資料", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.PublicUser"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/ping": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "回傳 pong，並檢查資料庫與快取連線是否正常",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.PingResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "列出所有使用者（僅管理員）",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List all users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PublicUser"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/filter": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "依角色篩選並依 name 或 createdAt 排序（僅管理員）",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Filter users",
                "parameters": [
                    {"enum": ["admin", "user"], "type": "string", "description": "角色", "name": "role", "in": "query"},
                    {"enum": ["name", "createdAt"], "type": "string", "description": "排序欄位", "name": "sortBy", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "排序方向", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PublicUser"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/inactive": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "列出超過 days 天未登入的使用者（僅管理員），從未登入者排在最前",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List inactive users",
                "parameters": [
                    {"type": "integer", "default": 30, "description": "閒置天數", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.InactiveUser"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "透過 JWT 取得當前使用者資料",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PublicUser"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "透過 ID 查詢使用者（本人或管理員）",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user by ID",
                "parameters": [
                    {"type": "integer", "description": "使用者 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PublicUser"}},
                    "400": {"description": "參數錯誤", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "使用者不存在", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "刪除使用者帳號（僅管理員）",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user by ID",
                "parameters": [
                    {"type": "integer", "description": "使用者 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "description": "更新使用者資料（本人或管理員）；只有本人可以變更密碼，角色不可修改",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user by ID",
                "parameters": [
                    {"type": "integer", "description": "使用者 ID", "name": "id", "in": "path", "required": true},
                    {"description": "更新欄位", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PublicUser"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "invalid request body"}}
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "user removed"}}
        },
        "api.PingResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "pong"}}
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "user@example.com"},
                "password": {"type": "string", "example": "123456"}
            }
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string", "example": "eyJhbGciOiJIUzI1NiIs..."},
                "email": {"type": "string", "example": "jondoe@example.com"},
                "name": {"type": "string", "example": "Jon Doe"},
                "role": {"type": "string", "example": "user"},
                "status": {"type": "boolean", "example": true},
                "userId": {"type": "integer", "example": 1}
            }
        },
        "api.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "example": "jondoe@example.com"},
                "name": {"type": "string", "example": "Jon Doe"},
                "password": {"type": "string", "example": "123456"},
                "picture": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"], "example": "user"},
                "status": {"type": "boolean"}
            }
        },
        "api.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "alice@example.com"},
                "name": {"type": "string", "example": "Alice"},
                "password": {"type": "string", "example": "654321"},
                "picture": {"type": "string"},
                "status": {"type": "boolean"}
            }
        },
        "model.PublicUser": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "status": {"type": "boolean"},
                "last_login_at": {"type": "string"},
                "picture": {"type": "string"},
                "is_oauth": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.InactiveUser": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "last_login_at": {"type": "string"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Identity Service API",
	Description:      "使用者註冊、登入與帳號管理 API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
