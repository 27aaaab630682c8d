package api

// swagger:model api.ListUsersQuery
type ListUsersQuery struct {
	Role   string `query:"role" validate:"omitempty,oneof=admin user"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=name createdAt"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
}
