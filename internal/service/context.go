package service

import (
	"context"

	"identity-service/internal/model"
)

type principalKey struct{}

// WithPrincipal 將已驗證的身分放入 ctx
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom 取出 ctx 中的身分，不存在時回傳 nil
func PrincipalFrom(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(principalKey{}).(*model.Principal)
	return p
}
