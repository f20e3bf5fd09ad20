package middleware

import "context"

type ctxKey int

const (
	// CtxRequestID — ключ контекста с X-Request-Id.
	CtxRequestID ctxKey = iota
	// CtxAuthToken — ключ контекста с «сырым» bearer-токеном.
	CtxAuthToken
)

// TokenFromContext достаёт bearer-токен, положенный AuthBearer.
// Пустая строка — токена в запросе не было.
func TokenFromContext(ctx context.Context) string {
	if v := ctx.Value(CtxAuthToken); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
