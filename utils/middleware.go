package utils

import (
	"crypto/subtle"
	"os"

	"github.com/kataras/iris/v12"
)

// AdminSecretMiddleware guards operator endpoints with the single shared
// secret this site has (there are no user accounts). The secret travels in
// the X-Admin-Secret header and is compared in constant time.
func AdminSecretMiddleware(ctx iris.Context) {
	secret := os.Getenv("ADMIN_API_SECRET")
	if secret == "" {
		CreateError(iris.StatusServiceUnavailable, "Unavailable", "admin access is not configured", ctx)
		return
	}

	provided := ctx.GetHeader("X-Admin-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		CreateError(iris.StatusForbidden, "Forbidden", "admin access required", ctx)
		return
	}

	ctx.Next()
}
