package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

func Secure(isProd bool) func(http.Handler) http.Handler {
	mw := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'; object-src 'none'",
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         !isProd,
	})
	return mw.Handler
}
