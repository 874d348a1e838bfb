package http

import (
	"net/http"

	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/jwtx"
)

// JWKSHandler publishes the keys session tokens can be verified with.
//
//	@Summary		Session token keys
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
