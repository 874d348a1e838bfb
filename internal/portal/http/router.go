package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/jwtx"
	"github.com/aussiebroadwan/findit/pkg/slogx"

	_ "github.com/aussiebroadwan/findit/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	Credentials *service.CredentialService
	Sessions    *service.SessionIssuer
	Identities  *service.IdentityService
	Content     *service.ContentService
	Audit       *service.AuditLog
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		httpx.Recover,
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerContent()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			FindIT Portal API
//	@version		0.1.0
//	@description	Identity, preferences and site content for the FindIT school portal.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/findit
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Credentials: r.Credentials,
		Sessions:    r.Sessions,
		Audit:       r.Audit,
	}

	// Per-identity brute force is handled by the lockout; this only caps
	// a single client spraying many identifiers.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.Authn(r.verifier),
			httpx.RateLimitBySubject(httpx.WriteLimit),
		),
	)

	r.Mux.Handle("POST /v1/register",
		httpx.Chain(&RegisterHandler{Identities: r.Identities},
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{Identities: r.Identities}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authn(r.verifier),
			httpx.RequireAnyScope(service.ScopeProfileRead),
			httpx.RateLimitBySubject(httpx.ReadLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authn(r.verifier),
			httpx.RequireAnyScope(service.ScopeProfileWrite),
			httpx.RateLimitBySubject(httpx.WriteLimit),
		)
	}

	r.Mux.Handle("GET /v1/me", read(h.HandleGet))
	r.Mux.Handle("GET /v1/me/preferences", read(h.HandleGetPreferences))
	r.Mux.Handle("PUT /v1/me/preferences", write(h.HandlePutPreferences))
	r.Mux.Handle("POST /v1/me/password", write(h.HandleChangePassword))
}

func (r *Router) registerContent() {
	h := &ContentHandler{Content: r.Content}

	// Public: the portal front page renders the active records.
	r.Mux.Handle("GET /v1/content/{family}/active",
		httpx.Chain(http.HandlerFunc(h.HandleActive),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)

	staff := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.Authn(r.verifier),
			httpx.RequireAnyScope(service.ScopeContentWrite),
			httpx.RateLimitBySubject(limit),
		)
	}

	r.Mux.Handle("GET /v1/content/{family}", staff(h.HandleList, httpx.ReadLimit))
	r.Mux.Handle("POST /v1/content/{family}", staff(h.HandleCreate, httpx.WriteLimit))
	r.Mux.Handle("PUT /v1/content/{family}/{id}", staff(h.HandleUpdate, httpx.WriteLimit))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Identities: r.Identities, Audit: r.Audit}

	admin := func(fn http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.Authn(r.verifier),
			httpx.RequireAnyScope(scope),
			httpx.RateLimitBySubject(limit),
		)
	}

	r.Mux.Handle("POST /v1/admin/identities", admin(h.HandleCreateIdentity, service.ScopeAdminWrite, httpx.WriteLimit))
	r.Mux.Handle("POST /v1/admin/identities/{id}/unlock", admin(h.HandleUnlock, service.ScopeAdminWrite, httpx.WriteLimit))
	r.Mux.Handle("POST /v1/admin/identities/{id}/status", admin(h.HandleSetStatus, service.ScopeAdminWrite, httpx.WriteLimit))
	r.Mux.Handle("DELETE /v1/admin/identities/{id}", admin(h.HandleDelete, service.ScopeAdminWrite, httpx.WriteLimit))
	r.Mux.Handle("GET /v1/admin/audit", admin(h.HandleAudit, service.ScopeAdminRead, httpx.ReadLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.ReadLimit),
		),
	)
}
