// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/core/collablib"
	"github.com/dalemusser/collabhub/internal/app/core/membership"
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	collaborationsfeature "github.com/dalemusser/collabhub/internal/app/features/collaborations"
	healthfeature "github.com/dalemusser/collabhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/collabhub/internal/app/features/login"
	peoplefeature "github.com/dalemusser/collabhub/internal/app/features/people"
	userapifeature "github.com/dalemusser/collabhub/internal/app/features/userapi"
	"github.com/dalemusser/collabhub/internal/app/policy/collabpolicy"
	collabstore "github.com/dalemusser/collabhub/internal/app/store/collaborations"
	domainstore "github.com/dalemusser/collabhub/internal/app/store/domains"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/pubsub"
	"github.com/dalemusser/collabhub/internal/app/system/ratelimit"
	"github.com/dalemusser/collabhub/internal/app/system/search"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CollabHub builds the stores, binds the
// core collaboration kind into the registry, wires the membership service
// onto the event bus, and mounts the JSON feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Session cookie store; secure cookies in production.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Stores.
	users := userstore.New(db)
	domains := domainstore.New(db)
	collabs := collabstore.New(db)

	// Registry: bind the core collaboration kind. Other kinds register the
	// same way with their own stores and libs.
	reg := registry.New()
	reg.RegisterModel(models.ObjectTypeCollaboration, collabs)
	reg.RegisterLib(models.ObjectTypeCollaboration, collablib.New(collabs))

	// Event bus with the structured-log consumer on every membership topic.
	bus := pubsub.New(logger)
	subscribeEventLog(bus, logger)

	// Membership state machine under the default manager policy
	// (creator, then platform admin, then domain administrator).
	svc := membership.New(reg, bus, collabpolicy.Default(users, domains), logger)

	// User lookup/search for people pickers and invitable people.
	finder := usersearch.New(users, search.NewMongoProvider(db))

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session endpoints.
	limiter := ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	loginHandler := loginfeature.NewHandler(users, limiter, logger)
	r.Mount("/api", loginfeature.Routes(loginHandler))

	// Collaboration read + membership transitions.
	collabHandler := collaborationsfeature.NewHandler(reg, svc, collabs, users, finder, logger)
	r.Mount("/api/collaborations", collaborationsfeature.Routes(collabHandler))

	// Domain-scoped people listing and search.
	peopleHandler := peoplefeature.NewHandler(finder, logger)
	r.Mount("/api/people", peoplefeature.Routes(peopleHandler))

	// The signed-in user's collaborations and activity streams.
	userHandler := userapifeature.NewHandler(reg, logger)
	r.Mount("/api/user", userapifeature.Routes(userHandler))

	return r, nil
}
