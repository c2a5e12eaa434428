package tokengate

import (
	"net/http"

	"github.com/caasmo/tokengate/core"
	"github.com/caasmo/tokengate/router"
)

// route registers the account lifecycle endpoints. Tokens travel in request
// bodies, never in paths, so no route carries parameters.
func route(app *core.App) {
	chains := router.Chains{
		"POST /auth/signup":            router.NewChain(http.HandlerFunc(app.SignupHandler)),
		"PUT /auth/activate":           router.NewChain(http.HandlerFunc(app.ActivateHandler)),
		"POST /auth/resend-activation": router.NewChain(http.HandlerFunc(app.ResendActivationHandler)),
		"POST /auth/forgot":            router.NewChain(http.HandlerFunc(app.ForgotPasswordHandler)),
		"POST /auth/reset":             router.NewChain(http.HandlerFunc(app.ResetPasswordHandler)),
		"POST /auth/login":             router.NewChain(http.HandlerFunc(app.LoginHandler)),
		"GET /auth/oauth2-providers":   router.NewChain(http.HandlerFunc(app.ListOAuth2ProvidersHandler)),
		"POST /auth/oauth2":            router.NewChain(http.HandlerFunc(app.AuthWithOAuth2Handler)),
	}

	app.Router().Register(chains)
}
