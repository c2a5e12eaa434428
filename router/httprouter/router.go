package httprouter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/caasmo/tokengate/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Router implements router.Router on top of julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func New() *Router {
	return &Router{rt: jshttprouter.New()}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

// Register installs all chains. Endpoints must be "METHOD /path"; anything
// else is a programming error and panics at startup.
func (r *Router) Register(chains router.Chains) {
	for endpoint, chain := range chains {
		method, path, ok := strings.Cut(endpoint, " ")
		if !ok || method == "" || !strings.HasPrefix(path, "/") {
			panic(fmt.Sprintf("invalid route endpoint %q", endpoint))
		}
		r.rt.Handler(method, path, chain.Handler())
	}
}
