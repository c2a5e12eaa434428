package router

import (
	"net/http"
)

// Router serves HTTP requests for a set of registered handler chains.
// Implementations live in subpackages so the serving stack can be swapped
// without touching handler code.
type Router interface {
	http.Handler

	// Register installs all chains. Keys are "METHOD /path" endpoints.
	Register(chains Chains)
}
