// Package middleware wraps a ports.ProjectStore to transform records on their way
// to and from storage.
package middleware

import "github.com/aretw0/switchyard/pkg/ports"

// Middleware allows wrapping a ProjectStore to add behavior.
type Middleware func(ports.ProjectStore) ports.ProjectStore

// Chain applies middlewares so that the first one sees records first on Save.
func Chain(store ports.ProjectStore, mws ...Middleware) ports.ProjectStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
