//go:build !swagger

package httpapi

import "github.com/go-chi/chi/v5"

// MountSwagger does nothing in default builds; -tags=swagger swaps in the
// real UI mount.
func MountSwagger(chi.Router) {}
