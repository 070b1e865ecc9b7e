package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockroom/pkg/app"
	"github.com/ghuser/stockroom/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/stockroom/services/inventory/application/services"
)

// InventoryRoutes registers inventory endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("wire inventory services: %w", err)
	}

	photoURL := func(id int64) string {
		return fmt.Sprintf("/inventory/%d/photo", id)
	}

	r.Group(func(r chi.Router) {
		r.Post("/register", handlers.NewRegisterHandler(svcs, photoURL).Execute)
		r.Post("/search", handlers.NewSearchHandler(svcs).Execute)
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handlers.NewListItemsHandler(svcs, photoURL).Execute)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.NewGetItemHandler(svcs, photoURL).Execute)
				r.Put("/", handlers.NewUpdateItemHandler(svcs, photoURL).Execute)
				r.Delete("/", handlers.NewDeleteItemHandler(svcs).Execute)
				r.Get("/photo", handlers.NewGetPhotoHandler(svcs).Execute)
				r.Put("/photo", handlers.NewReplacePhotoHandler(svcs, photoURL).Execute)
			})
		})
	})
	return nil
}
