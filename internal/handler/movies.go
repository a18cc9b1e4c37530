package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/catalog"
	"github.com/iliyamo/moviex-storefront/internal/repository"
)

// MovieHandler serves the listing and detail screens.
type MovieHandler struct {
	Catalog *catalog.Catalog
}

// List returns {"items": [...]} for ?status=now-showing|coming-soon and an
// optional ?q= title search.  503 while the catalog is loading.
func (h *MovieHandler) List(c echo.Context) error {
	f, ok := catalog.ParseFilter(c.QueryParam("status"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	movies, err := h.Catalog.List(f, c.QueryParam("q"))
	if errors.Is(err, catalog.ErrLoading) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "loading"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Get returns one movie: 404 when the id is unknown, 503 while loading.
func (h *MovieHandler) Get(c echo.Context) error {
	m, err := h.Catalog.Get(c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrLoading):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "loading"})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog error"})
	}
	return c.JSON(http.StatusOK, m)
}
