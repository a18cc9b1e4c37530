package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/catalog"
	"github.com/iliyamo/moviex-storefront/internal/model"
	"github.com/iliyamo/moviex-storefront/internal/repository"
)

type listResponse struct {
	Items []model.Movie `json:"items"`
}

func TestMovies_List(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/movies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listResponse](t, rec).Items, 2)

	rec = s.do(t, http.MethodGet, "/v1/movies?status=coming-soon", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[listResponse](t, rec).Items
	require.Len(t, items, 1)
	assert.Equal(t, "Gladiator II", items[0].Title)

	rec = s.do(t, http.MethodGet, "/v1/movies?q=dune", "")
	assert.Len(t, decode[listResponse](t, rec).Items, 1)

	rec = s.do(t, http.MethodGet, "/v1/movies?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovies_Get(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/movies/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dune: Part Two", decode[model.Movie](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/v1/movies/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"movie not found"}`, rec.Body.String())
}

// silentSource never delivers.
type silentSource struct{}

func (silentSource) WatchAll(context.Context, func([]model.Movie)) (repository.Unsubscribe, error) {
	return func() {}, nil
}

func (silentSource) Watch(context.Context, string, func(*model.Movie)) (repository.Unsubscribe, error) {
	return func() {}, nil
}

func TestMovies_Loading(t *testing.T) {
	cat := catalog.New(silentSource{})
	require.NoError(t, cat.Start(context.Background()))
	h := &MovieHandler{Catalog: cat}
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/movies/1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/movies", nil), rec)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
