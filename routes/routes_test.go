package routes

import (
	"net/http"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"savora/orderfeed"
	"savora/ratelim"
)

func TestRoutesWrapperRegistersSurface(t *testing.T) {
	router := httprouter.New()
	RoutesWrapper(router, ratelim.NewRateLimiter(), orderfeed.NewHub())

	registered := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/user/register"},
		{http.MethodPost, "/api/user/login"},
		{http.MethodPost, "/api/user/profile"},
		{http.MethodGet, "/api/food/list"},
		{http.MethodPost, "/api/cart/add"},
		{http.MethodPost, "/api/cart/sync"},
		{http.MethodPost, "/api/order/place"},
		{http.MethodPost, "/api/order/verify"},
		{http.MethodPost, "/api/order/webhook"},
		{http.MethodGet, "/api/order/userorders"},
		{http.MethodGet, "/api/order/invoice/o1"},
		{http.MethodPost, "/api/order/status"},
		{http.MethodPost, "/api/promo/validate"},
		{http.MethodGet, "/api/banner/active"},
	}
	for _, route := range registered {
		handler, _, _ := router.Lookup(route.method, route.path)
		assert.NotNil(t, handler, "%s %s not registered", route.method, route.path)
	}

	// profile is a POST endpoint, matching the storefront client
	handler, _, _ := router.Lookup(http.MethodGet, "/api/user/profile")
	assert.Nil(t, handler)
}
