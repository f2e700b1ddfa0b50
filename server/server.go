package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ray-remotestate/burgerhouse/handlers"
	"github.com/ray-remotestate/burgerhouse/middlewares"
	"github.com/ray-remotestate/burgerhouse/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
	serviceName       = "burgerhouse"
)

func SetupRoutes(api *handlers.API, secret []byte) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/health", api.Health).Methods("GET")
	router.HandleFunc("/register", api.Register).Methods("POST")
	router.HandleFunc("/refresh", api.RefreshToken).Methods("POST")
	router.HandleFunc("/login", api.Login).Methods("POST")

	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.Auth(secret))

	authRoutes.HandleFunc("/logout", api.Logout).Methods("POST")
	authRoutes.HandleFunc("/profile", api.GetProfile).Methods("GET")
	authRoutes.HandleFunc("/profile", api.UpdateProfile).Methods("PATCH")

	authRoutes.HandleFunc("/menu", api.ListMenu).Methods("GET")

	authRoutes.HandleFunc("/cart", api.GetCart).Methods("GET")
	authRoutes.HandleFunc("/cart", api.ClearCart).Methods("DELETE")
	authRoutes.HandleFunc("/cart/items", api.AddCartItem).Methods("POST")
	authRoutes.HandleFunc("/cart/items/{cartId}", api.UpdateCartItemQuantity).Methods("PATCH")
	authRoutes.HandleFunc("/cart/items/{cartId}", api.EditCartItem).Methods("PUT")
	authRoutes.HandleFunc("/cart/items/{cartId}", api.RemoveCartItem).Methods("DELETE")
	authRoutes.HandleFunc("/checkout", api.Checkout).Methods("POST")

	authRoutes.HandleFunc("/orders", api.ListMyOrders).Methods("GET")
	authRoutes.HandleFunc("/orders/stream", api.StreamMyOrders).Methods("GET")
	authRoutes.HandleFunc("/orders/{id}", api.GetOrder).Methods("GET")

	// admin only
	admin := authRoutes.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.RoleBasedMiddleware(models.RoleAdmin))

	admin.HandleFunc("/menu", api.CreateMenuItem).Methods("POST")
	admin.HandleFunc("/menu/{id}", api.UpdateMenuItem).Methods("PUT")
	admin.HandleFunc("/menu/{id}", api.DeleteMenuItem).Methods("DELETE")
	admin.HandleFunc("/orders", api.ListAllOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/advance", api.AdvanceOrder).Methods("POST")
	admin.HandleFunc("/dashboard", api.Dashboard).Methods("GET")

	svr := &Server{Router: router}
	svr.server = &http.Server{
		Handler:           svr.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr
}

// Handler is the router wrapped with request tracing.
func (svr *Server) Handler() http.Handler {
	return otelhttp.NewHandler(svr.Router, serviceName)
}

func (svr *Server) Run(addr string) error {
	svr.server.Addr = addr
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
