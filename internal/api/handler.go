package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tarim-admin/internal/dashboard"
	"tarim-admin/internal/menu"
	"tarim-admin/internal/metrics"
	"tarim-admin/internal/middleware"
	"tarim-admin/internal/order"
	"tarim-admin/internal/profile"
	"tarim-admin/internal/state"
	"tarim-admin/internal/user"
	"tarim-admin/internal/utils"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var errBadBody = errors.New("invalid request body")

type Services struct {
	Users     user.Service
	Profiles  profile.Service
	Menu      menu.Service
	Orders    order.Service
	Dashboard dashboard.Service
}

type Handler struct {
	Services
	State   *state.Store
	Metrics *metrics.Registry
	QR      QRGenerator

	upgrader websocket.Upgrader
}

func NewHandler(svc Services, st *state.Store, reg *metrics.Registry, qr QRGenerator, origins []string) *Handler {
	if st == nil {
		st = state.NewStore()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Handler{
		Services: svc,
		State:    st,
		Metrics:  reg,
		QR:       qr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigins(origins),
		},
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/metrics", h.metrics).Methods("GET")

	r.HandleFunc("/api/auth/signup", h.signUp).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")

	r.Handle("/ws/orders", middleware.RequireAuth(http.HandlerFunc(h.ordersFeed))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth)

	api.HandleFunc("/profile", h.getProfile).Methods("GET")
	api.HandleFunc("/profile", h.updateProfile).Methods("PUT")

	api.HandleFunc("/menu", h.listMenu).Methods("GET")
	api.HandleFunc("/menu", h.createMenuItem).Methods("POST")
	api.HandleFunc("/menu/{id}", h.updateMenuItem).Methods("PUT")
	api.HandleFunc("/menu/{id}", h.deleteMenuItem).Methods("DELETE")

	api.HandleFunc("/orders", h.listOrders).Methods("GET")
	api.HandleFunc("/orders", h.createOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id}", h.updateOrder).Methods("PATCH")
	api.HandleFunc("/orders/{id}", h.deleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/{id}/status", h.updateOrderStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id}/qrcode", h.orderQRCode).Methods("GET")

	api.HandleFunc("/dashboard", h.getDashboard).Methods("GET")
	api.HandleFunc("/state", h.getState).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "tarim-admin",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// metrics renders every counter as "<name> <value>" lines.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	snap := h.Metrics.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range h.Metrics.Names() {
		w.Write([]byte(name + " " + strconv.FormatUint(snap[name], 10) + "\n"))
	}
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.State.Snapshot())
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}
