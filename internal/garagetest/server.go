// Package garagetest runs an in-memory rendition of the garage backend for
// development and integration tests. It speaks the same wire contract the
// real server does, so client packages can be exercised end to end without a
// Python deployment.
package garagetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/pkg/config"
	"github.com/garage-vn/storefront/pkg/logger"
	"github.com/garage-vn/storefront/pkg/security"
)

// Server is the stub garage backend.
type Server struct {
	store      *store
	gateway    *Gateway
	validate   *validator.Validate
	logg       *logger.Logger
	sessionCfg config.SessionConfig
	sessionTTL time.Duration
}

// NewServer builds a stub with empty state. Seed* methods populate the data
// a scenario needs.
func NewServer(cfg *config.Config, logg *logger.Logger) *Server {
	return &Server{
		store:      newStore(),
		gateway:    NewGateway(cfg.Gateway),
		validate:   validator.New(),
		logg:       logg,
		sessionCfg: cfg.Session,
		sessionTTL: cfg.Stub.SessionTTL(),
	}
}

// SeedAccount registers a login account. The password is stored as an
// Argon2id hash, same as the real backend.
func (s *Server) SeedAccount(username, password, customerID, fullName string) error {
	hash, err := security.HashPassword(password, security.DefaultParams())
	if err != nil {
		return fmt.Errorf("seeding account %q: %w", username, err)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.accounts[username] = account{PasswordHash: hash, CustomerID: customerID, FullName: fullName}
	return nil
}

// SeedRepairForm registers a payable repair form with the given invoice
// amount.
func (s *Server) SeedRepairForm(id string, amount decimal.Decimal) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.repairForms[id] = amount
}

// SeedVehicles registers the vehicle list returned for a customer.
func (s *Server) SeedVehicles(customerID string, vehicles ...api.Vehicle) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.vehicles[customerID] = vehicles
}

// Flashes returns the flash notices recorded so far.
func (s *Server) Flashes() []string {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]string, len(s.store.flashes))
	copy(out, s.store.flashes)
	return out
}

// Comments returns the comments accepted so far.
func (s *Server) Comments() []api.AddCommentRequest {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]api.AddCommentRequest, len(s.store.comments))
	copy(out, s.store.comments)
	return out
}

// CartItemIDs returns the ids currently in the cart, sorted.
func (s *Server) CartItemIDs() []string {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.itemIDs()
}

// Router returns the HTTP handler exposing the garage wire contract.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Post("/api/carts", s.handleAddCartItem)
	r.Put("/api/update-cart", s.handleUpdateCartItem)
	r.Delete("/api/delete-cart/{itemId}", s.handleDeleteCartItem)

	r.Post("/api/pay", s.handlePayCash)
	r.Post("/api/pay_repair/{repairFormId}", s.handlePayRepairForm)
	r.Post("/api/pay_spare_part", s.handlePaySparePartOrder)
	r.Get("/payment_return", s.handlePaymentReturn)

	r.Post("/flash-login-required", s.handleFlashLoginRequired)
	r.Post("/api/comments", s.handleAddComment)
	r.Get("/vehicles/{customerId}", s.handleListVehicles)
	r.Post("/api/login", s.handleLogin)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if s.logg != nil {
			ctx := s.logg.WithField(r.Context(), "method", r.Method)
			ctx = s.logg.WithField(ctx, "path", r.URL.Path)
			ctx = s.logg.WithField(ctx, "duration_ms", time.Since(start).Milliseconds())
			s.logg.Debug(ctx, "stub request handled")
		}
	})
}

type addCartPayload struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var payload addCartPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Dữ liệu không hợp lệ"})
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Thiếu mã sản phẩm"})
		return
	}

	s.store.mu.Lock()
	qty := s.store.addItem(payload.ID, payload.Name, payload.UnitPrice)
	s.store.mu.Unlock()

	// The add response deliberately reports only the quantity, matching the
	// backend's asymmetric summary shape.
	writeJSON(w, http.StatusOK, map[string]int{"total_quantity": qty})
}

type updateCartPayload struct {
	ID       string `json:"id" validate:"required"`
	Quantity *int   `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload updateCartPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Dữ liệu không hợp lệ"})
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Thiếu mã sản phẩm"})
		return
	}
	if payload.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Số lượng không hợp lệ"})
		return
	}

	s.store.mu.Lock()
	ok := s.store.setQuantity(payload.ID, *payload.Quantity)
	qty, amount := s.store.summary()
	s.store.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"err_msg": "Sản phẩm không có trong giỏ hàng"})
		return
	}
	writeSummary(w, qty, amount)
}

func (s *Server) handleDeleteCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemId")

	s.store.mu.Lock()
	ok := s.store.removeItem(id)
	qty, amount := s.store.summary()
	s.store.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"err_msg": "Sản phẩm không có trong giỏ hàng"})
		return
	}
	writeSummary(w, qty, amount)
}

type payPayload struct {
	RepairFormID  string `json:"repair_form_id"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) handlePayCash(w http.ResponseWriter, r *http.Request) {
	var payload payPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusOK, api.PayResult{Code: 400, Msg: "Dữ liệu không hợp lệ"})
		return
	}
	if payload.PaymentMethod != api.PaymentMethodCash {
		writeJSON(w, http.StatusOK, api.PayResult{Code: 400, Msg: "Phương thức thanh toán không được hỗ trợ"})
		return
	}
	if payload.RepairFormID != "" {
		s.store.mu.Lock()
		_, ok := s.store.repairForms[payload.RepairFormID]
		s.store.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusOK, api.PayResult{Code: 404, Msg: "Không tìm thấy phiếu sửa chữa"})
			return
		}
	}
	// Cash settles immediately, so no redirect URL is issued.
	writeJSON(w, http.StatusOK, api.PayResult{Code: 200})
}

func (s *Server) handlePayRepairForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "repairFormId")

	s.store.mu.Lock()
	amount, ok := s.store.repairForms[id]
	s.store.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusOK, api.PayResult{Code: 404, Msg: "Không tìm thấy phiếu sửa chữa"})
		return
	}

	payURL := s.gateway.BuildCheckoutURL(amount, "repair-"+id, "Thanh toan phieu sua chua "+id, clientIP(r))
	writeJSON(w, http.StatusOK, api.PayResult{Code: 200, PayURL: payURL})
}

func (s *Server) handlePaySparePartOrder(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	qty, amount := s.store.summary()
	s.store.mu.Unlock()

	if qty == 0 {
		writeJSON(w, http.StatusOK, api.PayResult{Code: 400, Msg: "Giỏ hàng trống"})
		return
	}

	txnRef := "order-" + uuid.NewString()
	payURL := s.gateway.BuildCheckoutURL(amount, txnRef, "Thanh toan don hang phu tung", clientIP(r))
	writeJSON(w, http.StatusOK, api.PayResult{Code: 200, PayURL: payURL})
}

func (s *Server) handlePaymentReturn(w http.ResponseWriter, r *http.Request) {
	if !s.gateway.VerifySecureHash(r.URL.Query()) {
		writeJSON(w, http.StatusOK, api.PayResult{Code: 400, Msg: "Chữ ký không hợp lệ"})
		return
	}
	writeJSON(w, http.StatusOK, api.PayResult{Code: 200, Msg: "Thanh toán thành công"})
}

func (s *Server) handleFlashLoginRequired(w http.ResponseWriter, _ *http.Request) {
	s.store.mu.Lock()
	s.store.flashes = append(s.store.flashes, "login required")
	s.store.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{})
}

type commentPayload struct {
	SparePartID string `json:"sparepart_id" validate:"required"`
	Content     string `json:"content" validate:"required,max=2000"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var payload commentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, api.CommentResult{Status: 400, ErrMsg: "Dữ liệu không hợp lệ"})
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, api.CommentResult{Status: 400, ErrMsg: "Nội dung bình luận không hợp lệ"})
		return
	}

	s.store.mu.Lock()
	s.store.comments = append(s.store.comments, api.AddCommentRequest{SparePartID: payload.SparePartID, Content: payload.Content})
	s.store.mu.Unlock()

	writeJSON(w, http.StatusCreated, api.CommentResult{Status: 201})
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	s.store.mu.Lock()
	vehicles := s.store.vehicles[customerID]
	s.store.mu.Unlock()

	if vehicles == nil {
		vehicles = []api.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Dữ liệu không hợp lệ"})
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err_msg": "Thiếu tên đăng nhập hoặc mật khẩu"})
		return
	}

	s.store.mu.Lock()
	acct, ok := s.store.accounts[payload.Username]
	s.store.mu.Unlock()

	if ok {
		match, err := security.VerifyPassword(payload.Password, acct.PasswordHash)
		ok = err == nil && match
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"err_msg": "Sai tên đăng nhập hoặc mật khẩu"})
		return
	}

	token, err := s.mintToken(acct)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"err_msg": "Không tạo được phiên đăng nhập"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "access_token": token})
}

func (s *Server) mintToken(acct account) (string, error) {
	ttl := s.sessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := session.Claims{
		CustomerID: acct.CustomerID,
		FullName:   acct.FullName,
		Role:       "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.sessionCfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.sessionCfg.JWTSecret))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

func writeSummary(w http.ResponseWriter, qty int, amount decimal.Decimal) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_quantity": qty,
		"total_amount":   amount,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
