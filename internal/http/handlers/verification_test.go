package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/provider"
	"github.com/ledgerline/internal/router"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupAPITest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	if err := models.InitDB("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Auth.Mode = constants.AuthModePhone
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 1
	cfg.SMS.Enabled = true
	cfg.SMS.DryRun = true
	cfg.Verification.CodeExpireMinutes = 10
	cfg.Verification.MaxSendsPerWindow = 3
	cfg.Verification.WindowMinutes = 60
	cfg.Invoice.DefaultDueDays = 30
	cfg.Invoice.DefaultTaxRate = "0"

	container := provider.NewContainer(cfg)
	return router.New(container), container
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if len(rec.Body.Bytes()) > 0 && rec.Header().Get("Content-Type") != "application/pdf" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope failed (%s %s): %v body=%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestVerificationFlowOverHTTP(t *testing.T) {
	engine, container := setupAPITest(t)
	phone := "+15555550123"

	rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/verifications", "", gin.H{"phone_number": "(555) 555-0123"})
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("send want 200/0 got %d/%d body=%s", rec.Code, env.StatusCode, rec.Body.String())
	}
	var pending struct {
		Pending bool `json:"pending"`
	}
	if err := json.Unmarshal(env.Data, &pending); err != nil || !pending.Pending {
		t.Fatalf("send data want pending=true got %s", env.Data)
	}

	code, found, err := container.CodeStore.GetCode(context.Background(), phone)
	if err != nil || !found {
		t.Fatalf("stored code lookup failed: found=%v err=%v", found, err)
	}

	wrong := code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	rec, env = doJSON(t, engine, http.MethodPut, "/api/v1/verifications", "", gin.H{"phone_number": phone, "code": wrong})
	if rec.Code != 401 || env.StatusCode != 401 {
		t.Fatalf("wrong code want 401 got %d/%d", rec.Code, env.StatusCode)
	}

	rec, env = doJSON(t, engine, http.MethodPut, "/api/v1/verifications", "", gin.H{"phone_number": phone, "code": code})
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("verify want 200/0 got %d/%d body=%s", rec.Code, env.StatusCode, rec.Body.String())
	}
	var session struct {
		Token string `json:"token"`
		User  struct {
			ID          string  `json:"id"`
			PhoneNumber *string `json:"phone_number"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("verify returned no token")
	}
	if session.User.PhoneNumber == nil || *session.User.PhoneNumber != phone {
		t.Fatalf("session user phone mismatch: %+v", session.User)
	}

	rec, env = doJSON(t, engine, http.MethodGet, "/api/v1/me", session.Token, nil)
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("me want 200/0 got %d/%d", rec.Code, env.StatusCode)
	}

	// The code is consumed; replaying it is rejected.
	rec, env = doJSON(t, engine, http.MethodPut, "/api/v1/verifications", "", gin.H{"phone_number": phone, "code": code})
	if rec.Code != 401 {
		t.Fatalf("replayed code want 401 got %d", rec.Code)
	}
}

func TestSendVerificationRejectsMalformedPhone(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/verifications", "", gin.H{"phone_number": "12345"})
	if rec.Code != 422 || env.StatusCode != 422 {
		t.Fatalf("malformed phone want 422 got %d/%d", rec.Code, env.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine, _ := setupAPITest(t)

	rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/invoices", "", nil)
	if rec.Code != 401 {
		t.Fatalf("unauthenticated list want 401 got %d", rec.Code)
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	engine, container := setupAPITest(t)
	phone := "+15555550123"
	ctx := context.Background()

	if _, env := doJSON(t, engine, http.MethodPost, "/api/v1/verifications", "", gin.H{"phone_number": phone}); env.StatusCode != 0 {
		t.Fatalf("send failed: %d", env.StatusCode)
	}
	code, found, err := container.CodeStore.GetCode(ctx, phone)
	if err != nil || !found {
		t.Fatalf("stored code lookup failed: found=%v err=%v", found, err)
	}
	_, env := doJSON(t, engine, http.MethodPut, "/api/v1/verifications", "", gin.H{"phone_number": phone, "code": code})
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil || session.Token == "" {
		t.Fatalf("no session token: %v %s", err, env.Data)
	}
	token := session.Token

	rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/clients", token, gin.H{"name": "Acme", "email": "billing@acme.test"})
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("create client want 200/0 got %d/%d body=%s", rec.Code, env.StatusCode, rec.Body.String())
	}
	var client struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &client); err != nil || client.ID == "" {
		t.Fatalf("no client id: %v %s", err, env.Data)
	}

	rec, env = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", token, gin.H{
		"client_id": client.ID,
		"items": []gin.H{
			{"description": "Design work", "quantity": "2", "unit_price": "19.99"},
		},
	})
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("create invoice want 200/0 got %d/%d body=%s", rec.Code, env.StatusCode, rec.Body.String())
	}
	var created struct {
		Invoice struct {
			ID string `json:"id"`
		} `json:"invoice"`
		Subtotal string `json:"subtotal"`
		Total    string `json:"total_amount"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.Invoice.ID == "" {
		t.Fatalf("no invoice id: %v %s", err, env.Data)
	}
	if created.Subtotal != "39.98" {
		t.Fatalf("subtotal want 39.98 got %s", created.Subtotal)
	}

	rec, env = doJSON(t, engine, http.MethodPost, "/api/v1/invoices/"+created.Invoice.ID+"/status", token, gin.H{"status": "sent"})
	if rec.Code != 200 || env.StatusCode != 0 {
		t.Fatalf("mark sent want 200/0 got %d/%d body=%s", rec.Code, env.StatusCode, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+created.Invoice.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	pdfRec := httptest.NewRecorder()
	engine.ServeHTTP(pdfRec, req)
	if pdfRec.Code != 200 {
		t.Fatalf("pdf want 200 got %d", pdfRec.Code)
	}
	if !bytes.HasPrefix(pdfRec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf body does not look like a pdf")
	}
}
