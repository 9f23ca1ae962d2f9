package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/pkg/bcrypt"
	"github.com/koaestudio/koa-photos-backend/pkg/database"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"github.com/koaestudio/koa-photos-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const visitorID = "3f0c6a52-8d1e-4c7a-9a57-0d9c1b2e4f10"

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Data     json.RawMessage `json:"data"`
	Redirect string          `json:"redirect"`
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	cfg := &config.Config{
		Env:           "development",
		FrontendURL:   "https://fotos.koa.com",
		CORSOrigins:   "*",
		WatermarkText: "©KOA",
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "koa-test",
			SessionTTL:  time.Hour,
			DownloadTTL: 4 * time.Hour,
		},
	}
	log := zap.NewNop()
	app := NewFiberApp(cfg, Dependencies{
		DB:       db,
		KV:       kv.NewMemoryStore(),
		Resolver: storage.PassthroughResolver{},
		Email:    email.NewEmailService(cfg.Email, cfg.FrontendURL, log),
		Logger:   log,
	})
	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Visitor-ID", visitorID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out))
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&models.AdminUser{FullName: "Admin", Email: "admin@koa.com", Password: hash}).Error)

	resp, env := s.do(t, http.MethodPost, "/api/admin/login", models.LoginRequest{Email: "admin@koa.com", Password: "s3cret"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", env.Redirect)

	var auth models.AuthResponse
	decode(t, env.Data, &auth)
	return auth.Token
}

func TestAdminRequiresSession(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/admin/events", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/admin/login", env.Redirect)

	resp, env = s.do(t, http.MethodGet, "/api/admin/events", nil, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/admin/login", env.Redirect)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp, env := s.do(t, http.MethodGet, "/api/admin/me", nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me models.AdminUser
	decode(t, env.Data, &me)
	assert.Equal(t, "admin@koa.com", me.Email)

	resp, _ = s.do(t, http.MethodPost, "/api/admin/logout", nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/admin/me", nil, auth)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownPathRedirectsHome(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/nowhere", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "/", env.Redirect)
}

func TestLocaleEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/locale", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "es", resp.Header.Get("Content-Language"))
	var view models.LocaleView
	decode(t, env.Data, &view)
	assert.Equal(t, "Seleccionar Todo", view.Strings["gallery"]["selectAll"])

	resp, _ = s.do(t, http.MethodPut, "/api/locale", models.SetLanguageRequest{Language: "fr"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/api/locale", models.SetLanguageRequest{Language: "en"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", resp.Header.Get("Content-Language"))

	resp, _ = s.do(t, http.MethodGet, "/api/events", nil, nil)
	assert.Equal(t, "en", resp.Header.Get("Content-Language"))
}

func TestNewVisitorGetsCookie(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/selection", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "koa_visitor" {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.Equal(t, c.Value, resp.Header.Get("X-Visitor-ID"))
		}
	}
	assert.True(t, found)
}

func TestCheckoutWithoutSelectionRedirectsHome(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/checkout/some-event", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "/", env.Redirect)
}

func TestGalleryOfInactiveEventIsNotFound(t *testing.T) {
	s := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + s.login(t)}

	inactive := false
	resp, env := s.do(t, http.MethodPost, "/api/admin/events", models.CreateEventRequest{Title: "Private", IsActive: &inactive}, auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var event models.Event
	decode(t, env.Data, &event)

	resp, env = s.do(t, http.MethodGet, "/api/events/"+event.ID+"/gallery", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "/", env.Redirect)
}

// TestOfflinePurchaseFlow walks an offline order from gallery to download.
func TestOfflinePurchaseFlow(t *testing.T) {
	s := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + s.login(t)}

	price := 5.0
	resp, env := s.do(t, http.MethodPost, "/api/admin/events", models.CreateEventRequest{Title: "Boda Ana & Luis", PricePerPhoto: &price}, auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var event models.Event
	decode(t, env.Data, &event)
	assert.Equal(t, "boda-ana-luis", event.Slug)
	assert.Equal(t, "/admin/events/"+event.ID, env.Redirect)

	photoIDs := make([]string, 0, 4)
	for _, name := range []string{"a", "b", "c", "d"} {
		resp, env = s.do(t, http.MethodPost, "/api/admin/events/"+event.ID+"/photos", models.RegisterPhotoRequest{
			Filename:     name + ".jpg",
			ThumbnailURL: "https://cdn.koa.com/thumb/" + name + ".jpg",
			FullURL:      "https://cdn.koa.com/full/" + name + ".jpg",
		}, auth)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var photo models.Photo
		decode(t, env.Data, &photo)
		photoIDs = append(photoIDs, photo.ID)
	}

	// gallery and selection
	resp, env = s.do(t, http.MethodGet, "/api/events/"+event.ID+"/gallery", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var gallery models.GalleryView
	decode(t, env.Data, &gallery)
	require.Len(t, gallery.Photos, 4)
	assert.Equal(t, 2000, gallery.Protection.PrintScreenBlurMs)

	for _, id := range photoIDs[:3] {
		resp, _ = s.do(t, http.MethodPost, "/api/selection/toggle", models.ToggleSelectionRequest{PhotoID: id}, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	// checkout
	resp, env = s.do(t, http.MethodGet, "/api/checkout/"+event.ID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary models.CheckoutSummary
	decode(t, env.Data, &summary)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "$15.00", summary.TotalDisplay)

	resp, _ = s.do(t, http.MethodPost, "/api/checkout/"+event.ID, models.CheckoutRequest{Name: "Ana", Email: "not-an-email", PaymentMethod: "offline"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = s.do(t, http.MethodPost, "/api/checkout/"+event.ID, models.CheckoutRequest{Name: "Ana", Email: "ana@example.com", PaymentMethod: "cash"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = s.do(t, http.MethodPost, "/api/checkout/"+event.ID, models.CheckoutRequest{Name: "Ana", Email: "ana@example.com", PaymentMethod: "offline"}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var placed models.PlacedOrder
	decode(t, env.Data, &placed)
	orderID := placed.Order.ID
	assert.Equal(t, "/download/"+orderID, env.Redirect)
	assert.Equal(t, 15.0, placed.Order.TotalAmount)
	assert.Equal(t, models.PaymentStatusPending, placed.Order.PaymentStatus)

	// locked until the admin issues a password
	resp, env = s.do(t, http.MethodGet, "/api/download/"+orderID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var locked models.DownloadView
	decode(t, env.Data, &locked)
	assert.False(t, locked.Unlocked)

	resp, env = s.do(t, http.MethodPost, "/api/download/"+orderID+"/all", nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "/download/"+orderID, env.Redirect)

	resp, env = s.do(t, http.MethodPost, "/api/admin/orders/"+orderID+"/password", nil, auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var generated models.GeneratedPassword
	decode(t, env.Data, &generated)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, generated.Password)

	resp, _ = s.do(t, http.MethodPost, "/api/admin/orders/"+orderID+"/password", nil, auth)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = s.do(t, http.MethodGet, "/api/admin/events/"+event.ID, nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(env.Data), generated.Password)

	// unlock
	resp, env = s.do(t, http.MethodPost, "/api/download/"+orderID+"/unlock", models.UnlockRequest{Password: "WRONGPWD"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid password. Please contact the photographer.", env.Error)

	resp, env = s.do(t, http.MethodPost, "/api/download/"+orderID+"/unlock", models.UnlockRequest{Password: generated.Password}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var unlocked models.DownloadView
	decode(t, env.Data, &unlocked)
	require.True(t, unlocked.Unlocked)
	require.Len(t, unlocked.Photos, 3)
	assert.Equal(t, models.PaymentStatusCompleted, unlocked.Order.PaymentStatus)

	// downloads
	resp, _ = s.do(t, http.MethodGet, unlocked.Photos[0].DownloadPath, nil, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://cdn.koa.com/full/a.jpg", resp.Header.Get("Location"))

	resp, env = s.do(t, http.MethodPost, "/api/download/"+orderID+"/all", nil, map[string]string{"X-Download-Token": unlocked.DownloadToken})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var links []models.DownloadLink
	decode(t, env.Data, &links)
	assert.Len(t, links, 3)

	var logged int64
	require.NoError(t, s.db.WithContext(context.Background()).Model(&models.DownloadLog{}).Where("order_id = ?", orderID).Count(&logged).Error)
	assert.Equal(t, int64(4), logged)

	resp, env = s.do(t, http.MethodGet, "/api/admin/events/"+event.ID, nil, auth)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var details models.EventDetails
	decode(t, env.Data, &details)
	assert.Equal(t, 15.0, details.Event.TotalRevenue)
	assert.Equal(t, 4, details.Event.TotalPhotos)
}

func TestOnlinePaymentFlow(t *testing.T) {
	s := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer " + s.login(t)}

	resp, env := s.do(t, http.MethodPost, "/api/admin/events", models.CreateEventRequest{Title: "Concert"}, auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var event models.Event
	decode(t, env.Data, &event)

	resp, env = s.do(t, http.MethodPost, "/api/admin/events/"+event.ID+"/photos", models.RegisterPhotoRequest{
		Filename: "x.jpg", ThumbnailURL: "https://cdn.koa.com/thumb/x.jpg", FullURL: "https://cdn.koa.com/full/x.jpg",
	}, auth)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = s.do(t, http.MethodPost, "/api/events/"+event.ID+"/selection/toggle-all", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary models.SelectionSummary
	decode(t, env.Data, &summary)
	assert.True(t, summary.AllSelected)
	assert.Equal(t, "$10.00", summary.TotalDisplay)

	resp, env = s.do(t, http.MethodPost, "/api/checkout/"+event.ID, models.CheckoutRequest{Name: "Luis", Email: "luis@example.com", PaymentMethod: "online"}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var placed models.PlacedOrder
	decode(t, env.Data, &placed)
	orderID := placed.Order.ID
	assert.Equal(t, "/payment/"+orderID, env.Redirect)

	resp, _ = s.do(t, http.MethodGet, "/api/payment/"+orderID+"/qr", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, env = s.do(t, http.MethodGet, "/api/payment/missing", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "/", env.Redirect)

	resp, env = s.do(t, http.MethodPost, "/api/payment/"+orderID+"/confirm", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/download/"+orderID, env.Redirect)

	resp, env = s.do(t, http.MethodGet, "/api/download/"+orderID, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view models.DownloadView
	decode(t, env.Data, &view)
	assert.True(t, view.Unlocked)
	assert.Len(t, view.Photos, 1)
}

func TestMalformedIDsGetTheDenialView(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodGet, "/api/events/not-a-uuid/gallery", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Event not found or access denied", env.Error)
	assert.Equal(t, "/", env.Redirect)

	resp, env = s.do(t, http.MethodGet, "/api/payment/not-a-uuid", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "/", env.Redirect)

	resp, _ = s.do(t, http.MethodGet, "/api/download/not-a-uuid", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/download/not-a-uuid/unlock", models.UnlockRequest{Password: "ABCD1234"}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSelectionRejectsMalformedPhotoIDs(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, http.MethodPost, "/api/selection/toggle", models.ToggleSelectionRequest{PhotoID: "abc"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid photo id", env.Error)

	resp, _ = s.do(t, http.MethodPut, "/api/selection", models.SelectAllRequest{PhotoIDs: []string{visitorID, "abc"}}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = s.do(t, http.MethodGet, "/api/selection", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view models.SelectionView
	decode(t, env.Data, &view)
	assert.Zero(t, view.Count)
}
