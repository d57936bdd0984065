package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-inventory/internal/config"
	"pos-inventory/internal/domain"
	"pos-inventory/internal/events"
	"pos-inventory/internal/middleware"
	"pos-inventory/internal/repository/repotest"
	"pos-inventory/internal/service"
	"pos-inventory/internal/storage"
	"pos-inventory/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "transport-test-secret"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testAPI struct {
	router http.Handler
	store  *repotest.Store
	media  afero.Fs
	users  service.UserService
}

// newTestAPI wires every handler over in-memory collaborators. Resource
// routes sit behind the real auth middleware like in the server.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zap.NewNop()
	store := repotest.NewStore()
	mediaFs := afero.NewBasePathFs(afero.NewMemMapFs(), "/public")
	validator := validation.New()

	users := service.NewUserService(store.Users(), store.RefreshTokens(), config.JWTConfig{Secret: testSecret, AccessExpiry: 15, RefreshExpiry: 7})
	categories := service.NewCategoryService(store.Categories(), validator, logger)
	products := service.NewProductService(store.Products(), store.Categories(), storage.NewDiskStoreFs(mediaFs, logger), validator, validation.DefaultImageRule(), logger)
	orders := service.NewOrderService(store.Orders(), store.Users(), events.NoopPublisher{}, validator, logger)

	r := chi.NewRouter()
	authMiddleware := middleware.AuthMiddleware(testSecret, logger)
	NewAuthHandler(users, validator, logger).RegisterRoutes(r, authMiddleware)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		NewCategoryHandler(categories, logger).RegisterRoutes(r)
		NewProductHandler(products, logger).RegisterRoutes(r)
		NewOrderHandler(orders, logger).RegisterRoutes(r)
	})

	return &testAPI{router: r, store: store, media: mediaFs, users: users}
}

// login registers a cashier and returns a bearer token for it
func (api *testAPI) login(t *testing.T) (string, *domain.User) {
	t.Helper()
	ctx := context.Background()

	_, err := api.users.Register(ctx, "Cashier", "cashier@example.com", "password123")
	require.NoError(t, err)
	token, _, user, err := api.users.Login(ctx, "cashier@example.com", "password123")
	require.NoError(t, err)
	return token, user
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (api *testAPI) do(t *testing.T, token string, req *http.Request) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var body envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body), "response is not an envelope")
	return w.Code, body
}

func (api *testAPI) json(t *testing.T, token, method, path string, payload interface{}) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body = bytes.NewBufferString(p)
		default:
			raw, err := json.Marshal(p)
			require.NoError(t, err)
			body = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return api.do(t, token, req)
}

// multipartRequest builds a form body with an optional image part
func multipartRequest(t *testing.T, method, path string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeData(t *testing.T, body envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Data, dst))
}
