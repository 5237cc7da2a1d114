package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/config"
	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/db"
	"summercamp-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIntents struct{}

func (stubIntents) CreatePaymentIntent(context.Context, int64, string) (string, error) {
	return "pi_test_secret", nil
}

// failingDeleteStore is a memory store whose DeleteMany always fails.
type failingDeleteStore struct {
	*db.MemoryStore
}

func (failingDeleteStore) DeleteMany(context.Context, string, db.Filter) (db.DeleteResult, error) {
	return db.DeleteResult{}, errors.New("connection reset")
}

type testServer struct {
	router *gin.Engine
	store  db.DocumentStore
	tokens core.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStore(t, db.NewMemoryStore())
}

func newTestServerWithStore(t *testing.T, store db.DocumentStore) *testServer {
	t.Helper()
	if err := RegisterValidators(store); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}
	logger := zap.NewNop()
	userRepo := db.NewUserRepository(store)
	classRepo := db.NewClassRepository(store)
	cartRepo := db.NewCartRepository(store)
	paymentRepo := db.NewPaymentRepository(store)
	tokens := core.NewTokenService("test-secret", time.Hour)

	svc := Services{
		Tokens:      tokens,
		Users:       core.NewUserService(userRepo),
		Classes:     core.NewClassService(classRepo),
		Instructors: core.NewInstructorService(userRepo, classRepo),
		Carts:       core.NewCartService(cartRepo),
		Payments:    core.NewPaymentService(paymentRepo, cartRepo, stubIntents{}, nil, "usd", logger),
	}
	cfg := &config.Config{StoreDriver: config.StoreMemory}
	router := NewRouter(cfg, svc, RouterOptions{StoreDriver: cfg.StoreDriver}, logger)
	return &testServer{router: router, store: store, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user with role and returns a token for them.
func (s *testServer) signup(t *testing.T, email, role string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", "", models.CreateUserRequest{Name: email, Email: email, Role: role})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /users %s: %d %s", email, rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/jwt", "", models.Identity{Email: email})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /jwt: %d %s", rec.Code, rec.Body.String())
	}
	var tok TokenResponse
	decode(t, rec, &tok)
	return tok.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "Summer Camp is running!" {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/health", "", nil)
	var health HealthResponse
	decode(t, rec, &health)
	if rec.Code != http.StatusOK || health.Status != "UP" || health.Store != config.StoreMemory {
		t.Errorf("GET /health = %d %+v", rec.Code, health)
	}

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "summercamp_http_requests_total") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}

func TestCreateUserTwice(t *testing.T) {
	s := newTestServer(t)
	body := models.CreateUserRequest{Name: "Sam", Email: "sam@example.com"}

	rec := s.do(t, http.MethodPost, "/users", "", body)
	var inserted db.InsertResult
	decode(t, rec, &inserted)
	if rec.Code != http.StatusOK || inserted.InsertedID == "" || !inserted.Acknowledged {
		t.Fatalf("first POST /users = %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/users", "", body)
	var msg MessageResponse
	decode(t, rec, &msg)
	if rec.Code != http.StatusOK || msg.Message != "User already exist!" {
		t.Fatalf("second POST /users = %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/users/sam@example.com", "", nil)
	var user models.User
	decode(t, rec, &user)
	if rec.Code != http.StatusOK || user.ID != inserted.InsertedID || user.Role != models.RoleStudent {
		t.Errorf("GET /users/:email = %d %+v", rec.Code, user)
	}

	rec = s.do(t, http.MethodGet, "/users/nobody@example.com", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/users", "", map[string]string{"name": "no email"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid body status = %d", rec.Code)
	}
}

func TestApproveClassFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.signup(t, "admin@example.com", models.RoleAdmin)
	studentToken := s.signup(t, "student@example.com", models.RoleStudent)
	instructorToken := s.signup(t, "teach@example.com", models.RoleInstructor)

	rec := s.do(t, http.MethodPost, "/class", instructorToken, models.CreateClassRequest{
		InstructorName: "Teach", InstructorEmail: "teach@example.com", ClassName: "Archery", Seats: 12, Price: 30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /class = %d %s", rec.Code, rec.Body.String())
	}
	var created db.InsertResult
	decode(t, rec, &created)
	path := "/class/approve/" + created.InsertedID

	if rec := s.do(t, http.MethodPatch, path, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPatch, path, studentToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("student token: %d", rec.Code)
	}
	rec = s.do(t, http.MethodPatch, path, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin token: %d %s", rec.Code, rec.Body.String())
	}
	var updated db.UpdateResult
	decode(t, rec, &updated)
	if updated.MatchedCount != 1 || updated.ModifiedCount != 1 {
		t.Errorf("update result = %+v", updated)
	}

	rec = s.do(t, http.MethodGet, "/class/"+created.InsertedID, "", nil)
	var class models.Class
	decode(t, rec, &class)
	if class.Status != models.StatusApproved {
		t.Errorf("status after approve = %q", class.Status)
	}

	rec = s.do(t, http.MethodGet, "/instructors", "", nil)
	var summaries []models.InstructorSummary
	decode(t, rec, &summaries)
	if len(summaries) != 1 || summaries[0].ApprovedClasses != 1 || summaries[0].ClassNames[0] != "Archery" {
		t.Errorf("instructors = %+v", summaries)
	}
}

func TestClassCreationRequiresInstructor(t *testing.T) {
	s := newTestServer(t)
	studentToken := s.signup(t, "student@example.com", "")
	body := models.CreateClassRequest{InstructorEmail: "student@example.com", ClassName: "Sneaky"}

	if rec := s.do(t, http.MethodPost, "/class", studentToken, body); rec.Code != http.StatusForbidden {
		t.Errorf("student creating class: %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/class", "", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous creating class: %d", rec.Code)
	}
}

func TestRoleChecks(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.signup(t, "admin@example.com", models.RoleAdmin)
	studentToken := s.signup(t, "student@example.com", "")

	check := func(path, token, key string, want bool) {
		t.Helper()
		rec := s.do(t, http.MethodGet, path, token, nil)
		var body map[string]bool
		decode(t, rec, &body)
		if rec.Code != http.StatusOK || body[key] != want {
			t.Errorf("GET %s = %d %v, want %s=%v", path, rec.Code, body, key, want)
		}
	}
	check("/users/admin/admin@example.com", adminToken, "admin", true)
	check("/users/admin/admin@example.com", studentToken, "admin", false)
	check("/users/student/student@example.com", studentToken, "student", true)
	check("/users/instructor/student@example.com", studentToken, "instructor", false)

	if rec := s.do(t, http.MethodGet, "/users", studentToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("student listing users: %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/users?role=Admin", adminToken, nil)
	var admins []models.User
	decode(t, rec, &admins)
	if rec.Code != http.StatusOK || len(admins) != 1 {
		t.Errorf("GET /users?role=Admin = %d %+v", rec.Code, admins)
	}

	var student models.User
	decode(t, s.do(t, http.MethodGet, "/users/student@example.com", "", nil), &student)
	rec = s.do(t, http.MethodPatch, "/users/instructor/"+student.ID, adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: %d %s", rec.Code, rec.Body.String())
	}
	check("/users/instructor/student@example.com", studentToken, "instructor", true)
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.signup(t, "admin@example.com", models.RoleAdmin)

	for _, tc := range []struct {
		method, path, token string
	}{
		{http.MethodGet, "/class/not-an-id", ""},
		{http.MethodGet, "/instructors/not-an-id", ""},
		{http.MethodDelete, "/users/not-an-id", ""},
		{http.MethodDelete, "/carts/not-an-id", ""},
		{http.MethodPatch, "/class/deny/not-an-id", adminToken},
		{http.MethodGet, "/class/enrolled?ids=not-an-id", ""},
	} {
		rec := s.do(t, tc.method, tc.path, tc.token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s = %d, want 400", tc.method, tc.path, rec.Code)
			continue
		}
		var body ErrorResponse
		decode(t, rec, &body)
		if !body.Error || body.Message != core.ErrValidation.Error() {
			t.Errorf("%s %s body = %+v", tc.method, tc.path, body)
		}
	}

	rec := s.do(t, http.MethodGet, "/instructors/0c6f7f8e-1c2d-4e5f-8a9b-0c1d2e3f4a5b", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown instructor = %d, want 404", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/carts", "", models.AddCartItemRequest{Email: "s@example.com", ClassID: "bad"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("cart with malformed classId = %d, want 400", rec.Code)
	}
}

func TestEnrolledClasses(t *testing.T) {
	s := newTestServer(t)
	classRepo := db.NewClassRepository(s.store)
	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		c := &models.Class{ClassName: name}
		if _, err := classRepo.Create(context.Background(), c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, c.ID)
	}
	unknown := "0c6f7f8e-1c2d-4e5f-8a9b-0c1d2e3f4a5b"

	for _, path := range []string{
		"/class/enrolled?ids=" + ids[0] + "," + ids[2] + "," + unknown,
		"/class/enrolled?ids=" + ids[0] + "&ids=" + ids[2] + "&ids=" + unknown,
	} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		var classes []models.Class
		decode(t, rec, &classes)
		if rec.Code != http.StatusOK || len(classes) != 2 {
			t.Errorf("GET %s = %d %+v", path, rec.Code, classes)
		}
	}

	rec := s.do(t, http.MethodGet, "/class/enrolled", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("no ids = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCartAndPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "s@example.com", "")
	otherToken := s.signup(t, "other@example.com", "")
	classID := "0c6f7f8e-1c2d-4e5f-8a9b-0c1d2e3f4a5b"

	var cartIDs []string
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/carts", "", models.AddCartItemRequest{Email: "s@example.com", ClassID: classID, ClassName: "Yoga", Price: 20})
		if rec.Code != http.StatusOK {
			t.Fatalf("POST /carts = %d %s", rec.Code, rec.Body.String())
		}
		var res db.InsertResult
		decode(t, rec, &res)
		cartIDs = append(cartIDs, res.InsertedID)
	}

	if rec := s.do(t, http.MethodGet, "/carts?email=s@example.com", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous cart read = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/carts?email=s@example.com", otherToken, nil); rec.Code != http.StatusForbidden {
		t.Errorf("foreign cart read = %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/carts?email=s@example.com", token, nil)
	var items []models.CartItem
	decode(t, rec, &items)
	if rec.Code != http.StatusOK || len(items) != 2 {
		t.Fatalf("GET /carts = %d %+v", rec.Code, items)
	}

	rec = s.do(t, http.MethodPost, "/create-payment-intent", token, models.CreatePaymentIntentRequest{Price: 40})
	var intent ClientSecretResponse
	decode(t, rec, &intent)
	if rec.Code != http.StatusOK || intent.ClientSecret != "pi_test_secret" {
		t.Errorf("POST /create-payment-intent = %d %+v", rec.Code, intent)
	}

	rec = s.do(t, http.MethodPost, "/payments", token, models.CreatePaymentRequest{
		Email: "s@example.com", TransactionID: "pi_1", Price: 40, CartItemsID: cartIDs, ClassesID: []string{classID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /payments = %d %s", rec.Code, rec.Body.String())
	}
	var result core.PaymentResult
	decode(t, rec, &result)
	if result.InsertResult.InsertedID == "" || result.DeleteResult == nil || result.DeleteResult.DeletedCount != 2 {
		t.Errorf("payment result = %+v", result)
	}

	rec = s.do(t, http.MethodGet, "/carts?email=s@example.com", token, nil)
	items = nil
	decode(t, rec, &items)
	if len(items) != 0 {
		t.Errorf("cart after payment = %+v", items)
	}

	rec = s.do(t, http.MethodGet, "/payments?email=s@example.com", token, nil)
	var history []models.Payment
	decode(t, rec, &history)
	if rec.Code != http.StatusOK || len(history) != 1 || history[0].TransactionID != "pi_1" {
		t.Errorf("GET /payments = %d %+v", rec.Code, history)
	}

	rec = s.do(t, http.MethodGet, "/payments/count?classId="+classID, "", nil)
	var count CountResponse
	decode(t, rec, &count)
	if rec.Code != http.StatusOK || count.Count != 1 {
		t.Errorf("GET /payments/count = %d %+v", rec.Code, count)
	}

	if rec := s.do(t, http.MethodGet, "/payments/count", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("count without classId = %d, want 400", rec.Code)
	}
}

func TestPaymentKeptWhenCartClearFails(t *testing.T) {
	s := newTestServerWithStore(t, failingDeleteStore{db.NewMemoryStore()})
	token := s.signup(t, "s@example.com", "")
	classID := "0c6f7f8e-1c2d-4e5f-8a9b-0c1d2e3f4a5b"

	rec := s.do(t, http.MethodPost, "/carts", "", models.AddCartItemRequest{Email: "s@example.com", ClassID: classID, ClassName: "Yoga", Price: 20})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /carts = %d %s", rec.Code, rec.Body.String())
	}
	var cartItem db.InsertResult
	decode(t, rec, &cartItem)

	rec = s.do(t, http.MethodPost, "/payments", token, models.CreatePaymentRequest{
		Email: "s@example.com", TransactionID: "pi_2", Price: 20, CartItemsID: []string{cartItem.InsertedID}, ClassesID: []string{classID},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("POST /payments = %d %s, want 500", rec.Code, rec.Body.String())
	}

	var raw map[string]json.RawMessage
	decode(t, rec, &raw)
	for _, key := range []string{"error", "message", "insertResult"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing %q: %s", key, rec.Body.String())
		}
	}
	var resp struct {
		Error        bool            `json:"error"`
		Message      string          `json:"message"`
		InsertResult db.InsertResult `json:"insertResult"`
	}
	decode(t, rec, &resp)
	if !resp.Error || resp.Message != core.ErrCartClearFailed.Error() {
		t.Errorf("error body = %+v", resp)
	}
	if resp.InsertResult.InsertedID == "" || !resp.InsertResult.Acknowledged {
		t.Errorf("insertResult = %+v", resp.InsertResult)
	}

	rec = s.do(t, http.MethodGet, "/payments?email=s@example.com", token, nil)
	var history []models.Payment
	decode(t, rec, &history)
	if rec.Code != http.StatusOK || len(history) != 1 || history[0].TransactionID != "pi_2" {
		t.Fatalf("GET /payments = %d %+v", rec.Code, history)
	}
	if history[0].ID != resp.InsertResult.InsertedID {
		t.Errorf("stored payment id = %q, insertResult id = %q", history[0].ID, resp.InsertResult.InsertedID)
	}

	rec = s.do(t, http.MethodGet, "/carts?email=s@example.com", token, nil)
	var items []models.CartItem
	decode(t, rec, &items)
	if len(items) != 1 {
		t.Errorf("cart after failed clear = %+v, want the item kept", items)
	}
}

func TestCreatePaymentIntentPriceBounds(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "s@example.com", "")

	for _, price := range []float64{0, -5, 1000000, 1e300} {
		rec := s.do(t, http.MethodPost, "/create-payment-intent", token, models.CreatePaymentIntentRequest{Price: price})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("price %v = %d %s, want 400", price, rec.Code, rec.Body.String())
		}
	}

	rec := s.do(t, http.MethodPost, "/create-payment-intent", token, models.CreatePaymentIntentRequest{Price: core.MaxIntentPrice})
	if rec.Code != http.StatusOK {
		t.Errorf("max price = %d %s", rec.Code, rec.Body.String())
	}
}
