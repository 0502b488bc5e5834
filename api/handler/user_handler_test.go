package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shallbuy/api/handler"
	"shallbuy/api/routes"
	"shallbuy/config"
	"shallbuy/internal/dto"
	"shallbuy/internal/entity"
	"shallbuy/internal/repository"
	"shallbuy/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubGateway struct {
	lastEmail string
}

func (g *stubGateway) FindOrCreateCustomer(_ context.Context, email string, _ string) (string, error) {
	g.lastEmail = email
	return "cus_test", nil
}

func (g *stubGateway) CreateCheckoutSession(context.Context, service.CheckoutSessionParams) (string, error) {
	return "https://checkout.test/cs_123", nil
}

func (g *stubGateway) GetCheckoutSession(_ context.Context, sessionID string) (*service.CheckoutSession, error) {
	return &service.CheckoutSession{ID: sessionID, Subscription: "sub_test"}, nil
}

func (g *stubGateway) GetSubscription(_ context.Context, subscriptionID string) (*service.SubscriptionDetails, error) {
	return &service.SubscriptionDetails{ID: subscriptionID, Status: "active"}, nil
}

type stubEmailSender struct {
	htmls []string
}

func (s *stubEmailSender) Send(_ context.Context, _ string, _ string, html string) error {
	s.htmls = append(s.htmls, html)
	return nil
}

type fixedTokenIssuer struct{}

func (fixedTokenIssuer) Sign(uuid.UUID) (string, error) {
	return "signed-token", nil
}

type apiFixture struct {
	echo  *echo.Echo
	db    *gorm.DB
	email *stubEmailSender
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	validate := handler.NewValidator()
	gateway := &stubGateway{}
	email := &stubEmailSender{}

	userService := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewActivityLogRepository(db),
		gateway,
		email,
		fixedTokenIssuer{},
		service.BcryptPasswordHasher{Cost: bcrypt.MinCost},
		service.RealClock{},
		nil,
		service.UserConfig{VerificationTTL: 20 * time.Minute, FrontendBaseURL: "https://app.test"},
	)
	billingService := service.NewBillingService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		gateway,
		nil,
		service.BillingConfig{SuccessURL: "https://app.test/success", CancelURL: "https://app.test/cancel", Currency: "inr"},
	)

	e := echo.New()
	router := routes.NewRouter(e, handler.NewUserHandler(userService, validate), handler.NewBillingHandler(billingService, validate))
	router.RegisterRoutes()

	return &apiFixture{echo: e, db: db, email: email}
}

func (f *apiFixture) request(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) register(t *testing.T) dto.UserResponse {
	t.Helper()
	rec := f.request(t, http.MethodPost, "/users/create", registerBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var user dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return user
}

func registerBody() string {
	return `{
		"email": "a@x.com",
		"username": "a",
		"password": "Abcdef1!",
		"fullName": "Ada Lovelace",
		"countryCode": "+91",
		"phoneNumber": "5550100",
		"addresses": [{"street": "1 Main St", "city": "Pune", "state": "MH", "postalCode": "411001", "country": "IN"}]
	}`
}

func validationMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var payload struct {
		Message string               `json:"message"`
		Errors  []handler.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode validation response: %v", err)
	}
	messages := make([]string, 0, len(payload.Errors))
	for _, fieldError := range payload.Errors {
		messages = append(messages, fieldError.Message)
	}
	return messages
}

func TestCreateUserEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodPost, "/users/create", registerBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, secret := range []string{"passwordHash", "Abcdef1!", "emailVerificationCode", "billingCustomerId"} {
		if strings.Contains(body, secret) {
			t.Fatalf("response leaks %q: %s", secret, body)
		}
	}

	var user dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.EmailVerified {
		t.Fatal("expected unverified user")
	}
	if len(user.Addresses) != 1 || user.Addresses[0].City != "Pune" {
		t.Fatalf("expected one address, got %+v", user.Addresses)
	}
	if len(f.email.htmls) != 1 {
		t.Fatalf("expected one verification email, got %d", len(f.email.htmls))
	}
}

func TestCreateUserValidationEnumeratesEveryRule(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodPost, "/users/create", `{
		"email": "not-an-email",
		"username": "a",
		"password": "short",
		"fullName": "Ada",
		"countryCode": "+91",
		"phoneNumber": "5550100"
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	messages := validationMessages(t, rec)
	expected := []string{
		"Invalid email address",
		"Password must be at least 8 characters long",
		"Password must contain at least one uppercase letter",
		"Password must contain at least one number",
		"Password must contain at least one symbol",
		"At least one address is required",
	}
	for _, want := range expected {
		found := false
		for _, got := range messages {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing violation %q in %v", want, messages)
		}
	}
}

func TestCreateUserBusinessSkipsAddressRequirement(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodPost, "/users/create", `{
		"email": "b@x.com",
		"username": "b",
		"password": "Abcdef1!",
		"fullName": "Biz Owner",
		"countryCode": "+91",
		"phoneNumber": "5550101",
		"companyName": "Acme Pvt Ltd"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var user dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ProfileType != string(entity.ProfileBusiness) {
		t.Fatalf("expected business profile, got %q", user.ProfileType)
	}
}

func TestCreateUserDuplicateConflict(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)

	rec := f.request(t, http.MethodPost, "/users/create", registerBody())
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t)

	rec := f.request(t, http.MethodPost, "/users/login", `{"email": "a@x.com", "password": "wrong-pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = f.request(t, http.MethodPost, "/users/login", `{"email": "a@x.com", "password": "Abcdef1!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response dto.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if response.Token != "signed-token" {
		t.Fatalf("unexpected token %q", response.Token)
	}
	if response.User.LastLoginAt == nil {
		t.Fatal("expected lastLoginAt in the login response")
	}
}

func TestVerifyEmailEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t)

	var row entity.User
	if err := f.db.First(&row, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	code := *row.EmailVerificationCode

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	rec := f.request(t, http.MethodPatch, "/users/verify-email", fmt.Sprintf(`{"id": %q, "code": %q}`, user.ID, wrong))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on mismatch, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "code_mismatch") {
		t.Fatalf("expected code_mismatch reason, got %s", rec.Body.String())
	}

	rec = f.request(t, http.MethodPatch, "/users/verify-email", fmt.Sprintf(`{"id": %q, "code": %q}`, user.ID, code))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var verified dto.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &verified); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !verified.EmailVerified {
		t.Fatal("expected verified user in response")
	}

	rec = f.request(t, http.MethodPatch, "/users/verify-email", fmt.Sprintf(`{"id": %q, "code": %q}`, user.ID, code))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "expired") {
		t.Fatalf("expected expired on repeat, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyEmailWrongLengthCodeReportsMismatch(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t)

	rec := f.request(t, http.MethodPatch, "/users/verify-email", fmt.Sprintf(`{"id": %q, "code": "1234"}`, user.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "code_mismatch") {
		t.Fatalf("expected code_mismatch reason, got %s", rec.Body.String())
	}
}

func TestValidateUsernameEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodGet, "/users/validate/a", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"isValid":true`) {
		t.Fatalf("expected available, got %d: %s", rec.Code, rec.Body.String())
	}

	f.register(t)
	rec = f.request(t, http.MethodGet, "/users/validate/a", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"isValid":false`) {
		t.Fatalf("expected taken, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUserEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t)

	rec := f.request(t, http.MethodGet, "/users/"+user.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.request(t, http.MethodGet, "/users/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}

	rec = f.request(t, http.MethodGet, "/users/4e0b1c9a-0000-4000-8000-000000000000", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t)

	rec := f.request(t, http.MethodDelete, "/users/delete/"+user.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.request(t, http.MethodDelete, "/users/delete/"+user.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestWebhookEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodPost, "/billing/webhook", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}

	rec = f.request(t, http.MethodPost, "/billing/webhook", `{"id": "evt_1", "type": "invoice.paid", "data": {"object": {}}, "livemode": false}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"received":true`) {
		t.Fatalf("expected acknowledgment, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t)

	rec := f.request(t, http.MethodPost, "/billing/checkout", fmt.Sprintf(`{"priceId": "price_pro", "userId": %q, "quantity": 1}`, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "https://checkout.test/cs_123") {
		t.Fatalf("expected checkout url, got %s", rec.Body.String())
	}

	rec = f.request(t, http.MethodPost, "/billing/checkout", `{"priceId": "price_pro", "userId": "not-a-uuid"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad user id, got %d", rec.Code)
	}
}
