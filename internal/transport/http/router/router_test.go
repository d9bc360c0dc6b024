package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/core/auth"
	"success-sprout/internal/domain"
	"success-sprout/internal/mock"
	"success-sprout/internal/payment/paypal"
	"success-sprout/internal/repo"
	"success-sprout/internal/repo/repotest"
	"success-sprout/internal/service"
	"success-sprout/internal/transport/http/handler"
	mdw "success-sprout/internal/transport/http/middleware"
	"success-sprout/internal/transport/http/router"
)

const testSecret = "router-test-secret"

type app struct {
	api   *gin.Engine
	admin *gin.Engine
	gw    *mock.MockGateway
	users *repo.UserRepo
}

func newApp(t *testing.T, webhookMode string) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.Open(t)
	users := repo.NewUserRepo(db)
	courses := repo.NewCourseRepo(db)
	jobs := repo.NewJobRepo(db)
	scholarships := repo.NewScholarshipRepo(db)
	pays := repo.NewPaymentRepo(db)
	gw := mock.NewMockGateway(gomock.NewController(t))

	authSvc := service.NewAuthService(users, auth.NewJWTer(testSecret, "test", 0), nil)
	authn := mdw.Authenticate(authSvc)
	paySvc := service.NewPaymentService(gw, pays, users, service.PaymentOptions{WebhookMode: webhookMode}, nil)
	adminSvc := service.NewAdminService(users, courses, jobs, scholarships, pays, nil, 0, nil)

	reg := router.NewRegistry(
		handler.NewAuthHandler(authSvc, service.NewResumeService(nil, users, nil), authn),
		handler.NewCatalogHandler(
			service.NewCourseService(courses, nil),
			service.NewJobService(jobs, nil),
			service.NewScholarshipService(scholarships, nil),
			authn,
		),
		handler.NewPaymentHandler(paySvc, "/payment-success.html"),
		handler.NewAdminHandler(adminSvc, authn),
	)
	return &app{
		api:   router.NewAPIEngine(zap.NewNop(), router.Options{}, reg),
		admin: router.NewAdminEngine(zap.NewNop(), router.Options{}, reg),
		gw:    gw,
		users: users,
	}
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authOut struct {
	Token  string            `json:"token"`
	UserID string            `json:"userId"`
	Name   string            `json:"name"`
	User   domain.PublicUser `json:"user"`
}

type errOut struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (a *app) register(t *testing.T, email string, role domain.Role) authOut {
	t.Helper()
	w := do(t, a.api, http.MethodPost, "/api/register", "", gin.H{
		"name": "User " + email, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authOut](t, w)
}

func (a *app) promote(t *testing.T, id string, role domain.Role) {
	t.Helper()
	ok, err := a.users.SetRole(context.Background(), id, role)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	a := newApp(t, service.WebhookVerify)

	w := do(t, a.api, http.MethodPost, "/api/register", "", gin.H{
		"name": "Ann", "email": "Ann@Example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")
	reg := decode[authOut](t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ann@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleStudent, reg.User.Role)

	// 重复邮箱
	w = do(t, a.api, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann2", "email": "ann@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a.api, http.MethodPost, "/api/login", "", gin.H{"email": "ann@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, decode[errOut](t, w).Code)

	w = do(t, a.api, http.MethodPost, "/api/login", "", gin.H{"email": "ANN@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[authOut](t, w)
	assert.Equal(t, "Ann", login.Name)
	assert.Equal(t, reg.UserID, login.UserID)

	w = do(t, a.api, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[domain.PublicUser](t, w)
	assert.Equal(t, reg.UserID, me.ID)
	assert.NotNil(t, me.LastLoginAt)

	w = do(t, a.api, http.MethodGet, "/api/auth/"+reg.UserID, login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, a.api, http.MethodGet, "/api/auth/missing-id", login.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_RejectsBadCredentials(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "bob@example.com", domain.RoleStudent)

	expired, err := auth.NewJWTer(testSecret, "test", 0).
		WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).
		Issue(u.UserID, string(domain.RoleStudent))
	require.NoError(t, err)
	forged, err := auth.NewJWTer("other-secret", "test", 0).Issue(u.UserID, string(domain.RoleStudent))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"non bearer", "Token " + u.Token},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + forged},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			a.api.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	cases := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"name": "x", "password": "secret123"}},
		{"short password", gin.H{"name": "x", "email": "x@example.com", "password": "123"}},
		{"admin role", gin.H{"name": "x", "email": "x@example.com", "password": "secret123", "role": "admin"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, a.api, http.MethodPost, "/api/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	w := do(t, a.api, http.MethodPost, "/api/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func courseBody(title string) gin.H {
	return gin.H{
		"title": title, "description": "learn " + title, "category": "Programming",
		"instructor": "Ada", "duration": "4 weeks", "level": "beginner",
	}
}

func TestCatalog_OwnershipAndEnrollment(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	recA := a.register(t, "reca@example.com", domain.RoleRecruiter)
	recB := a.register(t, "recb@example.com", domain.RoleRecruiter)
	student := a.register(t, "stu@example.com", domain.RoleStudent)
	admin := a.register(t, "root@example.com", domain.RoleStudent)
	a.promote(t, admin.UserID, domain.RoleAdmin)

	w := do(t, a.api, http.MethodPost, "/api/courses", student.Token, courseBody("Go"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, a.api, http.MethodPost, "/api/courses", "", courseBody("Go"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, a.api, http.MethodPost, "/api/courses", recA.Token, gin.H{"title": "no description"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a.api, http.MethodPost, "/api/courses", recA.Token, courseBody("Go"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	course := decode[domain.Course](t, w)
	assert.Equal(t, recA.UserID, course.CreatedBy)

	w = do(t, a.api, http.MethodGet, "/api/courses?category=Programming&limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.Page[domain.Course]](t, w)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, domain.Pagination{Total: 1, Page: 1, Limit: 5, Pages: 1}, page.Pagination)

	w = do(t, a.api, http.MethodGet, "/api/courses/"+course.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, a.api, http.MethodGet, "/api/courses/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非所有者
	w = do(t, a.api, http.MethodPut, "/api/courses/"+course.ID, recB.Token, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, a.api, http.MethodDelete, "/api/courses/"+course.ID, recB.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, a.api, http.MethodPut, "/api/courses/"+course.ID, recA.Token, gin.H{"title": "Go 2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Go 2", decode[domain.Course](t, w).Title)

	// 报名幂等
	w = do(t, a.api, http.MethodPost, "/api/courses/"+course.ID+"/enroll", student.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, a.api, http.MethodPost, "/api/courses/"+course.ID+"/enroll", student.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, a.api, http.MethodPost, "/api/courses/"+course.ID+"/enroll", recA.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, a.api, http.MethodPost, "/api/courses/nope/enroll", student.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, a.api, http.MethodGet, "/api/courses/student/my-courses", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Course](t, w), 1)

	// 管理员绕过所有权
	w = do(t, a.api, http.MethodDelete, "/api/courses/"+course.ID, admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, a.api, http.MethodGet, "/api/courses/"+course.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalog_JobsAndScholarships(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	rec := a.register(t, "hr@example.com", domain.RoleRecruiter)
	other := a.register(t, "hr2@example.com", domain.RoleRecruiter)
	student := a.register(t, "kid@example.com", domain.RoleStudent)

	w := do(t, a.api, http.MethodPost, "/api/jobs", rec.Token, gin.H{
		"title": "Backend Engineer", "description": "Go services", "company": "Acme",
		"location": "Remote, India", "jobType": "full-time",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[domain.Job](t, w)

	w = do(t, a.api, http.MethodGet, "/api/jobs?location=india&search=ACME", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[domain.Page[domain.Job]](t, w).Items, 1)

	w = do(t, a.api, http.MethodPost, "/api/jobs/"+job.ID+"/apply", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, a.api, http.MethodGet, "/api/jobs/student/my-applications", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Job](t, w), 1)

	w = do(t, a.api, http.MethodGet, "/api/jobs/recruiter/my-jobs", rec.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Job](t, w), 1)
	w = do(t, a.api, http.MethodGet, "/api/jobs/recruiter/my-jobs", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, a.api, http.MethodGet, "/api/jobs/"+job.ID+"/applicants", rec.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	applicants := decode[[]domain.Applicant](t, w)
	require.Len(t, applicants, 1)
	assert.Equal(t, student.UserID, applicants[0].StudentID)
	w = do(t, a.api, http.MethodGet, "/api/jobs/"+job.ID+"/applicants", other.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, a.api, http.MethodPost, "/api/scholarships", rec.Token, gin.H{
		"title": "Merit Award", "description": "for top students", "provider": "Foundation",
		"amount": 500, "deadline": time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sch := decode[domain.Scholarship](t, w)

	w = do(t, a.api, http.MethodPost, "/api/scholarships/"+sch.ID+"/apply", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, a.api, http.MethodPost, "/api/scholarships/"+sch.ID+"/apply", student.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, a.api, http.MethodGet, "/api/scholarships/"+sch.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[domain.Scholarship](t, w).ApplicationCount)

	w = do(t, a.api, http.MethodGet, "/api/scholarships/student/my-applications", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Scholarship](t, w), 1)
}

func completed(order, subject string) *paypal.OrderDetail {
	return &paypal.OrderDetail{
		OrderID: order, Status: paypal.StatusCompleted, SubjectID: subject,
		Amount: "1.00", Currency: "INR", ProviderPaymentID: "CAP-" + order,
	}
}

func TestPayment_CreateOrder(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "payer@example.com", domain.RoleStudent)

	a.gw.EXPECT().CreateOrder(gomock.Any(), u.UserID, "1.00", "INR").
		Return(&paypal.Order{ID: "O-100", Status: "CREATED", ApproveURL: "https://paypal.test/approve"}, nil)

	w := do(t, a.api, http.MethodPost, "/api/create-paypal-order", "", gin.H{"userId": u.UserID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[map[string]any](t, w)
	assert.Equal(t, "O-100", out["orderID"])
	assert.Equal(t, "https://paypal.test/approve", out["approveUrl"])

	w = do(t, a.api, http.MethodPost, "/api/create-paypal-order", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.gw.EXPECT().CreateOrder(gomock.Any(), u.UserID, "1.00", "INR").
		Return(nil, apperr.GatewayUnavailable("paypal unavailable", nil))
	w = do(t, a.api, http.MethodPost, "/api/create-paypal-order", "", gin.H{"userId": u.UserID})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPayment_CaptureIsIdempotent(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "cap@example.com", domain.RoleStudent)

	// 第二次回跳命中台账，不再调用 provider
	a.gw.EXPECT().CaptureOrder(gomock.Any(), "O-1").Return(completed("O-1", u.UserID), nil).Times(1)

	for i := 0; i < 2; i++ {
		w := do(t, a.api, http.MethodGet, "/api/capture-paypal-order?token=O-1", "", nil)
		require.Equal(t, http.StatusFound, w.Code, w.Body.String())
		assert.Equal(t, "/payment-success.html?orderID=O-1", w.Header().Get("Location"))
	}

	w := do(t, a.api, http.MethodGet, "/api/auth/me", u.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[domain.PublicUser](t, w)
	assert.Equal(t, domain.PaymentCompleted, me.PaymentStatus)
	assert.True(t, me.Active)
	require.NotNil(t, me.PaymentDetail)
	assert.Equal(t, "O-1", me.PaymentDetail.OrderID)
}

func TestPayment_CaptureFailures(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "nocap@example.com", domain.RoleStudent)

	w := do(t, a.api, http.MethodGet, "/api/capture-paypal-order", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d := completed("O-2", "")
	a.gw.EXPECT().CaptureOrder(gomock.Any(), "O-2").Return(d, apperr.MissingReference("captured order has no custom_id"))
	w = do(t, a.api, http.MethodGet, "/api/capture-paypal-order?token=O-2", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	a.gw.EXPECT().CaptureOrder(gomock.Any(), "O-3").Return(nil, apperr.GatewayUnavailable("paypal timeout", context.DeadlineExceeded))
	w = do(t, a.api, http.MethodGet, "/api/capture-paypal-order?token=O-3", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(t, a.api, http.MethodGet, "/api/auth/me", u.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PaymentPending, decode[domain.PublicUser](t, w).PaymentStatus)
}

func TestPayment_MalformedOrderIDNeverReachesProvider(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "path@example.com", domain.RoleStudent)

	// 无 EXPECT：任何 provider 调用都会让 gomock 判失败
	for _, id := range []string{"../../../v1/x#", "O-1/capture", "O-1?x=1", "O-1#frag"} {
		w := do(t, a.api, http.MethodGet, "/api/capture-paypal-order?token="+url.QueryEscape(id), "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Empty(t, w.Header().Get("Location"), id)

		w = do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": u.UserID, "orderID": id})
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestPayment_WebhookVerify(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	u := a.register(t, "hook@example.com", domain.RoleStudent)
	other := a.register(t, "other@example.com", domain.RoleStudent)

	a.gw.EXPECT().GetOrder(gomock.Any(), "O-9").Return(completed("O-9", u.UserID), nil).Times(2)

	// 断言的 userId 与订单引用不符
	w := do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": other.UserID, "orderID": "O-9"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": u.UserID, "orderID": "O-9", "paymentId": "PAY-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[map[string]any](t, w)
	assert.Equal(t, true, out["applied"])
	assert.Equal(t, "Payment status updated", out["message"])

	w = do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": u.UserID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayment_WebhookTrust(t *testing.T) {
	a := newApp(t, service.WebhookTrust)
	u := a.register(t, "trust@example.com", domain.RoleStudent)

	w := do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": u.UserID, "orderID": "O-7"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": u.UserID, "orderID": "O-7"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["applied"])

	w = do(t, a.api, http.MethodPost, "/api/payment-webhook", "", gin.H{"userId": "ghost", "orderID": "O-8"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_Routes(t *testing.T) {
	a := newApp(t, service.WebhookVerify)
	admin := a.register(t, "boss@example.com", domain.RoleStudent)
	a.promote(t, admin.UserID, domain.RoleAdmin)
	student := a.register(t, "pupil@example.com", domain.RoleStudent)

	w := do(t, a.admin, http.MethodGet, "/admin/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, a.admin, http.MethodGet, "/admin/v1/dashboard", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, a.admin, http.MethodGet, "/admin/v1/dashboard", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[service.Dashboard](t, w).Users)

	w = do(t, a.admin, http.MethodGet, "/admin/v1/users?search=pupil", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[domain.Page[domain.PublicUser]](t, w).Items, 1)

	w = do(t, a.admin, http.MethodPut, "/admin/v1/users/"+student.UserID+"/role", admin.Token, gin.H{"role": "recruiter"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.RoleRecruiter, decode[domain.PublicUser](t, w).Role)

	w = do(t, a.admin, http.MethodPost, "/admin/v1/users/"+student.UserID+"/ban", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 封禁后旧 token 失效
	w = do(t, a.api, http.MethodGet, "/api/auth/me", student.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, a.admin, http.MethodPost, "/admin/v1/users/"+admin.UserID+"/ban", admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEngine_HealthNoRouteAndRecovery(t *testing.T) {
	a := newApp(t, service.WebhookVerify)

	for _, p := range []string{"/health", "/api/health"} {
		w := do(t, a.api, http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, p)
	}
	w := do(t, a.api, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = do(t, a.api, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, decode[errOut](t, w).Code)

	a.api.GET("/boom", func(*gin.Context) { panic("kaboom") })
	w = do(t, a.api, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(mdw.KeyRequestID))
}
