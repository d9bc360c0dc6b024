package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"success-sprout/internal/domain"
	"success-sprout/internal/service"
	httpez "success-sprout/internal/transport/http/ez"
	mdw "success-sprout/internal/transport/http/middleware"
)

var publishers = []domain.Role{domain.RoleRecruiter, domain.RoleAdmin}

// CatalogHandler courses / jobs / scholarships
type CatalogHandler struct {
	courses      *service.CourseService
	jobs         *service.JobService
	scholarships *service.ScholarshipService
	authn        gin.HandlerFunc
}

func NewCatalogHandler(c *service.CourseService, j *service.JobService, s *service.ScholarshipService, authn gin.HandlerFunc) *CatalogHandler {
	return &CatalogHandler{courses: c, jobs: j, scholarships: s, authn: authn}
}

func (h *CatalogHandler) Priority() int { return 20 }

func (h *CatalogHandler) MountAPI(api *gin.RouterGroup) {
	student := []gin.HandlerFunc{h.authn, mdw.RequireRoles(domain.RoleStudent)}
	ez := httpez.New(api)

	// 固定路径与 /:id 同级，gin 优先匹配静态段
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, []domain.Course]{
		Method: http.MethodGet, Path: "/courses/student/my-courses", Binder: httpez.BindNone, Use: student,
		Handler: func(c *gin.Context, _ *httpez.NoInput) ([]domain.Course, error) {
			return h.courses.Joined(c.Request.Context(), mdw.CurrentUser(c))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, []domain.Scholarship]{
		Method: http.MethodGet, Path: "/scholarships/student/my-applications", Binder: httpez.BindNone, Use: student,
		Handler: func(c *gin.Context, _ *httpez.NoInput) ([]domain.Scholarship, error) {
			return h.scholarships.Joined(c.Request.Context(), mdw.CurrentUser(c))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, []domain.Job]{
		Method: http.MethodGet, Path: "/jobs/student/my-applications", Binder: httpez.BindNone, Use: student,
		Handler: func(c *gin.Context, _ *httpez.NoInput) ([]domain.Job, error) {
			return h.jobs.Joined(c.Request.Context(), mdw.CurrentUser(c))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, []domain.Job]{
		Method: http.MethodGet, Path: "/jobs/recruiter/my-jobs", Binder: httpez.BindNone,
		Use: []gin.HandlerFunc{h.authn, mdw.RequireRoles(publishers...)},
		Handler: func(c *gin.Context, _ *httpez.NoInput) ([]domain.Job, error) {
			return h.jobs.Owned(c.Request.Context(), mdw.CurrentUser(c))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[httpez.NoInput, []domain.Applicant]{
		Method: http.MethodGet, Path: "/jobs/:id/applicants", Binder: httpez.BindNone,
		Use: []gin.HandlerFunc{h.authn, mdw.RequireRoles(publishers...)},
		Handler: func(c *gin.Context, _ *httpez.NoInput) ([]domain.Applicant, error) {
			return h.jobs.Applicants(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"))
		},
	})

	httpez.Crud(httpez.CrudConfig[domain.Course, service.CourseInput]{
		Group: api, Path: "/courses", Name: "Course", Service: h.courses,
		Auth: h.authn, WriteRoles: publishers, JoinRoles: []domain.Role{domain.RoleStudent},
		JoinAction: "enroll", JoinMessage: "Enrolled successfully",
	})
	httpez.Crud(httpez.CrudConfig[domain.Job, service.JobInput]{
		Group: api, Path: "/jobs", Name: "Job", Service: h.jobs,
		Auth: h.authn, WriteRoles: publishers, JoinRoles: []domain.Role{domain.RoleStudent},
		JoinAction: "apply", JoinMessage: "Application submitted successfully",
	})
	httpez.Crud(httpez.CrudConfig[domain.Scholarship, service.ScholarshipInput]{
		Group: api, Path: "/scholarships", Name: "Scholarship", Service: h.scholarships,
		Auth: h.authn, WriteRoles: publishers, JoinRoles: []domain.Role{domain.RoleStudent},
		JoinAction: "apply", JoinMessage: "Application submitted successfully",
	})
}
