package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisched/appointment-api/internal/handler"
	"github.com/medisched/appointment-api/internal/middleware"
	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/service/doctor"
	"github.com/medisched/appointment-api/internal/service/patient"
)

type Handler struct {
	doctorSvc  *doctor.Service
	patientSvc *patient.Service
	auth       *middleware.AuthMiddleware
}

func NewHandler(doctorSvc *doctor.Service, patientSvc *patient.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{doctorSvc: doctorSvc, patientSvc: patientSvc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id/availability", h.GetDoctorAvailability)
		doctors.POST("/availability", h.auth.RequireRole(model.RoleDoctor), h.SetAvailability)
		doctors.GET("/appointments/upcoming", h.auth.RequireRole(model.RoleDoctor), h.UpcomingAppointments)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.patientSvc.ListDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) GetDoctorAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	availabilities, err := h.patientSvc.GetDoctorAvailability(c.Request.Context(), doctorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(availabilities))
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req model.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authentication"))
		return
	}

	availability, err := h.doctorSvc.SetAvailability(c.Request.Context(), doctorID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(availability))
}

func (h *Handler) UpcomingAppointments(c *gin.Context) {
	doctorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authentication"))
		return
	}

	appointments, err := h.doctorSvc.UpcomingAppointments(c.Request.Context(), doctorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
