package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pms-service/internal/http/middleware"
	"pms-service/internal/model"
	"pms-service/internal/repository"
	"pms-service/internal/service"
)

type Handler struct {
	workOrderService *service.WorkOrderService
	readingService   *service.ReadingService
	photoService     *service.PhotoService
	log              zerolog.Logger
}

func NewHandler(
	workOrderService *service.WorkOrderService,
	readingService *service.ReadingService,
	photoService *service.PhotoService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		workOrderService: workOrderService,
		readingService:   readingService,
		photoService:     photoService,
		log:              log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	mechanic := protected.Group("/mechanic")
	{
		mechanic.GET("/work-orders", h.listWorkOrders)
		mechanic.GET("/work-orders/:id", h.getWorkOrder)
		mechanic.POST("/work-orders/:id/readings", h.submitReading)
		mechanic.POST("/work-orders/:id/readings/validate", h.validateReading)
		mechanic.GET("/work-orders/:id/readings", h.listReadings)
		mechanic.POST("/work-orders/:id/photos", h.uploadPhoto)
		mechanic.GET("/work-orders/:id/photos", h.listPhotos)
		mechanic.GET("/vehicles/:vin/readings", h.listVehicleReadings)
	}

	supervisor := protected.Group("/supervisor")
	{
		supervisor.GET("/work-orders", h.listWorkOrders)
		supervisor.GET("/work-orders/:id", h.getWorkOrder)
		supervisor.GET("/work-orders/:id/alerts", h.listAlerts)
		supervisor.GET("/work-orders/:id/readings", h.listReadings)
		supervisor.GET("/work-orders/:id/photos", h.listPhotos)
		supervisor.GET("/vehicles/:vin/readings", h.listVehicleReadings)
		supervisor.PUT("/work-orders/:id/verify", h.verifyWorkOrder)
		supervisor.PUT("/work-orders/:id/reject", h.rejectWorkOrder)
		supervisor.PUT("/readings/:id/verify", h.verifyReading)
		supervisor.DELETE("/photos/:id", h.deletePhoto)
	}

	admin := protected.Group("/admin")
	{
		admin.POST("/work-orders", h.createWorkOrder)
		admin.GET("/work-orders", h.listWorkOrders)
		admin.GET("/work-orders/:id", h.getWorkOrder)
		admin.GET("/work-orders/:id/alerts", h.listAlerts)
		admin.PUT("/work-orders/:id/verify", h.verifyWorkOrder)
		admin.PUT("/work-orders/:id/reject", h.rejectWorkOrder)
		admin.PUT("/readings/:id/verify", h.verifyReading)
		admin.DELETE("/photos/:id", h.deletePhoto)
	}
}

func (h *Handler) createWorkOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		OrderNumber               string   `json:"order_number" binding:"required"`
		VIN                       string   `json:"vin" binding:"required"`
		PlateNumber               *string  `json:"plate_number"`
		Branch                    string   `json:"branch" binding:"required"`
		Description               string   `json:"description"`
		PMSIntervalKm             *int     `json:"pms_interval_km"`
		TimeIntervalMonths        *int     `json:"time_interval_months"`
		MinimumPhotosRequired     int      `json:"minimum_photos_required"`
		RequiresPhotoVerification bool     `json:"requires_photo_verification"`
		ServiceLatitude           *float64 `json:"service_latitude"`
		ServiceLongitude          *float64 `json:"service_longitude"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	order, err := h.workOrderService.Create(c.Request.Context(), principal, service.CreateWorkOrderInput{
		OrderNumber:               req.OrderNumber,
		VIN:                       req.VIN,
		PlateNumber:               req.PlateNumber,
		Branch:                    req.Branch,
		Description:               req.Description,
		PMSIntervalKm:             req.PMSIntervalKm,
		TimeIntervalMonths:        req.TimeIntervalMonths,
		MinimumPhotosRequired:     req.MinimumPhotosRequired,
		RequiresPhotoVerification: req.RequiresPhotoVerification,
		ServiceLatitude:           req.ServiceLatitude,
		ServiceLongitude:          req.ServiceLongitude,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(order))
}

func (h *Handler) getWorkOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	order, err := h.workOrderService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(order))
}

func (h *Handler) listWorkOrders(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	filter := repository.WorkOrderListFilter{}

	if vin := strings.TrimSpace(c.Query("vin")); vin != "" {
		filter.VIN = &vin
	}
	if branch := strings.TrimSpace(c.Query("branch")); branch != "" {
		filter.Branch = &branch
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		vs := model.VerificationStatus(strings.ToUpper(status))
		filter.Status = &vs
	}
	if flagged := strings.TrimSpace(c.Query("flagged")); flagged == "true" {
		filter.FlaggedOnly = true
	}

	orders, err := h.workOrderService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(orders))
}

func (h *Handler) submitReading(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	var req struct {
		Reading     *int    `json:"reading" binding:"required"`
		Unit        string  `json:"unit"`
		ReadingDate *string `json:"reading_date"`
		PlateNumber *string `json:"plate_number"`
		PhotoPath   *string `json:"photo_path"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	reading, err := h.readingService.Submit(c.Request.Context(), principal, service.SubmitReadingInput{
		WorkOrderID: workOrderID,
		Reading:     *req.Reading,
		Unit:        req.Unit,
		ReadingDate: req.ReadingDate,
		PlateNumber: req.PlateNumber,
		PhotoPath:   req.PhotoPath,
		RecordedIP:  c.ClientIP(),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(reading))
}

func (h *Handler) validateReading(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	var req struct {
		Reading *int `json:"reading" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.readingService.Validate(c.Request.Context(), principal, workOrderID, *req.Reading)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listReadings(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	readings, err := h.readingService.ListByWorkOrderID(c.Request.Context(), principal, workOrderID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(readings))
}

func (h *Handler) listVehicleReadings(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	vin := strings.TrimSpace(c.Param("vin"))
	if vin == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vin"))
		return
	}

	readings, err := h.readingService.ListByVIN(c.Request.Context(), principal, vin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(readings))
}

func (h *Handler) verifyReading(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid reading id"))
		return
	}

	reading, err := h.readingService.VerifyReading(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(reading))
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	photoType := strings.ToUpper(strings.TrimSpace(c.PostForm("photo_type")))
	if photoType == "" {
		c.JSON(http.StatusBadRequest, errorResponse("photo_type is required"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("photo file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to open photo file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to read photo file"))
		return
	}

	photo, err := h.photoService.Upload(c.Request.Context(), principal, service.UploadPhotoInput{
		WorkOrderID:  workOrderID,
		PhotoType:    photoType,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Data:         data,
		UploadedIP:   c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(photo))
}

func (h *Handler) listPhotos(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	photos, err := h.photoService.ListByWorkOrderID(c.Request.Context(), principal, workOrderID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(photos))
}

func (h *Handler) deletePhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid photo id"))
		return
	}

	if err := h.photoService.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listAlerts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	workOrderID := strings.TrimSpace(c.Param("id"))
	if workOrderID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	alerts, err := h.workOrderService.ListAlerts(c.Request.Context(), principal, workOrderID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(alerts))
}

func (h *Handler) verifyWorkOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	order, err := h.workOrderService.Verify(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(order))
}

func (h *Handler) rejectWorkOrder(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid work order id"))
		return
	}

	order, err := h.workOrderService.Reject(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(order))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
