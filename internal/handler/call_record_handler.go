package handler

import (
	"errors"
	"net/http"

	"call-directory/internal/services"
	"call-directory/internal/transport/httpdto"
	directory_errors "call-directory/pkg/errors"

	"github.com/gin-gonic/gin"
)

type CallRecordHandler struct {
	service *services.CallDirectoryService
}

func NewCallRecordHandler(service *services.CallDirectoryService) *CallRecordHandler {
	return &CallRecordHandler{service: service}
}

// Create handles POST /v1/calls: get-or-create the call instance for a
// group. All racing creators receive the same winning record.
func (h *CallRecordHandler) Create(c *gin.Context) {
	var req httpdto.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	creator, ok := services.CallerFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	result, err := h.service.GetOrCreate(c.Request.Context(), services.CreateCallInput{
		GroupID:       req.GroupID,
		BackendHost:   req.BackendHost,
		BackendRegion: req.BackendRegion,
		Creator:       creator,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CreateCallResponse{
		Call:    httpdto.NewCallDTO(result.Record),
		Created: result.Created,
	}))
}

// Get handles GET /v1/calls/:group_id
func (h *CallRecordHandler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewCallDTO(rec)))
}

// Delete handles DELETE /v1/calls/:group_id?call_id=...
func (h *CallRecordHandler) Delete(c *gin.Context) {
	callID := c.Query("call_id")
	if callID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("call_id is required", "INVALID_REQUEST"))
		return
	}
	if err := h.service.End(c.Request.Context(), c.Param("group_id"), callID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"removed": true}))
}

// ListByRegion handles GET /v1/calls?region=...
func (h *CallRecordHandler) ListByRegion(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("region is required", "INVALID_REQUEST"))
		return
	}
	records, err := h.service.ListRegion(c.Request.Context(), region)
	if err != nil {
		respondError(c, err)
		return
	}
	calls := make([]httpdto.CallDTO, 0, len(records))
	for _, rec := range records {
		calls = append(calls, httpdto.NewCallDTO(rec))
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CallListResponse{Calls: calls}))
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_REQUEST"))
	case errors.Is(err, directory_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, directory_errors.ErrConflict):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "CONFLICT"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), "STORAGE_ERROR"))
	}
}
