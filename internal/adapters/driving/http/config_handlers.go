package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/biredirect/internal/core/domain"
)

// ConfigResponse wraps a single config record
// @Description Config record envelope
type ConfigResponse struct {
	Data domain.ConfigRecord `json:"data"`
}

// ConfigListResponse wraps all config records
// @Description Config list envelope
type ConfigListResponse struct {
	Data []domain.ConfigRecord `json:"data"`
}

// ResultResponse reports a completed mutation
// @Description Mutation result
type ResultResponse struct {
	Result string `json:"result" example:"success"`
}

// handleCreateConfig godoc
// @Summary      Create config
// @Description  Stores a named config record. The name is trimmed and upper-cased.
// @Tags         Configs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      object  true  "Config record with a name field"
// @Success      201      {object}  ConfigResponse
// @Failure      400      {object}  ErrorResponse  "Invalid body or missing name"
// @Failure      401      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse  "Config already exists"
// @Failure      500      {object}  ErrorResponse
// @Router       /api/configs [post]
func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var record domain.ConfigRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.configService.Create(r.Context(), record)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Config should have a name")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "Config already exists")
		default:
			s.logger.Error("create config failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Config not created")
		}
		return
	}

	writeJSON(w, http.StatusCreated, ConfigResponse{Data: created})
}

// handleListConfigs godoc
// @Summary      List configs
// @Description  Returns every config record ordered by name
// @Tags         Configs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ConfigListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/configs [get]
func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	records, err := s.configService.List(r.Context())
	if err != nil {
		s.logger.Error("list configs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list configs")
		return
	}

	writeJSON(w, http.StatusOK, ConfigListResponse{Data: records})
}

// handleGetConfig godoc
// @Summary      Get config
// @Description  Returns a config record by case-insensitive name
// @Tags         Configs
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Config name"
// @Success      200   {object}  ConfigResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse  "name doesn't exist"
// @Router       /api/configs/{name} [get]
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	record, err := s.configService.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusNotFound, "name doesn't exist")
		default:
			s.logger.Error("get config failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get config")
		}
		return
	}

	writeJSON(w, http.StatusOK, ConfigResponse{Data: record})
}

// handleUpdateConfig godoc
// @Summary      Update config
// @Description  Merges the body's fields into the stored record. The name cannot change.
// @Tags         Configs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name     path      string  true  "Config name"
// @Param        request  body      object  true  "Fields to merge"
// @Success      200      {object}  ConfigResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse  "Not updated"
// @Router       /api/configs/{name} [put]
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch domain.ConfigRecord
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.configService.Update(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Not updated")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Not updated")
		default:
			s.logger.Error("update config failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Not updated")
		}
		return
	}

	writeJSON(w, http.StatusOK, ConfigResponse{Data: record})
}

// handleDeleteConfig godoc
// @Summary      Delete config
// @Description  Removes a config record by case-insensitive name
// @Tags         Configs
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Config name"
// @Success      200   {object}  ResultResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse  "Not deleted"
// @Router       /api/configs/{name} [delete]
func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.configService.Delete(r.Context(), r.PathValue("name")); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusNotFound, "Not deleted")
		default:
			s.logger.Error("delete config failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Not deleted")
		}
		return
	}

	writeJSON(w, http.StatusOK, ResultResponse{Result: "success"})
}
