package adaptor

import (
	"net/http"

	"credential-vault/internal/dto/request"
	"credential-vault/internal/usecase"
	"credential-vault/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VaultHandler struct {
	service usecase.VaultService
	log     *zap.Logger
}

func NewVaultHandler(service usecase.VaultService, log *zap.Logger) *VaultHandler {
	return &VaultHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/vault
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	items, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, h.log, err, "list vault items")
		return
	}

	utils.ResponseSuccess(w, "Vault items retrieved successfully", items)
}

// Create handles POST /api/vault
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateVaultItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create vault item")
		return
	}

	utils.ResponseCreated(w, "Vault item created successfully", item)
}

// Get handles GET /api/vault/{id}
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	item, err := h.service.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get vault item")
		return
	}

	utils.ResponseSuccess(w, "Vault item retrieved successfully", item)
}

// Update handles PATCH and PUT /api/vault/{id}
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateVaultItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	item, err := h.service.Update(r.Context(), ownerID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update vault item")
		return
	}

	utils.ResponseSuccess(w, "Vault item updated successfully", item)
}

// Delete handles DELETE /api/vault/{id}
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete vault item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
