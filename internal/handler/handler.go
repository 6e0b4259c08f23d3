package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"daoview/internal/domain"
	"daoview/internal/service"
	"daoview/internal/stacks"
)

// DaoHandler handles DAO API requests
type DaoHandler struct {
	svc *service.DaoService
}

// NewDaoHandler creates a new DAO handler
func NewDaoHandler(svc *service.DaoService) *DaoHandler {
	return &DaoHandler{svc: svc}
}

// RegisterRoutes adds the API routes to mux
func (h *DaoHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/config", h.GetConfig)
	mux.HandleFunc("GET /api/adapters", h.ListAdapters)
	mux.HandleFunc("POST /api/wallet/address", h.WalletAddress)

	// Known DAO list
	mux.HandleFunc("GET /api/daos", h.ListDaos)
	mux.HandleFunc("POST /api/daos", h.RegisterDao)
	mux.HandleFunc("GET /api/daos/export", h.ExportDaos)
	mux.HandleFunc("DELETE /api/daos/{address}", h.DeleteDao)

	// Contract reads
	mux.HandleFunc("GET /api/daos/{address}/treasury", h.GetTreasury)
	mux.HandleFunc("GET /api/daos/{address}/proposals", h.GetProposals)
	mux.HandleFunc("GET /api/daos/{address}/proposals/{id}", h.GetProposalDetails)
	mux.HandleFunc("GET /api/daos/{address}/validate", h.ValidateDao)
	mux.HandleFunc("GET /api/daos/{address}/adapter", h.GetAdapter)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ConfigResponse describes the networks the server reads from
type ConfigResponse struct {
	DefaultNetwork domain.Network   `json:"default_network"`
	Networks       []domain.Network `json:"networks"`
}

// GetConfig returns the default network and the supported networks
func (h *DaoHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ConfigResponse{
		DefaultNetwork: h.svc.DefaultNetwork(),
		Networks:       domain.Networks,
	}, http.StatusOK)
}

// ListAdapters returns the adapters in selection order
func (h *DaoHandler) ListAdapters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Adapters(), http.StatusOK)
}

// ListDaos returns the known DAOs for ?network=
func (h *DaoHandler) ListDaos(w http.ResponseWriter, r *http.Request) {
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	daos, err := h.svc.ListKnownDaos(r.Context(), network)
	if err != nil {
		log.Printf("Failed to list DAOs: %v", err)
		writeError(w, "Failed to list DAOs", err.Error(), http.StatusInternalServerError)
		return
	}
	if daos == nil {
		daos = []domain.KnownDao{}
	}

	writeJSON(w, daos, http.StatusOK)
}

// RegisterDao stores a DAO submitted through the registration form
func (h *DaoHandler) RegisterDao(w http.ResponseWriter, r *http.Request) {
	var dao domain.KnownDao
	if err := json.NewDecoder(r.Body).Decode(&dao); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.RegisterDao(r.Context(), &dao); err != nil {
		log.Printf("Failed to register DAO: %v", err)
		writeError(w, "Failed to register DAO", err.Error(), statusFor(err))
		return
	}

	writeJSON(w, dao, http.StatusCreated)
}

// DeleteDao removes a known DAO
func (h *DaoHandler) DeleteDao(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDao(r.Context(), r.PathValue("address")); err != nil {
		log.Printf("Failed to delete DAO: %v", err)
		writeError(w, "Failed to delete DAO", err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportDaos downloads the known DAO list as ?format=json|yaml
func (h *DaoHandler) ExportDaos(w http.ResponseWriter, r *http.Request) {
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}

	contentType := "application/json"
	switch format {
	case "json":
	case "yaml", "yml":
		format = "yaml"
		contentType = "application/x-yaml"
	default:
		writeError(w, "Unsupported format", fmt.Sprintf("format %q must be json or yaml", format), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=daos.%s", format))

	if err := h.svc.ExportDaos(r.Context(), format, network, w); err != nil {
		log.Printf("Failed to export DAOs: %v", err)
		// Can't write error response as we already set headers
		return
	}
}

// GetTreasury returns the treasury of a DAO. 404 when it cannot be read.
func (h *DaoHandler) GetTreasury(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	treasury, err := h.svc.GetDaoTreasury(r.Context(), address, network)
	if err != nil {
		writeError(w, "Invalid contract address", err.Error(), statusFor(err))
		return
	}
	if treasury == nil {
		writeError(w, "Treasury not available", service.MessageContractNotFound, http.StatusNotFound)
		return
	}

	writeJSON(w, treasury, http.StatusOK)
}

// GetProposals returns the proposals of a DAO, empty when none can be read
func (h *DaoHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	proposals, err := h.svc.GetDaoProposals(r.Context(), address, network)
	if err != nil {
		writeError(w, "Invalid contract address", err.Error(), statusFor(err))
		return
	}

	writeJSON(w, proposals, http.StatusOK)
}

// GetProposalDetails returns one proposal of a DAO
func (h *DaoHandler) GetProposalDetails(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	id := r.PathValue("id")
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	details, err := h.svc.GetProposalDetails(r.Context(), id, address, network)
	if err != nil {
		writeError(w, "Invalid contract address", err.Error(), statusFor(err))
		return
	}
	if details == nil {
		writeError(w, "Proposal not found", fmt.Sprintf("proposal %s of %s is not available", id, address), http.StatusNotFound)
		return
	}

	writeJSON(w, details, http.StatusOK)
}

// ValidateDao reports whether a contract can be read. Always 200.
func (h *DaoHandler) ValidateDao(w http.ResponseWriter, r *http.Request) {
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	writeJSON(w, h.svc.ValidateDaoContract(r.Context(), r.PathValue("address"), network), http.StatusOK)
}

// GetAdapter returns the adapter that serves a DAO
func (h *DaoHandler) GetAdapter(w http.ResponseWriter, r *http.Request) {
	network, ok := networkParam(w, r)
	if !ok {
		return
	}

	info, err := h.svc.AdapterFor(r.Context(), r.PathValue("address"), network)
	if err != nil {
		writeError(w, "Invalid contract address", err.Error(), statusFor(err))
		return
	}

	writeJSON(w, info, http.StatusOK)
}

// WalletAddressRequest carries the public key of a connected wallet
type WalletAddressRequest struct {
	PublicKey string         `json:"public_key"`
	Network   domain.Network `json:"network,omitempty"`
}

// WalletAddressResponse is the principal derived from a public key
type WalletAddressResponse struct {
	Address string         `json:"address"`
	Network domain.Network `json:"network"`
}

// WalletAddress derives the principal of a connected wallet from its public key
func (h *DaoHandler) WalletAddress(w http.ResponseWriter, r *http.Request) {
	var req WalletAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	network := req.Network.Or(h.svc.DefaultNetwork())
	if !network.Valid() {
		writeError(w, "Invalid network", fmt.Sprintf("network %q must be mainnet or testnet", network), http.StatusBadRequest)
		return
	}

	address, err := stacks.AddressFromPublicKey(req.PublicKey, network)
	if err != nil {
		writeError(w, "Invalid public key", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, WalletAddressResponse{Address: address, Network: network}, http.StatusOK)
}

// Helper methods

// networkParam reads ?network=. Empty selects the default network.
func networkParam(w http.ResponseWriter, r *http.Request) (domain.Network, bool) {
	network := domain.Network(r.URL.Query().Get("network"))
	if network != "" && !network.Valid() {
		writeError(w, "Invalid network", fmt.Sprintf("network %q must be mainnet or testnet", network), http.StatusBadRequest)
		return "", false
	}
	return network, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAddressFormat), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
