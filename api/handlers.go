/*
handlers.go - HTTP API handlers for the ledger engine

PURPOSE:
  Exposes clients, accounts, movements and statement reports via REST.
  Handles HTTP request/response, JSON serialization and validation, and
  delegates to the domain services.

ENDPOINTS:
  Clients:
    GET    /api/clients            List all clients
    POST   /api/clients            Register client
    GET    /api/clients/{id}       Get client
    PUT    /api/clients/{id}       Replace client
    PATCH  /api/clients/{id}       Partially update client
    DELETE /api/clients/{id}       Deactivate client (logical delete)

  Accounts:
    GET    /api/accounts           List all accounts
    POST   /api/accounts           Open account
    GET    /api/accounts/{id}      Get account with current balance
    PUT    /api/accounts/{id}      Replace account
    PATCH  /api/accounts/{id}      Partially update account
    DELETE /api/accounts/{id}      Deactivate account (logical delete)

  Movements:
    GET    /api/movements          List movements (optional ?accountId=)
    POST   /api/movements          Record deposit/withdrawal
    GET    /api/movements/{id}     Get movement
    PUT    /api/movements/{id}     Replace movement (cascades rebalance)
    PATCH  /api/movements/{id}     Partially update movement
    DELETE /api/movements/{id}     Delete movement (cascades rebalance)

  Reports:
    GET    /api/reports            Statement: ?clientId=&from=&to=&format=

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, unsupported format
  - 404: Client/account/movement not found
  - 409: Duplicate client id, identification or account number
  - 422: Insufficient balance, daily withdrawal cap exceeded
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Clients   *bank.ClientService
	Accounts  *bank.AccountService
	Engine    *ledger.Engine
	Reports   *report.Builder
	Renderers report.RenderSet

	validate *validator.Validate
}

// NewHandler creates a new handler with the given services.
func NewHandler(clients *bank.ClientService, accounts *bank.AccountService, engine *ledger.Engine, reports *report.Builder, renderers report.RenderSet) *Handler {
	return &Handler{
		Clients:   clients,
		Accounts:  accounts,
		Engine:    engine,
		Reports:   reports,
		Renderers: renderers,
		validate:  validator.New(),
	}
}

// decodeAndValidate parses the body into dst and runs struct validation.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = toClientDTO(&clients[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// CreateClient registers a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.Clients.Create(r.Context(), bank.CreateClientInput{
		Person: bank.Person{
			Name:           req.Name,
			Gender:         req.Gender,
			Age:            req.Age,
			Identification: req.Identification,
			Address:        req.Address,
			Phone:          req.Phone,
		},
		ClientID: req.ClientID,
		Password: req.Password,
		Active:   req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(client))
}

// UpdateClient fully replaces a client.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req UpdateClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.Clients.Update(r.Context(), chi.URLParam(r, "id"), bank.UpdateClientInput{
		Person: bank.Person{
			Name:           req.Name,
			Gender:         req.Gender,
			Age:            req.Age,
			Identification: req.Identification,
			Address:        req.Address,
			Phone:          req.Phone,
		},
		ClientID: req.ClientID,
		Password: req.Password,
		Active:   req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// PatchClient changes only the supplied client fields.
func (h *Handler) PatchClient(w http.ResponseWriter, r *http.Request) {
	var req PatchClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.Clients.Patch(r.Context(), chi.URLParam(r, "id"), bank.PatchClientInput{
		Name:           req.Name,
		Gender:         req.Gender,
		Age:            req.Age,
		Identification: req.Identification,
		Address:        req.Address,
		Phone:          req.Phone,
		ClientID:       req.ClientID,
		Password:       req.Password,
		Active:         req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(client))
}

// DeleteClient deactivates a client. The record and its accounts remain.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Clients.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts with their current balances.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i := range accounts {
		current, err := h.Accounts.CurrentBalance(r.Context(), &accounts[i])
		if err != nil {
			h.respondError(w, err)
			return
		}
		dtos[i] = toAccountDTO(&accounts[i], current)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAccount returns a single account with its current balance.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	current, err := h.Accounts.CurrentBalance(r.Context(), account)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account, current))
}

// CreateAccount opens an account for an existing client.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.InitialBalance.IsNegative() {
		writeError(w, http.StatusBadRequest, "Initial balance cannot be negative", nil)
		return
	}

	account, err := h.Accounts.Create(r.Context(), bank.CreateAccountInput{
		Number:         req.AccountNumber,
		Type:           req.AccountType,
		InitialBalance: req.InitialBalance,
		ClientID:       req.ClientID,
		Active:         req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(account, account.InitialBalance))
}

// UpdateAccount fully replaces an account's mutable fields.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.InitialBalance.IsNegative() {
		writeError(w, http.StatusBadRequest, "Initial balance cannot be negative", nil)
		return
	}

	account, err := h.Accounts.Update(r.Context(), chi.URLParam(r, "id"), bank.UpdateAccountInput{
		Number:         req.AccountNumber,
		Type:           req.AccountType,
		InitialBalance: req.InitialBalance,
		ClientID:       req.ClientID,
		Active:         req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	current, err := h.Accounts.CurrentBalance(r.Context(), account)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account, current))
}

// PatchAccount changes only the supplied account fields.
func (h *Handler) PatchAccount(w http.ResponseWriter, r *http.Request) {
	var req PatchAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.InitialBalance != nil && req.InitialBalance.IsNegative() {
		writeError(w, http.StatusBadRequest, "Initial balance cannot be negative", nil)
		return
	}

	account, err := h.Accounts.Patch(r.Context(), chi.URLParam(r, "id"), bank.PatchAccountInput{
		Number:         req.AccountNumber,
		Type:           req.AccountType,
		InitialBalance: req.InitialBalance,
		ClientID:       req.ClientID,
		Active:         req.Status,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	current, err := h.Accounts.CurrentBalance(r.Context(), account)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account, current))
}

// DeleteAccount deactivates an account. Its movements stay resolvable.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// MOVEMENT HANDLERS
// =============================================================================

// ListMovements returns movements in canonical order, optionally filtered
// by ?accountId=.
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.Engine.List(r.Context(), r.URL.Query().Get("accountId"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]MovementDTO, len(movements))
	for i := range movements {
		dtos[i] = toMovementDTO(&movements[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMovement returns a single movement.
func (h *Handler) GetMovement(w http.ResponseWriter, r *http.Request) {
	mov, err := h.Engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementDTO(mov))
}

// CreateMovement records a deposit or withdrawal.
func (h *Handler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	var req CreateMovementRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	mov, err := h.Engine.Create(r.Context(), ledger.CreateInput{
		AccountID: req.AccountID,
		Kind:      req.MovementType,
		Magnitude: req.Value,
		Date:      req.Date,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementDTO(mov))
}

// UpdateMovement replaces a movement and rebalances the affected chain.
func (h *Handler) UpdateMovement(w http.ResponseWriter, r *http.Request) {
	var req UpdateMovementRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	mov, err := h.Engine.Update(r.Context(), chi.URLParam(r, "id"), ledger.UpdateInput{
		AccountID: req.AccountID,
		Kind:      req.MovementType,
		Magnitude: req.Value,
		Date:      req.Date,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementDTO(mov))
}

// PatchMovement changes only the supplied movement fields.
func (h *Handler) PatchMovement(w http.ResponseWriter, r *http.Request) {
	var req PatchMovementRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	mov, err := h.Engine.PartialUpdate(r.Context(), chi.URLParam(r, "id"), ledger.PatchInput{
		AccountID: req.AccountID,
		Kind:      req.MovementType,
		Magnitude: req.Value,
		Date:      req.Date,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementDTO(mov))
}

// DeleteMovement removes a movement and rebalances the remaining chain.
func (h *Handler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLER
// =============================================================================

// GetReport builds a date-bounded statement for a client and renders it in
// the requested format (json by default, pdf via Gotenberg).
// GET /api/reports?clientId=&from=YYYY-MM-DD&to=YYYY-MM-DD&format=
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	clientID := q.Get("clientId")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required", nil)
		return
	}

	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	// Both bounds are inclusive whole days.
	to = to.Add(24*time.Hour - time.Nanosecond)

	format, err := report.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported format (use json or pdf)", err)
		return
	}

	rep, err := h.Reports.BuildClientReport(r.Context(), clientID, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}

	renderer, err := h.Renderers.For(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported format", err)
		return
	}

	rendered, err := renderer.Render(r.Context(), rep)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", rendered.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(rendered.Payload)
}

// =============================================================================
// ERROR MAPPING AND RESPONSE HELPERS
// =============================================================================

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case bank.IsNotFound(err) || ledger.IsNotFound(err) || errors.Is(err, report.ErrNoAccounts):
		writeError(w, http.StatusNotFound, "Not found", err)
	case bank.IsDuplicate(err):
		writeError(w, http.StatusConflict, "Duplicate", err)
	case ledger.IsRejected(err):
		writeError(w, http.StatusUnprocessableEntity, "Rejected", err)
	case errors.Is(err, bank.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, "Invalid password", err)
	case errors.Is(err, report.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "Unsupported format", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
