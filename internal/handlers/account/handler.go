package account

import (
	"net/http"

	"etm/infras/otel"
	"etm/internal/domains/account/model/dto"
	"etm/internal/domains/account/service"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/identity"
	"etm/shared/validator"
	"etm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Account
	otel    otel.Otel
}

func New(service service.Account, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/accounts", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAccounts)
		routerGroup.Get("/{identifier}", handler.GetAccount)
		routerGroup.Put("/{identifier}/roles", handler.UpdateRoles)
	})
}

// GetAccounts lists login accounts.
// @Summary List accounts
// @Tags Account
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAccountsResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/accounts [get]
// @Security BearerAuth
func (handler *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccounts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	accounts, err := handler.service.List(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get accounts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, accounts)
}

// GetAccount looks an account up by username or email.
// @Summary Get an account
// @Tags Account
// @Produce json
// @Param identifier path string true "Username or email"
// @Success 200 {object} response.Data[dto.AccountResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/accounts/{identifier} [get]
// @Security BearerAuth
func (handler *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAccount")
	defer scope.End()

	identifier := chi.URLParam(r, constant.RequestParamIdentifier)

	account, err := handler.service.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get account")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, account)
}

// UpdateRoles replaces the role set of an account.
// @Summary Update account roles
// @Tags Account
// @Accept json
// @Produce json
// @Param identifier path string true "Username or email"
// @Param request body dto.UpdateRolesRequest true "Update Roles Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/accounts/{identifier}/roles [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoles")
	defer scope.End()

	identifier := chi.URLParam(r, constant.RequestParamIdentifier)

	req := dto.UpdateRolesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	if err := handler.service.UpdateRoles(ctx, identifier, req, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update account roles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Account roles updated by " + actor.Actor())

	response.WithMessage(w, http.StatusOK, "Account roles updated successfully")
}
