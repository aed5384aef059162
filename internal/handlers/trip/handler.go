package trip

import (
	"net/http"

	"etm/infras/otel"
	"etm/internal/domains/trip/model"
	"etm/internal/domains/trip/model/dto"
	"etm/internal/domains/trip/service"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	"etm/shared/validator"
	"etm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Trip
	otel    otel.Otel
}

func New(service service.Trip, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/trips", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTrip)
		routerGroup.Get("/", handler.GetTrips)
		routerGroup.Get("/{id}", handler.GetTripByID)
		routerGroup.Put("/{id}", handler.UpdateTrip)
		routerGroup.Delete("/{id}", handler.DeleteTrip)
	})
}

// CreateTrip handles the creation of a new trip.
// @Summary Create a trip
// @Description Dates use YYYY-MM-DD and the start must not be after the end.
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body dto.CreateTripRequest true "Create Trip Request"
// @Success 201 {object} response.Data[dto.TripResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/trips [post]
// @Security BearerAuth
func (handler *Handler) CreateTrip(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTrip")
	defer scope.End()

	req := dto.CreateTripRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	trip, err := handler.service.Create(ctx, req, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create trip")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Trip created by " + actor.Actor())

	response.WithJSON(writer, http.StatusCreated, trip)
}

// GetTrips lists trips.
// @Summary List trips
// @Tags Trip
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (SCHEDULED, IN_PROGRESS, COMPLETED, CANCELLED)"
// @Param search query string false "Match the description"
// @Success 200 {object} response.Data[dto.GetTripsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/trips [get]
// @Security BearerAuth
func (handler *Handler) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTrips")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.Filter(r.URL.Query().Get(model.FieldStatus), r.URL.Query().Get(constant.RequestParamSearch))

	trips, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trips")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trips)
}

// GetTripByID retrieves a trip by id.
// @Summary Get a trip
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Data[dto.TripResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/trips/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTripByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	trip, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trip by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trip)
}

// UpdateTrip updates the provided fields of a trip.
// @Summary Update a trip
// @Description The merged period must still start on or before its end.
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body dto.UpdateTripRequest true "Update Trip Request"
// @Success 200 {object} response.Data[dto.TripResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/trips/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTrip")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTripRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if req.IsEmpty() {
		response.WithError(w, failure.BadRequestFromString("at least one field must be provided"))

		return
	}

	actor, _ := identity.FromContext(ctx)

	trip, err := handler.service.Update(ctx, id, req, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update trip")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip updated by " + actor.Actor())

	response.WithJSON(w, http.StatusOK, trip)
}

// DeleteTrip deletes a trip together with its bookings.
// @Summary Delete a trip
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Message
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/trips/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTrip")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	if err := handler.service.Delete(ctx, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete trip")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip deleted by " + actor.Actor())

	response.WithMessage(w, http.StatusOK, "Trip deleted successfully")
}
