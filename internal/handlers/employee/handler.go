package employee

import (
	"net/http"

	"etm/infras/otel"
	"etm/internal/domains/employee/model/dto"
	"etm/internal/domains/employee/service"
	tripDto "etm/internal/domains/trip/model/dto"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"
	"etm/shared/validator"
	"etm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const errEmptyUpdate = "at least one field must be provided"

type Handler struct {
	service service.Employee
	otel    otel.Otel
}

func New(service service.Employee, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/employees", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateEmployee)
		routerGroup.Get("/", handler.GetEmployees)
		routerGroup.Get("/{id}", handler.GetEmployeeByID)
		routerGroup.Get("/{id}/trips", handler.GetEmployeeTrips)
		routerGroup.Put("/{id}", handler.UpdateEmployee)
		routerGroup.Post("/{id}/avatar", handler.UploadAvatar)
		routerGroup.Delete("/{id}", handler.DeleteEmployee)
	})
}

// CreateEmployee handles the creation of a new employee.
// @Summary Create an employee
// @Description The username is lowercased with spaces and apostrophes removed.
// @Tags Employee
// @Accept json
// @Produce json
// @Param request body dto.CreateEmployeeRequest true "Create Employee Request"
// @Success 201 {object} response.Data[dto.EmployeeResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees [post]
// @Security BearerAuth
func (handler *Handler) CreateEmployee(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEmployee")
	defer scope.End()

	req := dto.CreateEmployeeRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	actor, _ := identity.FromContext(ctx)

	employee, err := handler.service.Create(ctx, req, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create employee")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Employee created by " + actor.Actor())

	response.WithJSON(writer, http.StatusCreated, employee)
}

// GetEmployees lists employees.
// @Summary List employees
// @Tags Employee
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Match username, names or email"
// @Success 200 {object} response.Data[dto.GetEmployeesResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees [get]
// @Security BearerAuth
func (handler *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmployees")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.Filter(r.URL.Query().Get(constant.RequestParamSearch))

	employees, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get employees")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, employees)
}

// GetEmployeeByID retrieves an employee by id.
// @Summary Get an employee
// @Tags Employee
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Data[dto.EmployeeResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetEmployeeByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmployeeByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	employee, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get employee by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, employee)
}

// GetEmployeeTrips lists the trips an employee is booked on.
// @Summary List an employee's trips
// @Tags Employee
// @Produce json
// @Param id path string true "Employee ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[tripDto.GetTripsResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees/{id}/trips [get]
// @Security BearerAuth
func (handler *Handler) GetEmployeeTrips(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEmployeeTrips")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	var trips tripDto.GetTripsResponse

	trips, err := handler.service.GetTrips(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get employee trips")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trips)
}

// UpdateEmployee updates the provided fields of an employee.
// @Summary Update an employee
// @Tags Employee
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body dto.UpdateEmployeeRequest true "Update Employee Request"
// @Success 200 {object} response.Data[dto.EmployeeResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateEmployee")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateEmployeeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if req.IsEmpty() {
		response.WithError(w, failure.BadRequestFromString(errEmptyUpdate))

		return
	}

	actor, _ := identity.FromContext(ctx)

	employee, err := handler.service.Update(ctx, id, req, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update employee")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Employee updated by " + actor.Actor())

	response.WithJSON(w, http.StatusOK, employee)
}

// UploadAvatar stores a profile picture for an employee.
// @Summary Upload an employee avatar
// @Description Accepts JPEG, PNG or WebP images up to 5 MB.
// @Tags Employee
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID"
// @Param file formData file true "Avatar image"
// @Success 200 {object} response.Data[dto.EmployeeResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /api/employees/{id}/avatar [post]
// @Security BearerAuth
func (handler *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAvatar")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequest(err))

		return
	}
	defer file.Close()

	req := dto.UploadAvatarRequest{
		ContentType: fileHeader.Header.Get(constant.RequestHeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	}

	actor, _ := identity.FromContext(ctx)

	employee, err := handler.service.UploadAvatar(ctx, id, req, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload avatar")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Avatar uploaded by " + actor.Actor())

	response.WithJSON(w, http.StatusOK, employee)
}

// DeleteEmployee deletes an employee together with their bookings.
// @Summary Delete an employee
// @Tags Employee
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Message
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/employees/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteEmployee")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor, _ := identity.FromContext(ctx)

	if err := handler.service.Delete(ctx, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete employee")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Employee deleted by " + actor.Actor())

	response.WithMessage(w, http.StatusOK, "Employee deleted successfully")
}
