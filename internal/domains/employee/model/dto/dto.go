package dto

import (
	"io"
	"time"

	"etm/internal/domains/employee/model"
	"etm/shared"
	gDto "etm/shared/dto"
	gModel "etm/shared/model"

	"github.com/google/uuid"
)

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type CreateEmployeeRequest struct {
	Username  string `json:"username"   validate:"required,max=50"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
}

// Normalize lowercases the username and email and strips spaces and apostrophes from the username.
func (c *CreateEmployeeRequest) Normalize() {
	c.Username = shared.NormalizeUsername(c.Username)
	c.Email = shared.NormalizeEmail(c.Email)
}

func (c *CreateEmployeeRequest) ToModel(now time.Time, actor string) model.Employee {
	return model.Employee{
		ID:        uuid.NewString(),
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Metadata:  gModel.NewMetadata(now, actor),
	}
}

type UpdateEmployeeRequest struct {
	Username  string `json:"username"   validate:"omitempty,max=50"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name"  validate:"omitempty,max=100"`
	Email     string `json:"email"      validate:"omitempty,email,max=255"`
}

func (u *UpdateEmployeeRequest) Normalize() {
	u.Username = shared.NormalizeUsername(u.Username)
	u.Email = shared.NormalizeEmail(u.Email)
}

func (u *UpdateEmployeeRequest) IsEmpty() bool {
	return u.Username == "" && u.FirstName == "" && u.LastName == "" && u.Email == ""
}

// UpdateEmployee is the column set written by an update.
type UpdateEmployee struct {
	Username  string `db:"username"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
}

func (u *UpdateEmployeeRequest) ToUpdate() UpdateEmployee {
	return UpdateEmployee{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// Apply copies the non-empty request fields onto the employee.
func (u *UpdateEmployeeRequest) Apply(employee *model.Employee) {
	if u.Username != "" {
		employee.Username = u.Username
	}

	if u.FirstName != "" {
		employee.FirstName = u.FirstName
	}

	if u.LastName != "" {
		employee.LastName = u.LastName
	}

	if u.Email != "" {
		employee.Email = u.Email
	}
}

type UploadAvatarRequest struct {
	ContentType string    `json:"content_type" validate:"required,mimetypes=image/jpeg image/png image/webp"`
	Size        int64     `json:"size"         validate:"required,maxfilesize=5"`
	Body        io.Reader `json:"-"            validate:"-"`
}

// Extension returns the file extension for the avatar content type.
func (u *UploadAvatarRequest) Extension() string {
	return avatarExtensions[u.ContentType]
}

type UpdateAvatar struct {
	AvatarURL string `db:"avatar_url"`
}

type EmployeeResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
	TripIDs   []string `json:"trip_ids"`
	gDto.Metadata
}

func (r *EmployeeResponse) FromModel(employee model.Employee, tripIDs []string) {
	r.ID = employee.ID
	r.Username = employee.Username
	r.FirstName = employee.FirstName
	r.LastName = employee.LastName
	r.Email = employee.Email
	r.AvatarURL = employee.AvatarURL
	r.Metadata = gDto.NewMetadata(employee.Metadata)

	r.TripIDs = tripIDs
	if r.TripIDs == nil {
		r.TripIDs = []string{}
	}
}

type GetEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

// FromModels builds the page; trips maps employee id to its booked trip ids.
func (r *GetEmployeesResponse) FromModels(models []model.Employee, trips map[string][]string, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Employees = make([]EmployeeResponse, len(models))
	for i, mod := range models {
		r.Employees[i].FromModel(mod, trips[mod.ID])
	}
}

func IDs(models []model.Employee) []string {
	ids := make([]string, len(models))
	for i, mod := range models {
		ids[i] = mod.ID
	}

	return ids
}

// Filter matches employees whose username, names or email contain the search term.
func Filter(search string) gDto.FilterGroup {
	if search == "" {
		return gDto.FilterGroup{}
	}

	filters := make([]any, 0, 4) //nolint:mnd
	for _, field := range []string{model.FieldUsername, model.FieldFirstName, model.FieldLastName, model.FieldEmail} {
		filters = append(filters, gDto.Filter{
			ArgName:  "search_" + field,
			Field:    field,
			Value:    search,
			Operator: gDto.FilterOperatorLike,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters:  filters,
	}
}
