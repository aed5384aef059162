package service

import (
	"context"
	"fmt"

	"etm/infras/otel"
	"etm/internal/domains/account/model"
	"etm/internal/domains/account/model/dto"
	"etm/internal/domains/account/repository"
	"etm/shared"
	"etm/shared/constant"
	gDto "etm/shared/dto"
	"etm/shared/failure"
	"etm/shared/identity"

	"github.com/rs/zerolog/log"
)

type Account interface {
	List(ctx context.Context, params gDto.QueryParams) (dto.GetAccountsResponse, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (dto.AccountResponse, error)
	UpdateRoles(ctx context.Context, identifier string, req dto.UpdateRolesRequest, actor identity.Principal) error
}

type serviceImpl struct {
	repo repository.Account
	otel otel.Otel
}

func New(repo repository.Account, otel otel.Otel) Account {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams) (res dto.GetAccountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Account.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Restrict(model.SortableFields...)

	total, err := s.repo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count accounts")

		return res, fmt.Errorf("failed to count accounts: %w", err)
	}

	accounts, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get accounts")

		return res, fmt.Errorf("failed to get accounts: %w", err)
	}

	res.FromModels(accounts, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetByUsernameOrEmail(ctx context.Context, identifier string) (res dto.AccountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Account.GetByUsernameOrEmail")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.find(ctx, identifier)
	if err != nil {
		return res, err
	}

	res.FromModel(account)

	return res, nil
}

func (s *serviceImpl) UpdateRoles(ctx context.Context, identifier string, req dto.UpdateRolesRequest, actor identity.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Account.UpdateRoles")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.find(ctx, identifier)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req.ToUpdate(), actor.Actor())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(account.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("account", account.Username).Msg("failed to update account roles")

		return fmt.Errorf("failed to update account roles: %w", err)
	}

	log.Info().Str("account", account.Username).Strs("roles", req.Roles).Str("actor", actor.Actor()).Msg("account roles updated")

	return nil
}

func (s *serviceImpl) find(ctx context.Context, identifier string) (model.Account, error) {
	identifier = shared.NormalizeEmail(identifier)
	if identifier == "" {
		return model.Account{}, failure.BadRequestFromString("username or email is required")
	}

	account, err := s.repo.Get(ctx, repository.ByUsernameOrEmail(identifier))
	if err != nil {
		log.Error().Err(err).Msg("failed to get account")

		return account, fmt.Errorf("failed to get account: %w", err)
	}

	if account.ID == "" {
		return account, failure.NotFound(fmt.Sprintf("account %s not found", identifier))
	}

	return account, nil
}
