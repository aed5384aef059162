package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"etm/config"
	"etm/infras/jwt"
	"etm/infras/otel"
	accountModel "etm/internal/domains/account/model"
	accountDto "etm/internal/domains/account/model/dto"
	accountRepo "etm/internal/domains/account/repository"
	"etm/internal/domains/auth/model/dto"
	"etm/shared"
	"etm/shared/constant"
	"etm/shared/failure"
	"etm/shared/identity"
	"etm/shared/password"
	gRepo "etm/shared/repository"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const invalidCredentials = "Invalid username or password"

var (
	ErrUnknownAccount  = errors.New("token subject does not resolve to an account")
	ErrAccountDisabled = errors.New("account is disabled, locked or expired")
	ErrTokenRevoked    = errors.New("token was issued before the last password change")
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest, actor identity.Principal) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	Me(ctx context.Context, principal identity.Principal) (accountDto.AccountResponse, error)
	ChangePassword(ctx context.Context, principal identity.Principal, req dto.ChangePasswordRequest) error
	Resolve(ctx context.Context, token string) (identity.Principal, error)
	SeedAdmin(ctx context.Context) error
}

type serviceImpl struct {
	accountRepo accountRepo.Account
	cfg         *config.Config
	otel        otel.Otel
	jwt         jwt.JWT
}

func New(accountRepo accountRepo.Account, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		accountRepo: accountRepo,
		cfg:         cfg,
		otel:        otel,
		jwt:         jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest, actor identity.Principal) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = s.ensureUnique(ctx, accountModel.FieldUsername, req.Username, "Username is already taken"); err != nil {
		return res, err
	}

	if err = s.ensureUnique(ctx, accountModel.FieldEmail, req.Email, "Email is already registered"); err != nil {
		return res, err
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	account := req.ToAccountModel(timezone.Now(), actor.Actor(), hashedPassword)

	if err = s.accountRepo.Insert(ctx, account); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict("Username or email is already registered")
		}

		log.Error().Err(err).Msg("failed to create account")

		return res, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().Str("username", account.Username).Strs("roles", account.Roles).Str("actor", actor.Actor()).Msg("account registered")

	res.ID = account.ID

	return res, nil
}

func (s *serviceImpl) ensureUnique(ctx context.Context, field, value, conflict string) error {
	exists, err := s.accountRepo.Exist(ctx, shared.FilterByField(field, value, accountModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("failed to check if account exists")

		return fmt.Errorf("failed to check if account exists: %w", err)
	}

	if exists {
		return failure.Conflict(conflict)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.accountRepo.Get(ctx, accountRepo.ByUsernameOrEmail(shared.NormalizeEmail(req.Username)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get account")

		return res, fmt.Errorf("failed to get account: %w", err)
	}

	if account.ID == "" {
		log.Warn().Str("username", req.Username).Msg("login attempt with unknown username")

		return res, failure.Unauthorized(invalidCredentials)
	}

	if err = password.Verify(req.Password, account.Password); err != nil {
		log.Warn().Str("username", account.Username).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(invalidCredentials)
	}

	if !account.Usable() {
		log.Warn().Str("username", account.Username).Msg("login attempt on unusable account")

		return res, failure.Unauthorized("Account is disabled")
	}

	if password.NeedsRehash(account.Password) {
		s.rehash(ctx, account, req.Password)
	}

	token, err := s.jwt.Issue(account.Username, account.Roles)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")

		return res, fmt.Errorf("failed to issue token: %w", err)
	}

	res.FromToken(token)

	return res, nil
}

// rehash upgrades a stored hash to the current cost. password_changed_at is left
// alone so issued tokens stay valid. Failures only log.
func (s *serviceImpl) rehash(ctx context.Context, account accountModel.Account, plain string) {
	hashed, err := password.Hash(plain)
	if err != nil {
		log.Warn().Err(err).Str("username", account.Username).Msg("failed to rehash password")

		return
	}

	updatedFields := shared.TransformFields(accountDto.UpdatePassword{Password: hashed}, account.Username)

	if err = s.accountRepo.Update(ctx, updatedFields, shared.FilterByID(account.ID, accountModel.FieldID, accountModel.TableName)); err != nil {
		log.Warn().Err(err).Str("username", account.Username).Msg("failed to store rehashed password")
	}
}

func (s *serviceImpl) Me(ctx context.Context, principal identity.Principal) (res accountDto.AccountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.accountByID(ctx, principal.AccountID)
	if err != nil {
		return res, err
	}

	res.FromModel(account)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, principal identity.Principal, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.accountByID(ctx, principal.AccountID)
	if err != nil {
		return err
	}

	if err = password.Verify(req.CurrentPassword, account.Password); err != nil {
		return failure.BadRequestFromString("Current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	update := accountDto.UpdatePassword{Password: hashedPassword, PasswordChangedAt: timezone.Now()}
	updatedFields := shared.TransformFields(update, principal.Actor())

	if err = s.accountRepo.Update(ctx, updatedFields, shared.FilterByID(account.ID, accountModel.FieldID, accountModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) accountByID(ctx context.Context, id string) (accountModel.Account, error) {
	account, err := s.accountRepo.Get(ctx, shared.FilterByID(id, accountModel.FieldID, accountModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get account")

		return account, fmt.Errorf("failed to get account: %w", err)
	}

	if account.ID == "" {
		return account, failure.NotFound("Account not found")
	}

	return account, nil
}

// Resolve maps a bearer token to the principal of a usable account.
func (s *serviceImpl) Resolve(ctx context.Context, token string) (principal identity.Principal, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.Resolve")
	defer scope.End()

	claims, err := s.jwt.Parse(token)
	if err != nil {
		return principal, fmt.Errorf("failed to parse token: %w", err)
	}

	account, err := s.accountRepo.Get(ctx, shared.FilterByField(accountModel.FieldUsername, claims.Subject, accountModel.TableName))
	if err != nil {
		scope.TraceError(err)

		return principal, fmt.Errorf("failed to get account: %w", err)
	}

	if account.ID == "" {
		return principal, ErrUnknownAccount
	}

	if !account.Usable() {
		return principal, ErrAccountDisabled
	}

	if err = s.jwt.Validate(token, account.Username); err != nil {
		return principal, fmt.Errorf("failed to validate token: %w", err)
	}

	if issuedBeforePasswordChange(claims, account.PasswordChangedAt) {
		return principal, ErrTokenRevoked
	}

	return identity.Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Roles:     account.Roles,
	}, nil
}

func issuedBeforePasswordChange(claims *jwt.Claims, changedAt *time.Time) bool {
	if changedAt == nil || claims.IssuedAt == nil {
		return false
	}

	return claims.IssuedAt.Before(changedAt.Truncate(time.Second))
}

// SeedAdmin creates the bootstrap administrator when enabled and absent.
func (s *serviceImpl) SeedAdmin(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Auth.SeedAdmin")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	seed := s.cfg.Security.SeedAdmin
	if !seed.Enable {
		return nil
	}

	if seed.Password == "" {
		log.Warn().Msg("admin seeding enabled without a password, skipping")

		return nil
	}

	req := dto.RegisterRequest{
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
		Roles:    []string{constant.RoleAdmin, constant.RoleUser},
	}
	req.Normalize()

	exists, err := s.accountRepo.Exist(ctx, accountRepo.ByUsernameOrEmail(req.Username))
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	if exists {
		log.Debug().Str("username", req.Username).Msg("admin account already present")

		return nil
	}

	_, err = s.Register(ctx, req, identity.Principal{})
	if err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			return nil
		}

		return err
	}

	log.Info().Str("username", req.Username).Msg("bootstrap admin account created")

	return nil
}
