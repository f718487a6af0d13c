package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/models/response_models"
	"mendpath/internal/repositories"
	mem "mendpath/pkg/memcache"
	"mendpath/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
	GetProfile(ctx context.Context, userId uuid.UUID) (*response_models.ProfileResponse, error)
	UpdateCodeName(ctx context.Context, userId uuid.UUID, codeName string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

type AccountService struct {
	userRepo    repositories.UserRepository
	mailService IMailService
	resetTokens mem.ResetTokenStore
}

func NewAccountService(
	userRepo repositories.UserRepository,
	mailService IMailService,
	resetTokens mem.ResetTokenStore,
) AccountServiceInterface {
	return &AccountService{
		userRepo:    userRepo,
		mailService: mailService,
		resetTokens: resetTokens,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {
	user, err := a.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}

	if user == nil {
		return "", utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(user.ID, string(user.Role))
	if err != nil {
		return "", utils.ErrInvalidCredentials
	}

	return token, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {
	existing, err := a.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	codeName := request.CodeName
	if codeName == "" {
		codeName = generateCodeName()
	}

	newUser := &db_models.User{
		Email:              request.Email,
		PasswordHash:       hashedPassword,
		CodeName:           codeName,
		Role:               db_models.RoleUser,
		SubscriptionStatus: db_models.SubStatusFree,
	}

	if err := a.userRepo.InsertTx(newUser, ctx); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AccountService) GetProfile(ctx context.Context, userId uuid.UUID) (*response_models.ProfileResponse, error) {
	user, err := a.userRepo.FindById(ctx, userId.String())
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrAccountNotFound
	}

	return &response_models.ProfileResponse{
		ID:                 user.ID,
		CodeName:           user.CodeName,
		Role:               string(user.Role),
		SubscriptionStatus: string(user.SubscriptionStatus),
	}, nil
}

func (a *AccountService) UpdateCodeName(ctx context.Context, userId uuid.UUID, codeName string) error {
	if err := a.userRepo.UpdateCodeName(ctx, userId.String(), codeName); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// RequestPasswordReset always reports success to the caller so the
// endpoint cannot be used to probe which emails are registered.
func (a *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return utils.ErrDatabaseError
	}

	a.resetTokens.Set(token, email, 30*time.Minute)

	if a.mailService != nil {
		if err := a.mailService.SendMailToResetPassword(email, token); err != nil {
			log.Warn().Err(err).Msg("failed to send reset mail")
		}
	}

	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	email := a.resetTokens.Consume(token)
	if email == "" {
		return utils.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.userRepo.UpdatePasswordHash(ctx, email, hashed); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

var codeNameWords = []string{
	"Phoenix", "Ember", "River", "Aspen", "Harbor", "Cedar",
	"Meadow", "Summit", "Willow", "Beacon", "Juniper", "Dawn",
}

func generateCodeName() string {
	return fmt.Sprintf("%s%d", codeNameWords[rand.Intn(len(codeNameWords))], rand.Intn(900)+100)
}
