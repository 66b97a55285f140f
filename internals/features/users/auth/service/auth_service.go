package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/users/auth/dto"
	authHelper "erpr_backend/internals/features/users/auth/helper"
	authModel "erpr_backend/internals/features/users/auth/model"
	authRepo "erpr_backend/internals/features/users/auth/repository"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
	"erpr_backend/internals/logging"
)

const resetTokenTTL = time.Hour

var (
	msgBadCredentials   = "Identifiant ou mot de passe incorrect"
	msgAccountDisabled  = "Votre compte a été désactivé. Contactez l'administrateur."
	msgEmailTaken       = "Cet email est déjà utilisé"
	msgUserNameTaken    = "Ce nom d'utilisateur est déjà pris"
	msgInvalidResetLink = "Lien de réinitialisation invalide ou expiré"
	msgWrongPassword    = "Mot de passe actuel incorrect"
)

type AuthService struct {
	DB     *gorm.DB
	Mailer email.Mailer
	Google GoogleVerifier
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, mailer email.Mailer) *AuthService {
	return &AuthService{
		DB:     db,
		Mailer: mailer,
		Google: GoogleCertsVerifier{ClientID: configs.GoogleClientID},
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

/* ==========================
   Small helpers
========================== */

// NewTrialStudent builds a student whose free trial starts now.
func NewTrialStudent(now time.Time) userModel.UserModel {
	ends := now.Add(time.Duration(configs.FreeTrialDays) * 24 * time.Hour)
	return userModel.UserModel{
		Role:               constants.RoleStudent,
		IsActive:           true,
		TrialStartedAt:     &now,
		TrialEndsAt:        &ends,
		SubscriptionStatus: constants.SubscriptionTrial,
	}
}

func (s *AuthService) welcome(ctx context.Context, u *userModel.UserModel) {
	email.Notify(ctx, s.Mailer, email.TplWelcome, email.Addr(u.FullName, u.Email), map[string]any{
		"TrialDays":    configs.FreeTrialDays,
		"FreeChapters": configs.FreeTrialChapters,
	})
}

/* ==========================
   REGISTER
========================== */

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*userModel.UserModel, error) {
	req.Normalize()
	if err := authHelper.ValidateUserName(req.UserName); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err := authHelper.ValidatePassword(req.Password); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	db := s.DB.WithContext(ctx)
	if taken, err := authRepo.IsEmailTaken(db, req.Email); err != nil {
		return nil, helper.Internal(err, "register: email lookup")
	} else if taken {
		return nil, fiber.NewError(fiber.StatusConflict, msgEmailTaken)
	}
	if taken, err := authRepo.IsUserNameTaken(db, req.UserName, nil); err != nil {
		return nil, helper.Internal(err, "register: user_name lookup")
	} else if taken {
		return nil, fiber.NewError(fiber.StatusConflict, msgUserNameTaken)
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, helper.Internal(err, "register: hash")
	}

	user := NewTrialStudent(s.Now())
	user.UserName = req.UserName
	user.Email = req.Email
	user.FullName = req.FullName
	user.Password = &hash

	if err := authRepo.CreateUser(db, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fiber.NewError(fiber.StatusConflict, msgEmailTaken)
		}
		return nil, helper.Internal(err, "register: create")
	}
	logging.L().Infow("user registered", "user_id", user.ID)

	s.welcome(ctx, &user)
	return &user, nil
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByIdentifier(s.DB.WithContext(ctx), req.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, msgBadCredentials)
		}
		return nil, helper.Internal(err, "login: lookup")
	}
	if !user.HasPassword() || authHelper.CheckPasswordHash(*user.Password, req.Password) != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, msgBadCredentials)
	}
	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, msgAccountDisabled)
	}
	return user, nil
}

/* ==========================
   LOGIN GOOGLE
========================== */

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*userModel.UserModel, error) {
	ident, err := s.Google.Verify(idToken)
	if err != nil {
		logging.L().Infow("google id token rejected", "error", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Jeton Google invalide")
	}
	db := s.DB.WithContext(ctx)

	user, err := authRepo.FindUserByGoogleID(db, ident.Sub)
	if err == nil {
		return s.activeOnly(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.Internal(err, "google: lookup by sub")
	}

	// same email registered with a password: link the Google account
	user, err = authRepo.FindUserByEmail(db, ident.Email)
	if err == nil {
		if err := authRepo.LinkGoogleID(db, user.ID, ident.Sub); err != nil {
			return nil, helper.Internal(err, "google: link")
		}
		user.GoogleID = &ident.Sub
		return s.activeOnly(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.Internal(err, "google: lookup by email")
	}

	userName, err := s.uniqueUserName(db, ident)
	if err != nil {
		return nil, helper.Internal(err, "google: user_name")
	}
	nu := NewTrialStudent(s.Now())
	nu.UserName = userName
	nu.Email = ident.Email
	nu.FullName = ident.Name
	nu.GoogleID = &ident.Sub
	if err := authRepo.CreateUser(db, &nu); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fiber.NewError(fiber.StatusConflict, msgEmailTaken)
		}
		return nil, helper.Internal(err, "google: create")
	}
	s.welcome(ctx, &nu)
	return &nu, nil
}

func (s *AuthService) activeOnly(u *userModel.UserModel) (*userModel.UserModel, error) {
	if !u.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, msgAccountDisabled)
	}
	return u, nil
}

func (s *AuthService) uniqueUserName(db *gorm.DB, ident *GoogleIdentity) (string, error) {
	seed := ident.Name
	if seed == "" {
		seed = strings.SplitN(ident.Email, "@", 2)[0]
	}
	base := helper.Slugify(seed, 50)
	candidate := base
	for i := 2; i < 50; i++ {
		taken, err := authRepo.IsUserNameTaken(db, candidate, nil)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = helper.WithSuffix(base, fmt.Sprint(i), 50)
	}
	return helper.WithSuffix(base, uuid.NewString()[:8], 50), nil
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the token until its own expiry. Never fails the request.
func (s *AuthService) Logout(ctx context.Context, rawToken string) {
	if strings.TrimSpace(rawToken) == "" {
		return
	}
	now := s.Now()
	exp := TokenExpiry(rawToken, now.Add(configs.JWTTTL))
	if !exp.After(now) {
		return
	}
	hash := authHelper.HMACHex(rawToken, configs.JWTSecret)
	if err := authRepo.BlacklistToken(s.DB.WithContext(ctx), hash, exp); err != nil {
		logging.L().Warnw("blacklist token failed", "error", err)
	}
}

// IsTokenBlacklisted is used by the auth middleware.
func IsTokenBlacklisted(db *gorm.DB, rawToken string) (bool, error) {
	return authRepo.IsBlacklisted(db, authHelper.HMACHex(rawToken, configs.JWTSecret))
}

/* ==========================
   PASSWORDS
========================== */

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	db := s.DB.WithContext(ctx)
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		return helper.Internal(err, "change password: lookup")
	}
	// Google-only accounts may set a first password without the current one.
	if user.HasPassword() {
		if authHelper.CheckPasswordHash(*user.Password, req.CurrentPassword) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, msgWrongPassword)
		}
	}
	if err := authHelper.ValidatePassword(req.NewPassword); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return helper.Internal(err, "change password: hash")
	}
	if err := authRepo.UpdateUserPassword(db, userID, hash); err != nil {
		return helper.Internal(err, "change password: update")
	}
	return nil
}

// ForgotPassword never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, addr string) error {
	db := s.DB.WithContext(ctx)
	user, err := authRepo.FindUserByEmail(db, addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return helper.Internal(err, "forgot password: lookup")
	}
	if !user.IsActive {
		return nil
	}

	raw, err := authHelper.RandomToken(32)
	if err != nil {
		return helper.Internal(err, "forgot password: token")
	}
	rt := authModel.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: authHelper.SHA256Hex(raw),
		ExpiresAt: s.Now().Add(resetTokenTTL),
	}
	if err := authRepo.CreateResetToken(db, &rt); err != nil {
		return helper.Internal(err, "forgot password: store")
	}

	email.Notify(ctx, s.Mailer, email.TplPasswordReset, email.Addr(user.FullName, user.Email), map[string]any{
		"Link": configs.FrontendURL + "/reset-password?token=" + raw,
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if err := authHelper.ValidatePassword(req.NewPassword); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	now := s.Now()
	db := s.DB.WithContext(ctx)

	rt, err := authRepo.FindResetToken(db, authHelper.SHA256Hex(strings.TrimSpace(req.Token)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, msgInvalidResetLink)
		}
		return helper.Internal(err, "reset password: lookup")
	}
	if !rt.Usable(now) {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidResetLink)
	}

	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return helper.Internal(err, "reset password: hash")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		n, err := authRepo.MarkResetTokenUsed(tx, rt.ID, now)
		if err != nil {
			return helper.Internal(err, "reset password: mark used")
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusBadRequest, msgInvalidResetLink)
		}
		if err := authRepo.UpdateUserPassword(tx, rt.UserID, hash); err != nil {
			return helper.Internal(err, "reset password: update")
		}
		return nil
	})
}
