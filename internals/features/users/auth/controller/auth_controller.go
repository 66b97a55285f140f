package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/users/auth/dto"
	"erpr_backend/internals/features/users/auth/service"
	userDTO "erpr_backend/internals/features/users/user/dto"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
)

type AuthController struct {
	DB      *gorm.DB
	Service *service.AuthService
}

func NewAuthController(db *gorm.DB, mailer email.Mailer) *AuthController {
	return &AuthController{DB: db, Service: service.NewAuthService(db, mailer)}
}

// issueSession signs a token, sets the cookie and returns the profile.
func (ac *AuthController) issueSession(c *fiber.Ctx, status int, message string, u *userModel.UserModel) error {
	now := ac.Service.Now()
	token, exp, err := service.IssueAccessToken(u, now)
	if err != nil {
		return helper.Internal(err, "issue access token")
	}
	helper.SetAuthCookie(c, token, exp)
	body := userDTO.NewMeResponse(u, now)
	if status == fiber.StatusCreated {
		return helper.JsonCreated(c, message, body)
	}
	return helper.JsonOK(c, message, body)
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	u, err := ac.Service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ac.issueSession(c, fiber.StatusCreated, "Compte créé, votre essai gratuit commence", u)
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	u, err := ac.Service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ac.issueSession(c, fiber.StatusOK, "Connexion réussie", u)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	u, err := ac.Service.LoginGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}
	return ac.issueSession(c, fiber.StatusOK, "Connexion réussie", u)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	ac.Service.Logout(c.UserContext(), helper.GetRawAccessToken(c))
	helper.ClearAuthCookie(c)
	return helper.JsonOK(c, "Déconnexion réussie", nil)
}

// POST /api/u/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ChangePassword(c.UserContext(), userID, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Mot de passe modifié", nil)
}

// POST /api/auth/forgot-password
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return helper.JsonOK(c, "Si un compte existe pour cet email, un lien de réinitialisation a été envoyé", nil)
}

// POST /api/auth/reset-password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := ac.Service.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Mot de passe réinitialisé", nil)
}
