package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	authService "erpr_backend/internals/features/users/auth/service"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
	"erpr_backend/internals/logging"
)

// LocUser holds the *userModel.UserModel loaded for the request.
const LocUser = "user"

// AuthMiddleware validates the access token (cookie first, then Bearer),
// rejects blacklisted tokens and inactive users, and fills Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}

		claims, userID, err := authService.ParseAccessToken(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}

		conn := db.WithContext(c.UserContext())
		blacklisted, err := authService.IsTokenBlacklisted(conn, raw)
		if err != nil {
			logging.L().Errorw("blacklist lookup failed", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, constants.MsgInternalError)
		}
		if blacklisted {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}

		var user userModel.UserModel
		if err := conn.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
			}
			logging.L().Errorw("auth user lookup failed", "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, constants.MsgInternalError)
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "Votre compte a été désactivé")
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(helper.LocUserID, user.ID.String())
		// the role comes from the database so a demotion applies immediately
		c.Locals(helper.LocUserRole, user.Role)
		c.Locals(helper.LocUserName, claims.UserName)
		c.Locals(LocUser, &user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*userModel.UserModel, error) {
	u, ok := c.Locals(LocUser).(*userModel.UserModel)
	if !ok || u == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
	}
	return u, nil
}
