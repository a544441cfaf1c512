package serverutils

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware guards a route group; on success the subject's id is stored in
// ctx.Locals("user_id") for handlers downstream.
func JwtMiddleware(ctx *fiber.Ctx) error {
	raw, found := strings.CutPrefix(ctx.Get("Authorization"), "Bearer ")
	if !found || raw == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(FailResponse("Missing token"))
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(FailResponse("Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(FailResponse("Invalid token"))
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}
