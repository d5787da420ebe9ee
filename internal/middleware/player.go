package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

// EnsurePlayerID reads the player from the X-Player-ID header or the
// playerId query parameter and stores it in Locals("playerID").
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// The header and query values alias fasthttp's request buffer, and
		// the ID outlives the request as a seat, queue entry and map key.
		playerID = utils.CopyString(playerID)
		log.Debugf("%s %s as player %s", c.Method(), c.Path(), playerID)
		c.Locals("playerID", playerID)
		return c.Next()
	}
}
