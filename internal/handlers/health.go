package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health. No auth, no database: load balancers and
// container probes hit this to decide whether the instance is alive.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
