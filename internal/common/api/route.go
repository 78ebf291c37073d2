package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's api type so the fx "routes"
// group can register them all at startup.
type Route interface {
	Setup(app *fiber.App)
}
