package main

import (
	"log"
	"strings"

	"ims-backend/internal/audit"
	"ims-backend/internal/auth"
	"ims-backend/internal/claim"
	"ims-backend/internal/config"
	"ims-backend/internal/database"
	"ims-backend/internal/models"
	"ims-backend/internal/policy"
	"ims-backend/internal/reconcile"
	"ims-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := NewApp(cfg)

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

// NewApp builds the Fiber app with the full route table.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Attachment retrieval sits outside /api: the token arrives as a query
	// parameter because browsers load these URLs directly.
	app.Get("/uploads/:name", uploads.ServeAttachmentHandler(cfg))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Policies reachable by any authenticated user
	protected.Get("/policies/by-user/:user_id", policy.ByUserHandler())
	protected.Get("/policies/verify/:policy_number", policy.VerifyHandler())

	// Admin-only policy management
	adminPolicies := protected.Group("/policies", auth.RequireRole(models.RoleAdmin))
	adminPolicies.Get("/search", policy.SearchPoliciesHandler())
	adminPolicies.Get("/", policy.ListPoliciesHandler())
	adminPolicies.Post("/", policy.CreatePolicyHandler())
	adminPolicies.Get("/:id", policy.GetPolicyHandler())
	adminPolicies.Put("/:id", policy.UpdatePolicyHandler())
	adminPolicies.Delete("/:id", policy.DeletePolicyHandler())

	// Claims
	protected.Get("/claims", claim.ListClaimsHandler())
	protected.Post("/claims", claim.CreateClaimHandler(cfg))
	protected.Get("/claims/by-user/:user_id", claim.ByUserHandler())
	protected.Get("/claims/:id", claim.GetClaimHandler())
	protected.Put("/claims/:id", auth.RequireRole(models.RoleAdmin), claim.UpdateClaimHandler())
	protected.Delete("/claims/:id", claim.DeleteClaimHandler())
	protected.Post("/claims/:id/approve", auth.RequireRole(models.RoleAdmin), claim.ApproveClaimHandler())
	protected.Post("/claims/:id/reject", auth.RequireRole(models.RoleAdmin), claim.RejectClaimHandler())

	// Admin dashboard
	protected.Get("/dashboard/summary", auth.RequireRole(models.RoleAdmin), reconcile.DashboardSummaryHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	return app
}
