package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"backoffice/internal/http/middleware"
	"backoffice/internal/model"
	"backoffice/internal/service"
)

// Services bundles everything RegisterRoutes hands to handlers.
type Services struct {
	Auth        service.AuthService
	Agents      service.AgentService
	Users       service.UserService
	Wallets     service.WalletService
	Withdrawals service.WithdrawalService
	Trades      service.TradeService
	Audit       service.AuditService
	Settings    service.SettingsService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, metrics prometheus.Gatherer, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", Metrics(metrics))
	}

	auth := middleware.Auth(svc.Auth)

	app.Post("/auth/agent/login", Login(svc.Auth))
	app.Post("/auth/agent/logout", auth, Logout(svc.Auth))
	app.Post("/auth/agent/change-password", auth, ChangePassword(svc.Auth))

	admin := app.Group("/admin", auth, middleware.RequireAdmin())
	admin.Get("/agents", ListAgents(svc.Agents))
	admin.Post("/agents", CreateAgent(svc.Agents))
	admin.Get("/agents/:id", GetAgent(svc.Agents))
	admin.Put("/agents/:id", UpdateAgent(svc.Agents))
	admin.Put("/agents/:id/permissions", SetAgentPermissions(svc.Agents))
	admin.Post("/agents/:id/reset-password", ResetAgentPassword(svc.Agents))
	admin.Post("/agents/:id/users", AssignUsers(svc.Agents))
	admin.Delete("/agents/:id/users/:userId", UnassignUser(svc.Agents))
	admin.Get("/audit-logs", ListAuditLogs(svc.Audit))
	admin.Get("/global-settings", GetSettings(svc.Settings))
	admin.Put("/global-settings", UpdateSettings(svc.Settings))

	agent := app.Group("/agent", auth)
	agent.Get("/profile", GetProfile(svc.Agents))
	agent.Put("/profile", UpdateProfile(svc.Agents))
	agent.Get("/global-settings", GetSettings(svc.Settings))

	agent.Get("/users", ListUsers(svc.Users))
	manageUsers := middleware.RequirePermission(model.PermManageUsers)
	agent.Post("/users", manageUsers, CreateUser(svc.Users))
	agent.Get("/users/:id", GetUser(svc.Users))
	agent.Put("/users/:id", manageUsers, UpdateUser(svc.Users))
	agent.Post("/users/:id/balance", manageUsers, AdjustBalance(svc.Users))
	agent.Get("/users/:id/transactions", ListUserTransactions(svc.Users))

	manageWallets := middleware.RequirePermission(model.PermManageWallets)
	agent.Get("/wallets", ListWallets(svc.Wallets))
	agent.Post("/wallets/bank-cards", manageWallets, AddBankCard(svc.Wallets))
	agent.Delete("/wallets/bank-cards/:id", manageWallets, DeleteBankCard(svc.Wallets))
	agent.Post("/wallets/crypto", manageWallets, AddCryptoWallet(svc.Wallets))
	agent.Delete("/wallets/crypto/:id", manageWallets, DeleteCryptoWallet(svc.Wallets))

	review := middleware.RequirePermission(model.PermReviewWithdrawals)
	agent.Get("/withdrawals", ListWithdrawals(svc.Withdrawals))
	agent.Post("/withdrawals", review, CreateWithdrawal(svc.Withdrawals))
	agent.Get("/withdrawals/:id", GetWithdrawal(svc.Withdrawals))
	agent.Post("/withdrawals/:id/review", review, ReviewWithdrawal(svc.Withdrawals))
	agent.Post("/withdrawals/:id/receipt", review, UploadReceipt(svc.Withdrawals))
	agent.Get("/withdrawals/:id/receipt", ReceiptURL(svc.Withdrawals))

	agent.Get("/trades", middleware.RequirePermission(model.PermViewTrades), ListTrades(svc.Trades))
}
