package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/cache"
	"banban-schedule-api/internal/handler"
	"banban-schedule-api/internal/middleware"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/internal/service"
	"banban-schedule-api/internal/ws"
	"banban-schedule-api/pkg/database"
	"banban-schedule-api/pkg/jwt"
	"banban-schedule-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Company{}, &model.Area{}, &model.Store{}, &model.User{},
		&model.Shift{}, &model.LeaveRequest{}, &model.ActivityTag{},
	); err != nil {
		log.Fatal("auto-migration failed", zap.Error(err))
	}

	// 3. Authorizer is built once from the static role tables; a gap in the
	// tables is a deploy blocker, not a runtime fallback.
	az, err := authz.New()
	if err != nil {
		log.Fatal("authorizer construction failed", zap.Error(err))
	}

	// 4. Seed reference data and the bootstrap admin
	seedDirectoryAndAdmin(db, log)

	// 5. Redis-backed report cache (degrades to direct computation if down)
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := cache.NewRedisClient(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB, log)
	reportCache := cache.NewReportCache(redisClient, 10*time.Minute, log)

	// 6. WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 7. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	areaRepo := repository.NewAreaRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	leaveRepo := repository.NewLeaveRepo(db)
	tagRepo := repository.NewActivityTagRepo(db)

	identityService := service.NewIdentityService(az, userRepo)
	directoryService := service.NewDirectoryService(az, storeRepo, areaRepo)
	supportService := service.NewSupportService(az, shiftRepo, userRepo, storeRepo, wsHub, reportCache, log)
	workHoursService := service.NewWorkHoursService(az, shiftRepo, userRepo, storeRepo, reportCache, log)
	leaveService := service.NewLeaveService(az, leaveRepo, tagRepo, wsHub, log)
	activityService := service.NewActivityService(az, tagRepo, storeRepo)
	staffService := service.NewStaffService(az, userRepo, storeRepo)

	identityHandler := handler.NewIdentityHandler(identityService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	supportHandler := handler.NewSupportHandler(supportService)
	workHoursHandler := handler.NewWorkHoursHandler(workHoursService, az)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	activityHandler := handler.NewActivityHandler(activityService)
	staffHandler := handler.NewStaffHandler(staffService)

	// 8. Nightly sweep: scheduled shifts dated before today become completed
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("5 0 * * *", func() {
		cutoff := time.Now().Truncate(24 * time.Hour)
		n, err := shiftRepo.CompleteThrough(cutoff)
		if err != nil {
			log.Error("shift completion sweep failed", zap.Error(err))
			return
		}
		log.Info("shift completion sweep done", zap.Int64("completed", n))
	}); err != nil {
		log.Fatal("failed to schedule shift sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 9. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Banban Schedule API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 10. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/line", identityHandler.ResolveLine)
	auth.Post("/login", identityHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo, az))

	protected.Get("/auth/me", identityHandler.Me)
	protected.Post("/auth/switch-role", middleware.RequirePermission(az, model.PermSwitchRoles), identityHandler.SwitchRole)

	// Directory
	protected.Get("/stores", directoryHandler.ListStores)
	protected.Get("/stores/:id", directoryHandler.GetStore)
	protected.Get("/stores/:id/area", directoryHandler.GetStoreArea)
	protected.Get("/areas", directoryHandler.ListAreas)
	protected.Post("/stores", middleware.RequirePermission(az, model.PermManageStores), directoryHandler.CreateStore)
	protected.Put("/stores/:id", middleware.RequirePermission(az, model.PermManageStores), directoryHandler.UpdateStore)

	// Support shift lifecycle
	protected.Post("/support-shifts/validate", supportHandler.Validate)
	protected.Post("/support-shifts", middleware.RequirePermission(az, model.PermManageStoreSchedule), supportHandler.Create)
	protected.Put("/support-shifts/:id", middleware.RequirePermission(az, model.PermManageStoreSchedule), supportHandler.Update)
	protected.Delete("/support-shifts/:id", middleware.RequirePermission(az, model.PermManageStoreSchedule), supportHandler.Cancel)
	protected.Get("/stores/:id/support-shifts", middleware.RequireRole(az, model.RoleStoreManager), supportHandler.ListForStore)
	protected.Get("/users/:id/support-shifts", supportHandler.ListForUser)

	// Work hours
	protected.Get("/work-hours/users/:id", workHoursHandler.GetUserStats)
	protected.Get("/work-hours/stores/:id", middleware.RequirePermission(az, model.PermViewAreaStats), workHoursHandler.GetStoreStats)
	protected.Get("/work-hours/export", workHoursHandler.Export)

	// Leave requests
	protected.Post("/leave-requests", middleware.RequirePermission(az, model.PermRequestLeave), leaveHandler.Submit)
	protected.Get("/leave-requests/mine", leaveHandler.ListMine)
	protected.Put("/leave-requests/:id/approve", leaveHandler.Approve)
	protected.Put("/leave-requests/:id/reject", leaveHandler.Reject)
	protected.Get("/stores/:id/leave-requests/pending", leaveHandler.ListPendingForStore)

	// Activity tags
	protected.Post("/activity-tags", middleware.RequirePermission(az, model.PermSetStoreActivities), activityHandler.Create)
	protected.Put("/activity-tags/:id", middleware.RequirePermission(az, model.PermSetStoreActivities), activityHandler.Update)
	protected.Delete("/activity-tags/:id", middleware.RequirePermission(az, model.PermSetStoreActivities), activityHandler.Delete)
	protected.Get("/stores/:id/activity-tags", activityHandler.ListForStore)

	// Staff roster
	protected.Get("/staff", staffHandler.List)
	protected.Get("/staff/:id", staffHandler.Get)
	protected.Get("/stores/:id/staff", staffHandler.ListForStore)
	protected.Post("/staff", middleware.RequirePermission(az, model.PermAssignPermissions), staffHandler.Create)
	protected.Put("/staff/:id", middleware.RequirePermission(az, model.PermAssignPermissions), staffHandler.Update)
	protected.Delete("/staff/:id", middleware.RequirePermission(az, model.PermAssignPermissions), staffHandler.Deactivate)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		defer func() { wsHub.Unregister <- c }()

		// Token in the query string binds the connection to a user so
		// per-user shift and leave notifications reach it.
		if claims, err := jwt.ValidateToken(c.Query("token")); err == nil {
			wsHub.RegisterUser(c, claims.UserID.String())
		} else {
			wsHub.Register <- c
		}

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 11. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// seedDirectoryAndAdmin creates the default company, areas, stores and the
// bootstrap system admin if they don't exist.
func seedDirectoryAndAdmin(db *gorm.DB, log *zap.Logger) {
	storeRepo := repository.NewStoreRepo(db)
	areaRepo := repository.NewAreaRepo(db)
	companyRepo := repository.NewCompanyRepo(db)
	userRepo := repository.NewUserRepo(db)

	companies, _ := companyRepo.FindAll()
	var company *model.Company
	if len(companies) > 0 {
		company = &companies[0]
	} else {
		company = &model.Company{Name: "Banban Foods", IsActive: true}
		company.CreatedBy = "system"
		company.UpdatedBy = "system"
		if err := companyRepo.Create(company); err != nil {
			log.Warn("failed to seed company", zap.Error(err))
			return
		}
	}

	seedStores := []struct {
		area string
		name string
		code string
	}{
		{"Central Area", "Taichung LaLaport Counter", "TAICHUNG_LALA"},
		{"Taipei Area", "Nangang LaLaport Counter", "NANGANG_LALA"},
	}

	areas := make(map[string]*model.Area)
	existingAreas, _ := areaRepo.FindAll()
	for i := range existingAreas {
		areas[existingAreas[i].Name] = &existingAreas[i]
	}

	for _, s := range seedStores {
		area, ok := areas[s.area]
		if !ok {
			area = &model.Area{Name: s.area, IsActive: true}
			area.CreatedBy = "system"
			area.UpdatedBy = "system"
			if err := areaRepo.Create(area); err != nil {
				log.Warn("failed to seed area", zap.String("area", s.area), zap.Error(err))
				continue
			}
			areas[s.area] = area
		}

		if _, err := storeRepo.FindByCode(s.code); err == nil {
			continue
		}
		store := &model.Store{
			Name:      s.name,
			Code:      s.code,
			AreaID:    area.ID,
			CompanyID: &company.ID,
			IsActive:  true,
		}
		store.CreatedBy = "system"
		store.UpdatedBy = "system"
		if err := storeRepo.Create(store); err != nil {
			log.Warn("failed to seed store", zap.String("code", s.code), zap.Error(err))
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@banban.example"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return
	}

	admin := &model.User{
		Name:     "System Administrator",
		Email:    adminEmail,
		Role:     model.RoleSystemAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", adminEmail))
}
