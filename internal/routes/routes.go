package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/audit"
	"github.com/guirofeoli/livegenda-app-sub001/internal/config"
	"github.com/guirofeoli/livegenda-app-sub001/internal/handlers"
	infraRepo "github.com/guirofeoli/livegenda-app-sub001/internal/infra/repository"
	"github.com/guirofeoli/livegenda-app-sub001/internal/lock"
	"github.com/guirofeoli/livegenda-app-sub001/internal/middleware"
	"github.com/guirofeoli/livegenda-app-sub001/internal/notification"
	ucAppointment "github.com/guirofeoli/livegenda-app-sub001/internal/usecase/appointment"
	ucStaff "github.com/guirofeoli/livegenda-app-sub001/internal/usecase/staff"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	store := infraRepo.NewSchedulingGormStore(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	locker := newLocker(cfg, log)
	notifier := newNotifier(cfg, log)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		store,
		notifier,
		locker,
		auditDispatcher,
		log,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		store,
		notifier,
		locker,
		auditDispatcher,
		log,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		store,
		notifier,
		auditDispatcher,
		log,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		store,
		auditDispatcher,
		log,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(store, log)
	listAppointmentsUC := ucAppointment.NewListAppointments(store, log)
	listWithRelationsUC := ucAppointment.NewListAppointmentsWithRelations(store, log)
	availabilityUC := ucAppointment.NewGetAvailability(store, log)

	createStaffUC := ucStaff.NewCreateStaff(store, notifier, auditDispatcher, log)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	companyHandler := handlers.NewCompanyHandler(db)
	staffHandler := handlers.NewStaffHandler(db, store, createStaffUC)
	clientHandler := handlers.NewClientHandler(db, store)
	serviceHandler := handlers.NewServiceHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		confirmAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
		listWithRelationsUC,
		availabilityUC,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/company", companyHandler.GetMe)
			secured.PATCH("/me/company", companyHandler.UpdateMe)

			secured.GET("/me/staff", staffHandler.List)
			secured.POST("/me/staff", staffHandler.Create)
			secured.PATCH("/me/staff/:id", staffHandler.Update)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id", clientHandler.Get)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.GET("/me/appointments/agenda", appointmentHandler.ListWithRelations)
			secured.GET("/me/appointments/availability", appointmentHandler.Availability)
			secured.GET("/me/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
		}
	}
}

// newLocker conecta no redis quando configurado; sem redis (ou com redis
// fora do ar na subida) cai para o Noop e a exclusão fica só com o banco.
func newLocker(cfg *config.Config, log *zap.Logger) lock.Locker {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, slot locking disabled")
		return lock.NewNoop()
	}

	rl := lock.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rl.Ping(ctx); err != nil {
		log.Warn("redis unreachable, slot locking disabled", zap.Error(err))
		return lock.NewNoop()
	}

	log.Info("slot locking enabled", zap.String("addr", cfg.RedisAddr))
	return rl
}

func newNotifier(cfg *config.Config, log *zap.Logger) notification.Notifier {
	client := notification.NewBrevoClient(
		cfg.BrevoAPIKey,
		cfg.SenderEmail,
		cfg.SenderName,
		cfg.SMSSender,
		cfg.BrevoSandbox,
	)
	if client == nil {
		log.Info("brevo not configured, notifications disabled")
	}
	return client
}
