package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/guirofeoli/livegenda-app-sub001/internal/config"
	"github.com/guirofeoli/livegenda-app-sub001/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Company{},
		&models.Staff{},
		&models.Service{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE companies
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	// Guarda final contra double-booking: a checagem no use case é
	// check-then-write e duas requisições simultâneas podem passar pela
	// leitura antes de qualquer escrita. A constraint de exclusão fecha a
	// janela no banco. Bounds '[]' casam com a política de limites fechados
	// do predicado de sobreposição (encostar também conflita).
	var hasConstraint bool
	if err := db.Raw(`
        SELECT EXISTS (
            SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
        )
    `).Scan(&hasConstraint).Error; err != nil {
		log.Fatalf("failed to inspect overlap constraint: %v", err)
	}

	if !hasConstraint {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			log.Fatalf("failed to install btree_gist: %v", err)
		}
		if err := db.Exec(`
            ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                staff_id WITH =,
                tsrange(start_time, end_time, '[]') WITH &&
            )
            WHERE (status <> 'cancelado')
        `).Error; err != nil {
			log.Fatalf("failed to install overlap constraint: %v", err)
		}
	}

	return db
}
