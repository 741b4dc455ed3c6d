package database

import (
	"fmt"

	"student-data-system/config"
	"student-data-system/internal/model"
	"student-data-system/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var autoMigrateModels = []any{
	&model.Student{},
}

// Init opens the MySQL connection, migrates the schema and seeds the
// administrator row. The handle is returned, not stored globally;
// callers pass it to the modules that need it.
func Init() *gorm.DB {
	cfg := config.Get()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Mysql.Username,
		cfg.Mysql.Password,
		cfg.Mysql.Host,
		cfg.Mysql.Port,
		cfg.Mysql.DBName,
	)
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	}

	switch cfg.Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	tools.PanicOnErr(err)

	tools.PanicOnErr(Migrate(db))
	tools.PanicOnErr(SeedAdmin(db, cfg.Admin.NIS, cfg.Admin.Nama))

	return db
}

// Migrate applies the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}

// SeedAdmin creates the administrator row when no ADMIN exists yet. The
// bootstrap password equals the NIS (stored hashed) and must be changed
// on first use.
func SeedAdmin(db *gorm.DB, nis, nama string) error {
	var count int64
	if err := db.Model(&model.Student{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	admin := model.Student{
		NIS:                nis,
		Nama:               nama,
		Password:           tools.PasswordEncrypt(nis),
		Role:               model.RoleAdmin,
		MustChangePassword: true,
	}
	return db.Create(&admin).Error
}
