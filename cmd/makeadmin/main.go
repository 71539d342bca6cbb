// Package main promotes an existing user to the admin role, looked up by
// phone number. Usage: makeadmin <phone>
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"paygrow/internal/config"
	"paygrow/internal/models"
	"paygrow/internal/repositories"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: makeadmin <phone>")
	}
	phone := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := repositories.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	repo := repositories.NewLedgerRepository(db)
	user, err := repo.GetAccountByPhone(phone)
	if err != nil {
		log.WithError(err).WithField("phone", phone).Fatal("user lookup failed")
	}

	if user.IsAdmin() {
		log.WithField("phone", phone).Info("user is already an admin")
		return
	}

	user.Role = models.RoleAdmin
	if err := repo.SaveAccount(user); err != nil {
		log.WithError(err).Fatal("failed to save user")
	}

	log.WithFields(log.Fields{"phone": phone, "user_id": user.ID}).Info("user promoted to admin")
}
