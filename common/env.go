package common

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnv - Load variables from an env file into the environment.
// Variables already set are kept and a missing file is allowed.
func LoadEnv(path string) bool {
	if path == "" {
		return true
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithFields(log.Fields{
			"env_path": path,
		}).Trace("No env file found")
		return true
	}
	if err := godotenv.Load(path); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"env_path": path,
		}).Error("Failed to load env file")
		return false
	}
	log.WithFields(log.Fields{
		"env_path": path,
	}).Info("Loaded env file")
	return true
}
