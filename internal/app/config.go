package app

import (
	"time"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/utils"
)

type Config struct {
	Mode            string
	Port            string
	WatcherSchedule string
	UseSimulated    bool
	GenerationDelay time.Duration
	SeedOnBoot      bool
}

func LoadConfig(log *logger.Logger) Config {
	delaySeconds := utils.GetEnvAsInt("GENERATION_DELAY_SECONDS", 2, log)
	return Config{
		Mode:            utils.GetEnv("MODE", "dev", log),
		Port:            utils.GetEnv("PORT", "8080", log),
		WatcherSchedule: utils.GetEnv("WATCHER_SCHEDULE", "0 6 * * *", log),
		UseSimulated:    utils.GetEnv("USE_SIMULATED_UPDATES", "true", log) == "true",
		GenerationDelay: time.Duration(delaySeconds) * time.Second,
		SeedOnBoot:      utils.GetEnv("SEED_ON_BOOT", "true", log) == "true",
	}
}
