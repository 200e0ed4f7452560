package main

import (
	"context"
	"os"

	"themeradar/cmd"
	"themeradar/internal/app"
	"themeradar/internal/logger"
	"themeradar/internal/util"
)

func main() {
	log := logger.FromContext(context.Background())
	log.Infow("starting api", "commitHash", os.Getenv("commit_hash"))

	deps, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	scheduler := app.NewScreeningScheduler(
		deps.ApiHandler.ScreeningApp,
		deps.ApiHandler.UniverseRepository,
		util.LoadLocation(deps.AppConfig.Timezone),
	)
	if err := scheduler.Start(deps.AppConfig.Schedule); err != nil {
		log.Fatal(err)
	}
	defer scheduler.Stop()

	if err := deps.ApiHandler.StartApi(3009); err != nil {
		log.Fatal(err)
	}
}
