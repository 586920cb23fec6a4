package cli

import (
	"github.com/raghavn86/TaskBuddy/internal/config"
	"github.com/raghavn86/TaskBuddy/internal/service"
)

// App bundles the services and settings the CLI commands need.
type App struct {
	Plans  service.PlanService
	Config config.Config
}
