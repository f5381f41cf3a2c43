package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reminder-backend/config"
	"reminder-backend/controllers"
)

func SetupRouter(log *zap.Logger, cfg config.HTTP, reminders *controllers.ReminderController) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	r.Use(config.PerformanceLogger(log, cfg.SlowRequestThreshold))

	r.GET("/", reminders.Welcome)
	r.GET("/health", reminders.Health)

	r.GET("/getAllReminder", reminders.GetAllReminders)
	r.GET("/getReminder/:id", reminders.GetReminder)
	r.GET("/getReminderLogs", reminders.GetReminderLogs)
	r.POST("/addReminder", reminders.AddReminder)
	r.POST("/deleteReminder", reminders.DeleteReminder)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
