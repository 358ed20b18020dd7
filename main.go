package main

import (
	"VisitReport/CronJobs"
	"VisitReport/FiberConfig"
	"VisitReport/Models"
	"VisitReport/Monday"
	"log"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	Models.Connect()
	Monday.Init()

	sweeper := CronJobs.NewSessionSweeper(24*time.Hour, true)
	if err := sweeper.Start(); err != nil {
		log.Println("Failed to start session sweeper:", err)
	}

	FiberConfig.FiberConfig()
}
