package main

import (
	"log"

	"github.com/patric-chuzhbe/studydesk/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("app initialization error: %v", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Close()
		log.Fatalf("app run error: %v", err)
	}
}
