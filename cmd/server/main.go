package main

import (
	"flag"
	"log"
	"os"

	"github.com/alex-user-go/tripcompare/internal/app"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
