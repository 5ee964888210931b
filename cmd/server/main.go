// Package main is the entry point for the binasc API server
package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/james-see/binasc/pkg/api"
	"github.com/sirupsen/logrus"
)

func main() {
	defaultPort := 8080
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			defaultPort = p
		}
	}

	port := flag.Int("port", defaultPort, "Server port")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	log.Infof("Starting binasc API server on port %d...", *port)
	log.Infof("Swagger docs available at http://localhost:%d/swagger/index.html", *port)

	if err := api.StartServer(*port, log); err != nil {
		log.WithError(err).Error("Server error")
		os.Exit(1)
	}
}
