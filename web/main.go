package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-band-raytracer/pkg/config"
	"github.com/df07/go-band-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	defaults, err := config.Load()
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}

	var publisher server.Publisher
	if s3Config := server.LoadS3Config(os.LookupEnv); s3Config.Enabled() {
		s3Publisher, err := server.NewS3Publisher(s3Config)
		if err != nil {
			log.Printf("Error configuring S3: %v", err)
			os.Exit(1)
		}
		publisher = s3Publisher
		log.Printf("Publishing renders to s3://%s/%s", s3Config.Bucket, s3Config.Prefix)
	}

	webServer := server.NewServer(*port, defaults, publisher)

	log.Printf("Band Raytracer Web Server on %s", config.HostInfo())
	log.Printf("Try http://localhost:%d/api/render?scene=default&width=400&samples=10", *port)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := webServer.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
