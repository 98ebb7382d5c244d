package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port for the render API and the scene inspector")
	flag.Parse()

	renderServer := server.NewServer(*port)

	log.Printf("Slice-scheduled path tracer: streaming renders over SSE")
	log.Printf("Render API at http://localhost:%d/api/render, scene list at /api/scenes", *port)

	if err := renderServer.Start(); err != nil {
		log.Printf("Render server stopped: %v", err)
		os.Exit(1)
	}
}
