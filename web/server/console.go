package server

import (
	"fmt"
	"log"
	"strings"

	"github.com/df07/go-band-raytracer/pkg/core"
)

// RenderLogger implements core.Logger by writing to the server log, prefixed with the render ID
type RenderLogger struct {
	renderID string
	out      *log.Logger
}

// NewRenderLogger creates a logger for a specific render using the standard logger
func NewRenderLogger(renderID string) core.Logger {
	return NewRenderLoggerTo(renderID, log.Default())
}

// NewRenderLoggerTo creates a render logger on a specific log.Logger
func NewRenderLoggerTo(renderID string, out *log.Logger) core.Logger {
	return &RenderLogger{renderID: renderID, out: out}
}

// Printf implements core.Logger interface
func (rl *RenderLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	rl.out.Printf("[render %s] %s", rl.renderID, message)
}
