package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/contactrelay/internal/app"
)

// @title           Contact Relay API
// @version         1.0
// @description     Contact form backend that saves submissions to a Google Sheet and mails them to the site owner.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:3000
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
