// Package app wires the tabinsight service together and runs it.
//
// # Initialization Flow
//
//	1. Load configuration from .env, environment variables and an optional YAML file
//	2. Initialize logging and OpenTelemetry
//	3. Create the file store and the dataset, analysis, prediction and health services
//	4. Mount the handlers under /api behind the middleware chain
//	5. Start the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run returns after SIGINT or SIGTERM once in-flight requests have finished
// and the telemetry providers are flushed. The package never calls os.Exit.
package app
