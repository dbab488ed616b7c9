// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load
// descriptors, import them into the host, export and serve the result. It is
// decoupled from any specific entrypoint like a CLI.
package app
