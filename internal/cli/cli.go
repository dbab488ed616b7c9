package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/shadermat/internal/app"
	"github.com/specialistvlad/shadermat/internal/descriptor"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from the defaults, then the settings file named by -config,
// then every flag given explicitly.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	defaults := app.DefaultConfig()
	flagSet := flag.NewFlagSet("shadermat", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Shadermat - Imports shader-graph materials and their textures into a node-based host.

Usage:
  shadermat [options] PATH...

Arguments:
  PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML settings file.")
	inspectPortFlag := flagSet.Int("inspect-port", 0, "Port for the HTTP inspection server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", defaults.Workers, "Number of concurrent import workers.")
	textureFormatFlag := flagSet.String("texture-format", defaults.TextureFormat.String(), "Texture format materials look up. Options: 'png' or 'tga'.")
	interpolationFlag := flagSet.String("texture-interpolation", defaults.TextureInterpolation, "Interpolation for image textures that set none. Options: 'Linear', 'Closest', 'Cubic', 'Smart'.")
	allowCullingFlag := flagSet.Bool("allow-culling", defaults.AllowCulling, "Enable backface culling on materials that do not set it.")
	maxNameFlag := flagSet.Int("max-name-length", defaults.MaxNameLength, "Longest host resource name. 0 uses the host's limit.")
	gltfFlag := flagSet.String("gltf", "", "Write the imported materials to this .glb or .gltf file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No descriptor path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := defaults
	cfg.Paths = flagSet.Args()
	if *configFlag != "" {
		settings, err := app.LoadSettings(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		settings.ApplyTo(&cfg)
	}

	var flagErr error
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "inspect-port":
			cfg.InspectPort = *inspectPortFlag
		case "log-format":
			cfg.LogFormat = *logFormatFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "texture-format":
			enc, err := descriptor.ParseEncoding(*textureFormatFlag)
			if err != nil {
				flagErr = err
				return
			}
			cfg.TextureFormat = enc
		case "texture-interpolation":
			cfg.TextureInterpolation = *interpolationFlag
		case "allow-culling":
			cfg.AllowCulling = *allowCullingFlag
		case "max-name-length":
			cfg.MaxNameLength = *maxNameFlag
		case "gltf":
			cfg.GLTFPath = *gltfFlag
		}
	})
	if flagErr != nil {
		return nil, false, &ExitError{Code: 2, Message: flagErr.Error()}
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
