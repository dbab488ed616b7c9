package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/gltfexport"
	"github.com/specialistvlad/shadermat/internal/importer"
)

// Run loads the configured descriptors, imports them into the host registry
// and, when asked to, exports the result as glTF. With an inspection port
// set, it keeps serving until ctx is done.
func (app *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.logger.Debug("App.Run method started.")

	app.inspectServer()
	defer app.closeInspectServer()

	set, err := app.loader.Load(ctx, app.config.Paths...)
	if err != nil {
		return fmt.Errorf("failed to load descriptors: %w", err)
	}
	app.logger.Info("Descriptors loaded.", "textures", len(set.Textures), "materials", len(set.Materials))
	app.dumpDescriptors(set)

	if len(set.Textures) == 0 && len(set.Materials) == 0 {
		app.logger.Warn("No textures or materials found, import not required.")
		return nil
	}

	app.logger.Info("🚀 Starting import...")
	session := importer.NewSession(app.cache, app.config.importSettings())
	report := session.Import(ctx, set.Textures, set.Materials)
	app.logger.Info("🏁 Import finished.", "succeeded", report.Succeeded(), "failed", report.Failed(), "uploads", app.registry.Uploads())

	if app.config.GLTFPath != "" {
		if err := app.exportGLTF(ctx); err != nil {
			return err
		}
	}

	if app.httpServer != nil {
		app.logger.Info("Serving inspection endpoints until interrupted.")
		<-ctx.Done()
	}

	app.logger.Debug("App.Run method finished.")
	return reportError(report)
}

func (app *App) exportGLTF(ctx context.Context) error {
	doc, err := gltfexport.Export(ctx, app.registry)
	if err != nil {
		return fmt.Errorf("failed to build glTF document: %w", err)
	}
	if err := gltfexport.SaveFile(app.config.GLTFPath, doc); err != nil {
		return fmt.Errorf("failed to write glTF file: %w", err)
	}
	app.logger.Info("glTF written.", "path", app.config.GLTFPath, "materials", len(doc.Materials))
	return nil
}

func reportError(report *importer.Report) error {
	if report.Failed() == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d assets failed to import: %w", report.Failed(), len(report.Results), report.Err())
}
